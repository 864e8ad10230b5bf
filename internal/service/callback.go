package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"memorial/internal/domain"
	"memorial/internal/gateway"
	"memorial/internal/repository"
)

// OrderNotifier sends the emails that follow a paid order.
type OrderNotifier interface {
	NotifyOrderPaid(ctx context.Context, order *domain.Order)
}

// CallbackService applies gateway payment notifications to orders.
type CallbackService struct {
	orderRepo repository.OrderRepository
	auditRepo repository.NotificationRepository
	gateway   PaymentGateway
	notifier  OrderNotifier
	cache     OrderCache
}

// NewCallbackService creates a new CallbackService. auditRepo and cache may be nil.
func NewCallbackService(
	orderRepo repository.OrderRepository,
	auditRepo repository.NotificationRepository,
	gw PaymentGateway,
	notifier OrderNotifier,
	cache OrderCache,
) *CallbackService {
	return &CallbackService{
		orderRepo: orderRepo,
		auditRepo: auditRepo,
		gateway:   gw,
		notifier:  notifier,
		cache:     cache,
	}
}

// HandleOrderNotification authenticates a notification body and applies it
// to the matching order at most once.
//
// Validation, authentication and not-found failures are returned as errors
// and change nothing. Store failures are returned wrapped in ErrUpstream with
// AckDeferred; the caller still acknowledges the gateway.
func (s *CallbackService) HandleOrderNotification(ctx context.Context, body []byte) (ack Ack, err error) {
	n, err := gateway.ParseNotification(body)
	if err != nil {
		return "", err
	}

	defer func() {
		recordNotification(ctx, s.auditRepo, n, ack, err)
	}()

	orderID := n.Reference()
	if orderID == "" {
		return "", ErrMissingPaymentID
	}
	status := n.PaymentStatus()
	if status == "" {
		return "", ErrMissingPaymentStatus
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", err
		}
		return AckDeferred, fmt.Errorf("%w: get order %s: %w", ErrUpstream, orderID, err)
	}

	if err := s.gateway.Authenticate(n); err != nil {
		slog.Warn("[Callback] rejected notification, possible forgery",
			"order_id", orderID,
			"payment_status", status,
			"error", err,
		)
		return "", err
	}

	if order.Status != domain.OrderStatusPending {
		slog.Info("[Callback] order already settled, ignoring replay",
			"order_id", orderID, "order_status", order.Status, "payment_status", status)
		return AckDuplicate, nil
	}

	var target domain.OrderStatus
	var gatewayRef string
	switch status {
	case gateway.StatusComplete:
		if err := checkAmount(n, order.CartTotal); err != nil {
			slog.Warn("[Callback] amount mismatch", "order_id", orderID,
				"amount_gross", n.Params.Get(gateway.FieldAmountGross), "cart_total", order.CartTotal.StringFixed(2))
			return "", err
		}
		target = domain.OrderStatusPaid
		gatewayRef = n.GatewayPaymentID()
	case gateway.StatusFailed:
		target = domain.OrderStatusFailed
	case gateway.StatusCancelled:
		target = domain.OrderStatusCancelled
	default:
		slog.Info("[Callback] status does not settle order", "order_id", orderID, "payment_status", status)
		return AckIgnored, nil
	}

	applied, err := s.orderRepo.UpdateStatusIfPending(ctx, orderID, target, gatewayRef)
	if err != nil {
		return AckDeferred, fmt.Errorf("%w: update order %s: %w", ErrUpstream, orderID, err)
	}
	if !applied {
		// A concurrent delivery won the conditional write.
		return AckDuplicate, nil
	}

	s.invalidate(ctx, orderID)

	slog.Info("[Callback] order transitioned",
		"order_id", orderID, "status", target, "pf_payment_id", gatewayRef)

	if target == domain.OrderStatusPaid {
		order.Status = domain.OrderStatusPaid
		order.GatewayPaymentID = gatewayRef
		s.notifier.NotifyOrderPaid(ctx, order)
	}

	return AckApplied, nil
}

// checkAmount compares amount_gross, when present, with the order total.
func checkAmount(n *gateway.Notification, total decimal.Decimal) error {
	raw := n.Params.Get(gateway.FieldAmountGross)
	if raw == "" {
		return nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil || !amount.Equal(total) {
		return ErrAmountMismatch
	}
	return nil
}

func (s *CallbackService) invalidate(ctx context.Context, orderID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateOrder(ctx, orderID); err != nil {
		slog.Warn("[Callback] cache invalidation failed", "order_id", orderID, "error", err)
	}
}

// recordNotification writes the audit row for a notification. Failures are logged only.
func recordNotification(ctx context.Context, repo repository.NotificationRepository, n *gateway.Notification, ack Ack, err error) {
	if repo == nil {
		return
	}

	record := &domain.PaymentNotification{
		ID:               uuid.New().String(),
		Reference:        n.Reference(),
		GatewayPaymentID: n.GatewayPaymentID(),
		PaymentStatus:    n.PaymentStatus(),
		RawBody:          n.Raw,
		Outcome:          outcomeOf(ack, err),
		ReceivedAt:       time.Now().UTC(),
	}
	if err != nil {
		record.Detail = err.Error()
	}

	if recErr := repo.Record(ctx, record); recErr != nil {
		slog.Error("[Callback] failed to record notification", "reference", record.Reference, "error", recErr)
	}
}

func outcomeOf(ack Ack, err error) domain.NotificationOutcome {
	switch {
	case ack == AckDeferred:
		return domain.OutcomeDeferred
	case err != nil:
		return domain.OutcomeRejected
	case ack == AckApplied:
		return domain.OutcomeApplied
	case ack == AckDuplicate:
		return domain.OutcomeDuplicate
	default:
		return domain.OutcomeIgnored
	}
}
