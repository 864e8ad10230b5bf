package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"memorial/internal/domain"
	"memorial/internal/gateway"
	"memorial/internal/repository"
)

// SubscriptionNotifier sends the email that follows a subscription activation.
type SubscriptionNotifier interface {
	NotifySubscriptionActivated(ctx context.Context, sub *domain.Subscription)
}

// SubscriptionService handles retailer premium subscriptions: the signed
// recurring redirect and the notifications that activate or end them.
type SubscriptionService struct {
	subRepo   repository.SubscriptionRepository
	auditRepo repository.NotificationRepository
	gateway   PaymentGateway
	notifier  SubscriptionNotifier
	notifyURL string
}

// NewSubscriptionService creates a new SubscriptionService. notifyURL is the
// callback the gateway uses for subscription events; auditRepo may be nil.
func NewSubscriptionService(
	subRepo repository.SubscriptionRepository,
	auditRepo repository.NotificationRepository,
	gw PaymentGateway,
	notifier SubscriptionNotifier,
	notifyURL string,
) *SubscriptionService {
	return &SubscriptionService{
		subRepo:   subRepo,
		auditRepo: auditRepo,
		gateway:   gw,
		notifier:  notifier,
		notifyURL: notifyURL,
	}
}

// SubscriptionRequest contains the parameters for starting a subscription.
type SubscriptionRequest struct {
	Retailer    domain.Retailer
	Amount      decimal.Decimal
	Frequency   int
	Cycles      int
	BillingDate time.Time // Zero means today
}

// SubscriptionRedirect is handed to the browser to continue to the gateway.
type SubscriptionRedirect struct {
	Subscription *domain.Subscription
	Redirect     *gateway.Redirect
}

// Initiate persists a pending subscription and returns its signed recurring redirect.
func (s *SubscriptionService) Initiate(ctx context.Context, req SubscriptionRequest) (*SubscriptionRedirect, error) {
	if strings.TrimSpace(req.Retailer.ID) == "" || !validEmail(req.Retailer.Email) {
		return nil, ErrInvalidRetailer
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidSubscriptionAmount
	}
	switch req.Frequency {
	case domain.FrequencyMonthly, domain.FrequencyQuarterly, domain.FrequencyAnnual:
	default:
		return nil, ErrInvalidFrequency
	}
	if req.Cycles < 0 {
		return nil, ErrInvalidFrequency
	}

	now := time.Now().UTC()
	billingDate := req.BillingDate
	if billingDate.IsZero() {
		billingDate = now
	}

	sub := &domain.Subscription{
		ID:          uuid.New().String(),
		Retailer:    req.Retailer,
		Amount:      req.Amount,
		Frequency:   req.Frequency,
		Cycles:      req.Cycles,
		BillingDate: billingDate,
		Status:      domain.SubscriptionStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	redirect, err := s.gateway.NewRedirect(gateway.PaymentRequest{
		Reference:       sub.ID,
		Amount:          sub.Amount,
		ItemName:        "Premium listing",
		ItemDescription: fmt.Sprintf("Premium listing for %s", sub.Retailer.Name),
		Buyer: gateway.Buyer{
			FirstName: sub.Retailer.Name,
			Email:     sub.Retailer.Email,
		},
		NotifyURL: s.notifyURL,
		Recurring: &gateway.Recurring{
			BillingDate: sub.BillingDate,
			Amount:      sub.Amount,
			Frequency:   sub.Frequency,
			Cycles:      sub.Cycles,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("build gateway redirect: %w", err)
	}

	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("%w: create subscription: %w", ErrUpstream, err)
	}

	slog.Info("[Subscription] subscription created",
		"subscription_id", sub.ID,
		"retailer_id", sub.Retailer.ID,
		"amount", sub.Amount.StringFixed(2),
		"frequency", sub.Frequency,
	)

	return &SubscriptionRedirect{Subscription: sub, Redirect: redirect}, nil
}

// GetSubscription retrieves a subscription by ID.
func (s *SubscriptionService) GetSubscription(ctx context.Context, id string) (*domain.Subscription, error) {
	if id == "" {
		return nil, ErrInvalidSubscriptionID
	}
	return s.subRepo.GetByID(ctx, id)
}

// HandleNotification authenticates a subscription notification and applies it.
// Error semantics match CallbackService.HandleOrderNotification.
func (s *SubscriptionService) HandleNotification(ctx context.Context, body []byte) (ack Ack, err error) {
	n, err := gateway.ParseNotification(body)
	if err != nil {
		return "", err
	}

	defer func() {
		recordNotification(ctx, s.auditRepo, n, ack, err)
	}()

	subID := n.Reference()
	if subID == "" {
		return "", ErrMissingPaymentID
	}
	status := n.PaymentStatus()
	if status == "" {
		return "", ErrMissingPaymentStatus
	}

	sub, err := s.subRepo.GetByID(ctx, subID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", err
		}
		return AckDeferred, fmt.Errorf("%w: get subscription %s: %w", ErrUpstream, subID, err)
	}

	if err := s.gateway.Authenticate(n); err != nil {
		slog.Warn("[Subscription] rejected notification, possible forgery",
			"subscription_id", subID, "payment_status", status, "error", err)
		return "", err
	}

	from, to, token, ok := subscriptionTransition(sub.Status, status, n.Token())
	if !ok {
		if sub.Status.IsTerminal() || (sub.Status == domain.SubscriptionStatusActive && status == gateway.StatusComplete) {
			return AckDuplicate, nil
		}
		slog.Info("[Subscription] status does not move subscription",
			"subscription_id", subID, "subscription_status", sub.Status, "payment_status", status)
		return AckIgnored, nil
	}

	applied, err := s.subRepo.TransitionStatus(ctx, subID, from, to, token)
	if err != nil {
		return AckDeferred, fmt.Errorf("%w: update subscription %s: %w", ErrUpstream, subID, err)
	}
	if !applied {
		return AckDuplicate, nil
	}

	slog.Info("[Subscription] subscription transitioned",
		"subscription_id", subID, "from", from, "to", to)

	if to == domain.SubscriptionStatusActive {
		sub.Status = to
		sub.GatewayToken = token
		s.notifier.NotifySubscriptionActivated(ctx, sub)
	}

	return AckApplied, nil
}

// subscriptionTransition maps the current status and a reported payment
// status to the conditional write that applies it.
func subscriptionTransition(current domain.SubscriptionStatus, paymentStatus, token string) (from, to domain.SubscriptionStatus, tok string, ok bool) {
	switch {
	case current == domain.SubscriptionStatusPending && paymentStatus == gateway.StatusComplete:
		return current, domain.SubscriptionStatusActive, token, true
	case current == domain.SubscriptionStatusPending && paymentStatus == gateway.StatusFailed:
		return current, domain.SubscriptionStatusFailed, "", true
	case (current == domain.SubscriptionStatusPending || current == domain.SubscriptionStatusActive) &&
		paymentStatus == gateway.StatusCancelled:
		return current, domain.SubscriptionStatusCancelled, "", true
	}
	return "", "", "", false
}
