package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"memorial/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationBuyerReceipt          NotificationType = "BUYER_RECEIPT"
	NotificationRetailerOrder         NotificationType = "RETAILER_ORDER"
	NotificationSubscriptionActivated NotificationType = "SUBSCRIPTION_ACTIVATED"
)

// sendTimeout bounds a single mail relay call.
const sendTimeout = 30 * time.Second

// Mailer delivers a single HTML email.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// NotificationService sends transactional emails. Every message is an
// independent task: one failing send never affects another, and never
// affects the state change that triggered it.
type NotificationService struct {
	mailer   Mailer
	siteName string
	wg       sync.WaitGroup
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(mailer Mailer, siteName string) *NotificationService {
	return &NotificationService{mailer: mailer, siteName: siteName}
}

// NotifyOrderPaid emails the buyer a receipt and the retailer the order
// details. It returns immediately; sends continue after the request ends.
func (s *NotificationService) NotifyOrderPaid(ctx context.Context, order *domain.Order) {
	view := newOrderView(order, s.siteName)

	s.dispatch(ctx, NotificationBuyerReceipt, order.ID, order.Customer.Email,
		s.siteName+" receipt for order "+order.ID, buyerReceiptTemplate, view)

	s.dispatch(ctx, NotificationRetailerOrder, order.ID, order.Retailer.Email,
		"New paid order "+order.ID, retailerOrderTemplate, view)
}

// NotifySubscriptionActivated emails the retailer that premium billing is live.
func (s *NotificationService) NotifySubscriptionActivated(ctx context.Context, sub *domain.Subscription) {
	view := newSubscriptionView(sub, s.siteName)

	s.dispatch(ctx, NotificationSubscriptionActivated, sub.ID, sub.Retailer.Email,
		s.siteName+" premium listing activated", subscriptionActivatedTemplate, view)
}

// Wait blocks until every in-flight send has finished.
func (s *NotificationService) Wait() {
	s.wg.Wait()
}

func (s *NotificationService) dispatch(ctx context.Context, kind NotificationType, reference, to, subject, tmpl string, data any) {
	body, err := render(tmpl, data)
	if err != nil {
		slog.Error("[Notification] render failed", "type", kind, "reference", reference, "error", err)
		return
	}

	// Detach from the request so sends survive the response being written.
	sendCtx := context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(sendCtx, sendTimeout)
		defer cancel()

		if err := s.mailer.Send(ctx, to, subject, body); err != nil {
			slog.Error("[Notification] send failed",
				"type", kind, "reference", reference, "recipient", to, "error", err)
			return
		}
		slog.Info("[Notification] sent", "type", kind, "reference", reference, "recipient", to)
	}()
}
