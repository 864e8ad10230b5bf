package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"memorial/internal/domain"
	"memorial/internal/gateway"
	"memorial/internal/repository"
)

// CheckoutService creates pending orders and the signed gateway redirect that pays for them.
type CheckoutService struct {
	orderRepo      repository.OrderRepository
	gateway        PaymentGateway
	commissionRate decimal.Decimal
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(orderRepo repository.OrderRepository, gw PaymentGateway, commissionRate decimal.Decimal) *CheckoutService {
	return &CheckoutService{
		orderRepo:      orderRepo,
		gateway:        gw,
		commissionRate: commissionRate,
	}
}

// CheckoutRequest contains the parameters for starting a checkout.
type CheckoutRequest struct {
	Customer  domain.Customer
	Retailer  domain.Retailer
	Items     []domain.LineItem
	CartTotal decimal.Decimal
}

// RedirectDescriptor is handed to the browser to continue to the gateway.
type RedirectDescriptor struct {
	Order    *domain.Order
	Redirect *gateway.Redirect
}

// Initiate validates the cart, persists a pending order and returns the
// signed redirect for it. No redirect is returned unless the order persisted.
func (s *CheckoutService) Initiate(ctx context.Context, req CheckoutRequest) (*RedirectDescriptor, error) {
	if err := validateCheckout(req); err != nil {
		return nil, err
	}

	commission, payout := domain.SplitCommission(req.CartTotal, s.commissionRate)
	now := time.Now().UTC()

	order := &domain.Order{
		ID:             uuid.New().String(),
		Customer:       req.Customer,
		Retailer:       req.Retailer,
		Items:          req.Items,
		CartTotal:      req.CartTotal,
		Commission:     commission,
		RetailerPayout: payout,
		Status:         domain.OrderStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	redirect, err := s.gateway.NewRedirect(gateway.PaymentRequest{
		Reference:       order.ID,
		Amount:          order.CartTotal,
		ItemName:        itemName(order),
		ItemDescription: fmt.Sprintf("Order %s from %s", order.ID, order.Retailer.Name),
		Buyer: gateway.Buyer{
			FirstName: order.Customer.FirstName,
			LastName:  order.Customer.LastName,
			Email:     order.Customer.Email,
			Phone:     order.Customer.Phone,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("build gateway redirect: %w", err)
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("%w: create order: %w", ErrUpstream, err)
	}

	slog.Info("[Checkout] order created",
		"order_id", order.ID,
		"retailer_id", order.Retailer.ID,
		"cart_total", order.CartTotal.StringFixed(2),
		"commission", order.Commission.StringFixed(2),
	)

	return &RedirectDescriptor{Order: order, Redirect: redirect}, nil
}

func validateCheckout(req CheckoutRequest) error {
	if len(req.Items) == 0 {
		return ErrEmptyCart
	}
	for _, item := range req.Items {
		if strings.TrimSpace(item.ProductType) == "" || !item.UnitPrice.IsPositive() {
			return ErrInvalidLineItem
		}
	}
	if !req.CartTotal.IsPositive() {
		return ErrInvalidCartTotal
	}
	if !req.CartTotal.Equal(domain.SumItems(req.Items)) {
		return ErrCartTotalMismatch
	}
	if strings.TrimSpace(req.Customer.FirstName) == "" || !validEmail(req.Customer.Email) {
		return ErrInvalidCustomer
	}
	if strings.TrimSpace(req.Retailer.ID) == "" || !validEmail(req.Retailer.Email) {
		return ErrInvalidRetailer
	}
	return nil
}

func validEmail(address string) bool {
	if strings.TrimSpace(address) == "" {
		return false
	}
	_, err := mail.ParseAddress(address)
	return err == nil
}

// itemName summarises the cart for the gateway's payment page.
func itemName(order *domain.Order) string {
	first := order.Items[0]
	name := first.ProductType
	if first.Variant != "" {
		name += " - " + first.Variant
	}
	if n := len(order.Items); n > 1 {
		name = fmt.Sprintf("%s (+%d more)", name, n-1)
	}
	return name
}
