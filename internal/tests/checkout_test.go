package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"memorial/internal/domain"
	"memorial/internal/gateway"
	"memorial/internal/service"
)

func validCheckoutRequest() service.CheckoutRequest {
	return service.CheckoutRequest{
		Customer: domain.Customer{
			FirstName: "Thandi",
			LastName:  "Mokoena",
			Email:     buyerEmail,
			Phone:     "0821234567",
		},
		Retailer: domain.Retailer{ID: "ret-1", Name: "Granite & Co", Email: retailerEmail},
		Items: []domain.LineItem{
			{ProductType: "Headstone", Variant: "Black granite", UnitPrice: decimal.NewFromInt(850)},
			{ProductType: "Vase", UnitPrice: decimal.NewFromInt(150)},
		},
		CartTotal: decimal.NewFromInt(1000),
	}
}

func TestCheckout_CreatesPendingOrderWithCommissionSplit(t *testing.T) {
	f := newFixture(t)

	result, err := f.checkout.Initiate(context.Background(), validCheckoutRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order := f.orderRepo.GetOrder(result.Order.ID)
	if order == nil {
		t.Fatal("expected order to be persisted")
	}
	if order.Status != domain.OrderStatusPending {
		t.Errorf("expected status pending, got %s", order.Status)
	}
	if got := order.Commission.StringFixed(2); got != "100.00" {
		t.Errorf("expected commission 100.00, got %s", got)
	}
	if got := order.RetailerPayout.StringFixed(2); got != "900.00" {
		t.Errorf("expected payout 900.00, got %s", got)
	}
	if !order.Commission.Add(order.RetailerPayout).Equal(order.CartTotal) {
		t.Error("commission + payout must equal cart total")
	}
}

func TestCheckout_RedirectIsSignedForTheOrder(t *testing.T) {
	f := newFixture(t)

	result, err := f.checkout.Initiate(context.Background(), validCheckoutRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := result.Redirect
	if got := r.Params.Get("m_payment_id"); got != result.Order.ID {
		t.Errorf("expected m_payment_id %s, got %s", result.Order.ID, got)
	}
	if got := r.Params.Get("amount"); got != "1000.00" {
		t.Errorf("expected amount 1000.00, got %s", got)
	}
	if got := r.Params.Get("item_name"); got != "Headstone - Black granite (+1 more)" {
		t.Errorf("unexpected item_name %q", got)
	}
	if err := gateway.Verify(r.Params, r.Signature, testPassphrase); err != nil {
		t.Errorf("redirect signature does not verify: %v", err)
	}
}

func TestCheckout_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(r *service.CheckoutRequest)
		wantErr error
	}{
		{"empty cart", func(r *service.CheckoutRequest) { r.Items = nil }, service.ErrEmptyCart},
		{"item without product", func(r *service.CheckoutRequest) { r.Items[0].ProductType = " " }, service.ErrInvalidLineItem},
		{"item with zero price", func(r *service.CheckoutRequest) { r.Items[1].UnitPrice = decimal.Zero }, service.ErrInvalidLineItem},
		{"zero total", func(r *service.CheckoutRequest) { r.CartTotal = decimal.Zero }, service.ErrInvalidCartTotal},
		{"total mismatch", func(r *service.CheckoutRequest) { r.CartTotal = decimal.NewFromInt(999) }, service.ErrCartTotalMismatch},
		{"bad customer email", func(r *service.CheckoutRequest) { r.Customer.Email = "not-an-email" }, service.ErrInvalidCustomer},
		{"missing customer name", func(r *service.CheckoutRequest) { r.Customer.FirstName = "" }, service.ErrInvalidCustomer},
		{"missing retailer", func(r *service.CheckoutRequest) { r.Retailer.ID = "" }, service.ErrInvalidRetailer},
		{"bad retailer email", func(r *service.CheckoutRequest) { r.Retailer.Email = "" }, service.ErrInvalidRetailer},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			req := validCheckoutRequest()
			tc.mutate(&req)

			result, err := f.checkout.Initiate(context.Background(), req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
			if result != nil {
				t.Error("expected no redirect")
			}
			if f.orderRepo.CountOrders() != 0 {
				t.Error("expected no order to be stored")
			}
		})
	}
}

func TestCheckout_StoreFailureReturnsNoRedirect(t *testing.T) {
	f := newFixture(t)
	f.orderRepo.CreateError = errors.New("connection refused")

	result, err := f.checkout.Initiate(context.Background(), validCheckoutRequest())
	if !errors.Is(err, service.ErrUpstream) {
		t.Errorf("expected ErrUpstream, got %v", err)
	}
	if result != nil {
		t.Error("expected no redirect when the order was not stored")
	}
}

func TestSplitCommission_RoundsToCents(t *testing.T) {
	testCases := []struct {
		total, commission, payout string
	}{
		{"1000", "100.00", "900.00"},
		{"99.99", "10.00", "89.99"},
		{"0.05", "0.01", "0.04"},
		{"1234.56", "123.46", "1111.10"},
	}

	for _, tc := range testCases {
		t.Run(tc.total, func(t *testing.T) {
			total := decimal.RequireFromString(tc.total)
			commission, payout := domain.SplitCommission(total, domain.CommissionRate)
			if commission.StringFixed(2) != tc.commission {
				t.Errorf("expected commission %s, got %s", tc.commission, commission.StringFixed(2))
			}
			if payout.StringFixed(2) != tc.payout {
				t.Errorf("expected payout %s, got %s", tc.payout, payout.StringFixed(2))
			}
			if !commission.Add(payout).Equal(total) {
				t.Error("commission + payout must equal total")
			}
		})
	}
}
