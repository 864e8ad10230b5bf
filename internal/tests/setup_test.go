package tests

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"memorial/internal/domain"
	"memorial/internal/gateway"
	"memorial/internal/service"
)

const (
	testMerchantID  = "10000100"
	testMerchantKey = "46f0cd694581a"
	testPassphrase  = "jt7NOE43FZPn"
	buyerEmail      = "thandi@example.com"
	retailerEmail   = "orders@granite.example.com"
)

func newTestGateway() *gateway.Client {
	return gateway.NewClient(gateway.Config{
		MerchantID:  testMerchantID,
		MerchantKey: testMerchantKey,
		Passphrase:  testPassphrase,
		ProcessURL:  "https://sandbox.payfast.co.za/eng/process",
		ReturnURL:   "https://shop.example.com/return",
		CancelURL:   "https://shop.example.com/cancel",
		NotifyURL:   "https://api.example.com/v1/payments/notify",
	})
}

// fixture bundles the services under test with their mocks.
type fixture struct {
	orderRepo     *MockOrderRepository
	subRepo       *MockSubscriptionRepository
	auditRepo     *MockNotificationRepository
	mailer        *MockMailer
	cache         *MockOrderCache
	notifications *service.NotificationService
	checkout      *service.CheckoutService
	orders        *service.OrderService
	callbacks     *service.CallbackService
	subscriptions *service.SubscriptionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		orderRepo: NewMockOrderRepository(),
		subRepo:   NewMockSubscriptionRepository(),
		auditRepo: NewMockNotificationRepository(),
		mailer:    NewMockMailer(),
		cache:     NewMockOrderCache(),
	}
	gw := newTestGateway()
	f.notifications = service.NewNotificationService(f.mailer, "Memorial Marketplace")
	f.checkout = service.NewCheckoutService(f.orderRepo, gw, domain.CommissionRate)
	f.orders = service.NewOrderService(f.orderRepo, f.cache)
	f.callbacks = service.NewCallbackService(f.orderRepo, f.auditRepo, gw, f.notifications, f.cache)
	f.subscriptions = service.NewSubscriptionService(f.subRepo, f.auditRepo, gw, f.notifications,
		"https://api.example.com/v1/subscriptions/notify")
	return f
}

func newPendingOrder(id string) *domain.Order {
	now := time.Now().UTC()
	return &domain.Order{
		ID: id,
		Customer: domain.Customer{
			FirstName: "Thandi",
			LastName:  "Mokoena",
			Email:     buyerEmail,
			Phone:     "0821234567",
			City:      "Durban",
		},
		Retailer: domain.Retailer{ID: "ret-1", Name: "Granite & Co", Email: retailerEmail},
		Items: []domain.LineItem{
			{ProductType: "Headstone", Variant: "Black granite", UnitPrice: decimal.NewFromInt(1000)},
		},
		CartTotal:      decimal.NewFromInt(1000),
		Commission:     decimal.NewFromInt(100),
		RetailerPayout: decimal.NewFromInt(900),
		Status:         domain.OrderStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func newPendingSubscription(id string) *domain.Subscription {
	now := time.Now().UTC()
	return &domain.Subscription{
		ID:          id,
		Retailer:    domain.Retailer{ID: "ret-1", Name: "Granite & Co", Email: retailerEmail},
		Amount:      decimal.NewFromInt(299),
		Frequency:   domain.FrequencyMonthly,
		BillingDate: now,
		Status:      domain.SubscriptionStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// itn describes a gateway notification to build.
type itn struct {
	reference  string
	status     string
	amount     string
	pfID       string
	token      string
	merchantID string
	passphrase string
}

// body returns the signed form body the gateway would post for n.
func (n itn) body(t *testing.T) []byte {
	t.Helper()
	if n.pfID == "" {
		n.pfID = "1089250"
	}
	if n.merchantID == "" {
		n.merchantID = testMerchantID
	}
	if n.passphrase == "" {
		n.passphrase = testPassphrase
	}

	var p gateway.Params
	p.Add("m_payment_id", n.reference)
	p.Add("pf_payment_id", n.pfID)
	p.Add("payment_status", n.status)
	p.Add("item_name", "Headstone - Black granite")
	p.Add("item_description", "")
	if n.amount != "" {
		p.Add("amount_gross", n.amount)
	}
	p.Add("name_first", "Thandi")
	p.Add("email_address", buyerEmail)
	if n.token != "" {
		p.Add("token", n.token)
	}
	p.Add("merchant_id", n.merchantID)

	body, err := gateway.SignedBody(p, n.passphrase)
	if err != nil {
		t.Fatalf("sign notification: %v", err)
	}
	return []byte(body)
}
