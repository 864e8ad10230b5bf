package gateway

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testConfig() Config {
	return Config{
		MerchantID:  "10000100",
		MerchantKey: "46f0cd694581a",
		Passphrase:  "jt7NOE43FZPn",
		ProcessURL:  "https://sandbox.payfast.co.za/eng/process",
		ReturnURL:   "https://shop.example/return",
		CancelURL:   "https://shop.example/cancel",
		NotifyURL:   "https://api.example/v1/payments/notify",
	}
}

func TestNewRedirect_SignedAndOrdered(t *testing.T) {
	t.Parallel()

	client := NewClient(testConfig())
	redirect, err := client.NewRedirect(PaymentRequest{
		Reference: "order-1",
		Amount:    decimal.RequireFromString("1000"),
		ItemName:  "Memorial order order-1",
		Buyer:     Buyer{FirstName: "Thandi", Email: "thandi@example.com"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"merchant_id", "merchant_key", "return_url", "cancel_url", "notify_url", "name_first", "email_address", "m_payment_id", "amount", "item_name"}
	if len(redirect.Params) != len(want) {
		t.Fatalf("expected %d params, got %v", len(want), redirect.Params.Map())
	}
	for i, key := range want {
		if redirect.Params[i].Key != key {
			t.Errorf("param %d: expected %s, got %s", i, key, redirect.Params[i].Key)
		}
	}

	if got := redirect.Params.Get("amount"); got != "1000.00" {
		t.Errorf("expected amount 1000.00, got %s", got)
	}
	if err := Verify(redirect.Params, redirect.Signature, testConfig().Passphrase); err != nil {
		t.Errorf("expected redirect signature to verify, got %v", err)
	}
	if !strings.HasPrefix(redirect.URL, testConfig().ProcessURL+"?merchant_id=10000100&") {
		t.Errorf("unexpected redirect url %s", redirect.URL)
	}
	if !strings.HasSuffix(redirect.URL, "&signature="+redirect.Signature) {
		t.Errorf("redirect url must end with the signature: %s", redirect.URL)
	}
}

func TestNewRedirect_Recurring(t *testing.T) {
	t.Parallel()

	client := NewClient(testConfig())
	redirect, err := client.NewRedirect(PaymentRequest{
		Reference: "sub-1",
		Amount:    decimal.RequireFromString("299"),
		ItemName:  "Premium listing",
		NotifyURL: "https://api.example/v1/subscriptions/notify",
		Recurring: &Recurring{
			BillingDate: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.RequireFromString("299"),
			Frequency:   3,
			Cycles:      0,
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := redirect.Params.Map()
	if m["notify_url"] != "https://api.example/v1/subscriptions/notify" {
		t.Errorf("expected notify url override, got %s", m["notify_url"])
	}
	checks := map[string]string{
		"subscription_type": "1",
		"billing_date":      "2026-10-19",
		"recurring_amount":  "299.00",
		"frequency":         "3",
		"cycles":            "0",
	}
	for k, v := range checks {
		if m[k] != v {
			t.Errorf("%s: expected %s, got %s", k, v, m[k])
		}
	}
	if last := redirect.Params[len(redirect.Params)-1].Key; last != "cycles" {
		t.Errorf("expected cycles to be the last field, got %s", last)
	}
}

func TestNewRedirect_RejectsInvalidRequest(t *testing.T) {
	t.Parallel()

	client := NewClient(testConfig())
	if _, err := client.NewRedirect(PaymentRequest{Amount: decimal.NewFromInt(1)}); err == nil {
		t.Error("expected error for missing reference")
	}
	if _, err := client.NewRedirect(PaymentRequest{Reference: "x", Amount: decimal.Zero}); err == nil {
		t.Error("expected error for zero amount")
	}
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	client := NewClient(cfg)

	var p Params
	p.Add("m_payment_id", "order-1")
	p.Add("payment_status", "COMPLETE")
	p.Add("merchant_id", cfg.MerchantID)
	sig, _ := Sign(p, cfg.Passphrase)

	if err := client.Authenticate(&Notification{Params: p, Signature: sig}); err != nil {
		t.Errorf("expected authentic notification, got %v", err)
	}

	if err := client.Authenticate(&Notification{Params: p, Signature: strings.Repeat("0", 32)}); !errors.Is(err, ErrSignatureMismatch) {
		t.Errorf("expected ErrSignatureMismatch, got %v", err)
	}

	var other Params
	other.Add("m_payment_id", "order-1")
	other.Add("merchant_id", "99999")
	otherSig, _ := Sign(other, cfg.Passphrase)
	if err := client.Authenticate(&Notification{Params: other, Signature: otherSig}); !errors.Is(err, ErrMerchantMismatch) {
		t.Errorf("expected ErrMerchantMismatch, got %v", err)
	}
}
