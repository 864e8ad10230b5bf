package gateway

import (
	"errors"
	"testing"
)

func TestParseNotification_PreservesOrder(t *testing.T) {
	t.Parallel()

	body := "m_payment_id=order-1&pf_payment_id=1089250&payment_status=COMPLETE&item_name=Black+Granite&amount_gross=1000.00&custom_str1=&signature=abc"

	n, err := ParseNotification([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	keys := make([]string, 0, len(n.Params))
	for _, p := range n.Params {
		keys = append(keys, p.Key)
	}
	want := []string{"m_payment_id", "pf_payment_id", "payment_status", "item_name", "amount_gross", "custom_str1"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d fields, got %d (%v)", len(want), len(keys), keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("field %d: expected %s, got %s", i, want[i], keys[i])
		}
	}

	if n.Signature != "abc" {
		t.Errorf("expected signature abc, got %s", n.Signature)
	}
	if n.Reference() != "order-1" {
		t.Errorf("expected reference order-1, got %s", n.Reference())
	}
	if n.PaymentStatus() != StatusComplete {
		t.Errorf("expected COMPLETE, got %s", n.PaymentStatus())
	}
	if n.GatewayPaymentID() != "1089250" {
		t.Errorf("expected pf_payment_id 1089250, got %s", n.GatewayPaymentID())
	}
	if got := n.Params.Get("item_name"); got != "Black Granite" {
		t.Errorf("expected decoded item name, got %q", got)
	}
}

func TestParseNotification_SignedBodyVerifies(t *testing.T) {
	t.Parallel()

	var p Params
	p.Add("m_payment_id", "order-1")
	p.Add("payment_status", "COMPLETE")
	p.Add("item_name", "Headstone & Vase")
	p.Add("custom_str1", "")
	sig, _ := Sign(p, "pass")
	encoded, _ := Encode(p)

	n, err := ParseNotification([]byte(encoded + "&signature=" + sig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Verify(n.Params, n.Signature, "pass"); err != nil {
		t.Errorf("expected parsed notification to verify, got %v", err)
	}
}

func TestParseNotification_GatewaySignedTildeVerifies(t *testing.T) {
	t.Parallel()

	body := "name_first=Ann%7EMarie&signature=b149ebfd414904061ddb2e329e11603f"

	n, err := ParseNotification([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := n.Params.Get("name_first"); got != "Ann~Marie" {
		t.Errorf("expected decoded name Ann~Marie, got %q", got)
	}
	if err := Verify(n.Params, n.Signature, "pp"); err != nil {
		t.Errorf("expected gateway-signed body to verify, got %v", err)
	}
}

func TestParseNotification_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want error
	}{
		{"empty", "", ErrEmptyNotification},
		{"only signature", "signature=abc", ErrEmptyNotification},
		{"bad escape", "m_payment_id=%zz", ErrMalformedNotification},
		{"missing key", "=value", ErrMalformedNotification},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseNotification([]byte(tt.body)); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
