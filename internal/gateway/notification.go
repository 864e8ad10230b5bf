package gateway

import (
	"fmt"
	"net/url"
	"strings"
)

// Payment statuses reported by the gateway.
const (
	StatusComplete  = "COMPLETE"
	StatusFailed    = "FAILED"
	StatusCancelled = "CANCELLED"
	StatusPending   = "PENDING"
)

// Notification field names.
const (
	FieldReference        = "m_payment_id"
	FieldPaymentStatus    = "payment_status"
	FieldGatewayPaymentID = "pf_payment_id"
	FieldAmountGross      = "amount_gross"
	FieldMerchantID       = "merchant_id"
	FieldToken            = "token"
)

// Notification is an inbound payment notification (ITN).
type Notification struct {
	Params    Params
	Signature string
	Raw       string
}

// ParseNotification decodes a form-encoded notification body, keeping the
// fields in the order they were sent.
func ParseNotification(body []byte) (*Notification, error) {
	raw := strings.TrimSpace(string(body))
	if raw == "" {
		return nil, ErrEmptyNotification
	}

	n := &Notification{Raw: raw}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedNotification, err)
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedNotification, err)
		}
		if key == "" {
			return nil, ErrMalformedNotification
		}
		if key == SignatureField {
			n.Signature = value
			continue
		}
		n.Params.Add(key, value)
	}

	if len(n.Params) == 0 {
		return nil, ErrEmptyNotification
	}
	return n, nil
}

// Reference returns the correlation id (m_payment_id).
func (n *Notification) Reference() string {
	return strings.TrimSpace(n.Params.Get(FieldReference))
}

// PaymentStatus returns the reported payment status, upper-cased.
func (n *Notification) PaymentStatus() string {
	return strings.ToUpper(strings.TrimSpace(n.Params.Get(FieldPaymentStatus)))
}

// GatewayPaymentID returns the gateway's own payment reference.
func (n *Notification) GatewayPaymentID() string {
	return n.Params.Get(FieldGatewayPaymentID)
}

// Token returns the recurring billing token, if any.
func (n *Notification) Token() string {
	return n.Params.Get(FieldToken)
}
