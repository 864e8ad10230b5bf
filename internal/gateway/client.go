package gateway

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds merchant credentials and endpoints for the payment gateway.
type Config struct {
	MerchantID  string
	MerchantKey string
	Passphrase  string
	ProcessURL  string
	ReturnURL   string
	CancelURL   string
	NotifyURL   string
}

// Buyer is the customer block of a payment request.
type Buyer struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// Recurring turns a payment request into a subscription request.
type Recurring struct {
	BillingDate time.Time
	Amount      decimal.Decimal
	Frequency   int
	Cycles      int
}

// PaymentRequest describes an outgoing payment.
type PaymentRequest struct {
	Reference       string
	Amount          decimal.Decimal
	ItemName        string
	ItemDescription string
	Buyer           Buyer
	NotifyURL       string // Overrides Config.NotifyURL when set
	Recurring       *Recurring
}

// Redirect is what the browser is sent to in order to pay.
type Redirect struct {
	ProcessURL string
	Params     Params
	Signature  string
	URL        string
}

// Client builds signed requests for, and authenticates notifications from, the gateway.
type Client struct {
	cfg Config
}

// NewClient creates a new gateway Client.
func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg}
}

// NewRedirect builds the signed parameter set for req. Fields are added in
// the order the gateway documents, since that order is part of the signature.
func (c *Client) NewRedirect(req PaymentRequest) (*Redirect, error) {
	if req.Reference == "" {
		return nil, fmt.Errorf("payment reference required")
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("payment amount must be positive")
	}

	notifyURL := c.cfg.NotifyURL
	if req.NotifyURL != "" {
		notifyURL = req.NotifyURL
	}

	var params Params
	fields := []Param{
		{"merchant_id", c.cfg.MerchantID},
		{"merchant_key", c.cfg.MerchantKey},
		{"return_url", c.cfg.ReturnURL},
		{"cancel_url", c.cfg.CancelURL},
		{"notify_url", notifyURL},
		{"name_first", req.Buyer.FirstName},
		{"name_last", req.Buyer.LastName},
		{"email_address", req.Buyer.Email},
		{"cell_number", req.Buyer.Phone},
		{FieldReference, req.Reference},
		{"amount", req.Amount},
		{"item_name", truncate(req.ItemName, 100)},
		{"item_description", truncate(req.ItemDescription, 255)},
	}
	if r := req.Recurring; r != nil {
		fields = append(fields,
			Param{"subscription_type", 1},
			Param{"billing_date", r.BillingDate},
			Param{"recurring_amount", r.Amount},
			Param{"frequency", r.Frequency},
			Param{"cycles", fmt.Sprint(r.Cycles)},
		)
	}
	for _, f := range fields {
		if err := params.AddNonEmpty(f.Key, f.Value); err != nil {
			return nil, err
		}
	}

	signature, err := Sign(params, c.cfg.Passphrase)
	if err != nil {
		return nil, err
	}
	query, err := Encode(params)
	if err != nil {
		return nil, err
	}

	return &Redirect{
		ProcessURL: c.cfg.ProcessURL,
		Params:     params,
		Signature:  signature,
		URL:        c.cfg.ProcessURL + "?" + query + "&" + SignatureField + "=" + signature,
	}, nil
}

// Authenticate checks the signature and merchant of an inbound notification.
func (c *Client) Authenticate(n *Notification) error {
	if err := Verify(n.Params, n.Signature, c.cfg.Passphrase); err != nil {
		return err
	}
	if id := n.Params.Get(FieldMerchantID); id != "" && id != c.cfg.MerchantID {
		return ErrMerchantMismatch
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n])
}
