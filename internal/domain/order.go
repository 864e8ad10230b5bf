package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the current status of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s OrderStatus) IsTerminal() bool {
	return s != OrderStatusPending
}

// CommissionRate is the platform's cut of every sale when COMMISSION_RATE is unset.
var CommissionRate = decimal.NewFromFloat(0.10)

// Customer is the buyer placing an order.
type Customer struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	Province     string `json:"province"`
	PostalCode   string `json:"postal_code"`
}

// Retailer is the selling party of an order or the owner of a subscription.
type Retailer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LineItem is a single cart entry.
type LineItem struct {
	ProductType string          `json:"product_type"`
	Variant     string          `json:"variant"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Order represents a checkout in the system.
type Order struct {
	ID               string
	Customer         Customer
	Retailer         Retailer
	Items            []LineItem
	CartTotal        decimal.Decimal
	Commission       decimal.Decimal
	RetailerPayout   decimal.Decimal
	Status           OrderStatus
	GatewayPaymentID string // Set only on pending -> paid
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SplitCommission returns the platform commission and the retailer payout for total.
// The commission is rounded to the cent and the payout absorbs the remainder,
// so commission + payout always equals total.
func SplitCommission(total decimal.Decimal, rate decimal.Decimal) (commission, payout decimal.Decimal) {
	commission = total.Mul(rate).Round(2)
	payout = total.Sub(commission)
	return commission, payout
}

// SumItems returns the sum of the unit prices of items.
func SumItems(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice)
	}
	return total
}
