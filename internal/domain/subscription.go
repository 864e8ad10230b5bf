package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionStatus represents the current status of a retailer subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusFailed    SubscriptionStatus = "failed"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s SubscriptionStatus) IsTerminal() bool {
	return s == SubscriptionStatusFailed || s == SubscriptionStatusCancelled
}

// Billing frequencies understood by the gateway.
const (
	FrequencyMonthly   = 3
	FrequencyQuarterly = 4
	FrequencyAnnual    = 6
)

// Subscription represents a retailer's premium billing agreement.
type Subscription struct {
	ID           string
	Retailer     Retailer
	Amount       decimal.Decimal
	Frequency    int
	Cycles       int // 0 = until cancelled
	BillingDate  time.Time
	Status       SubscriptionStatus
	GatewayToken string // Set on pending -> active
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
