package domain

import "time"

// NotificationOutcome records what the callback handler did with a gateway notification.
type NotificationOutcome string

const (
	OutcomeApplied   NotificationOutcome = "APPLIED"
	OutcomeDuplicate NotificationOutcome = "DUPLICATE"
	OutcomeIgnored   NotificationOutcome = "IGNORED"
	OutcomeRejected  NotificationOutcome = "REJECTED"
	OutcomeDeferred  NotificationOutcome = "DEFERRED"
)

// PaymentNotification is the audit record of a gateway callback.
type PaymentNotification struct {
	ID               string
	Reference        string // m_payment_id
	GatewayPaymentID string
	PaymentStatus    string
	RawBody          string
	Outcome          NotificationOutcome
	Detail           string
	ReceivedAt       time.Time
}
