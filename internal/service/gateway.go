package service

import (
	"memorial/internal/gateway"
)

// PaymentGateway is the part of the gateway client the services depend on.
type PaymentGateway interface {
	NewRedirect(req gateway.PaymentRequest) (*gateway.Redirect, error)
	Authenticate(n *gateway.Notification) error
}

// Ack tells the HTTP layer what happened to a gateway notification.
type Ack string

const (
	// AckApplied means the notification caused a state transition.
	AckApplied Ack = "applied"
	// AckDuplicate means the target had already left the state the notification applies to.
	AckDuplicate Ack = "duplicate"
	// AckIgnored means the reported status does not move the state machine.
	AckIgnored Ack = "ignored"
	// AckDeferred means processing failed upstream; the gateway is acknowledged anyway.
	AckDeferred Ack = "deferred"
)

var _ PaymentGateway = (*gateway.Client)(nil)
