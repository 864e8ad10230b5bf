package service

import "errors"

// Validation errors.
var (
	// ErrEmptyCart is returned when a checkout has no line items.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidLineItem is returned when a line item has no product type or a non-positive price.
	ErrInvalidLineItem = errors.New("invalid line item")

	// ErrInvalidCartTotal is returned when the cart total is not positive.
	ErrInvalidCartTotal = errors.New("invalid cart total")

	// ErrCartTotalMismatch is returned when the cart total differs from the sum of the line items.
	ErrCartTotalMismatch = errors.New("cart total does not match line items")

	// ErrInvalidCustomer is returned when the customer name or email is missing or malformed.
	ErrInvalidCustomer = errors.New("invalid customer")

	// ErrInvalidRetailer is returned when the retailer id or email is missing or malformed.
	ErrInvalidRetailer = errors.New("invalid retailer")

	// ErrInvalidOrderID is returned when order ID is empty.
	ErrInvalidOrderID = errors.New("invalid order id")

	// ErrInvalidSubscriptionID is returned when subscription ID is empty.
	ErrInvalidSubscriptionID = errors.New("invalid subscription id")

	// ErrInvalidSubscriptionAmount is returned when a subscription amount is not positive.
	ErrInvalidSubscriptionAmount = errors.New("invalid subscription amount")

	// ErrInvalidFrequency is returned when a billing frequency is not supported.
	ErrInvalidFrequency = errors.New("invalid billing frequency")

	// ErrMissingPaymentID is returned when a notification has no m_payment_id.
	ErrMissingPaymentID = errors.New("missing m_payment_id")

	// ErrMissingPaymentStatus is returned when a notification has no payment_status.
	ErrMissingPaymentStatus = errors.New("missing payment_status")

	// ErrAmountMismatch is returned when a completed notification reports a different amount than the order.
	ErrAmountMismatch = errors.New("notified amount does not match order total")
)

// ErrUpstream wraps failures of the order store, cache, or mail relay.
var ErrUpstream = errors.New("upstream failure")
