package gateway

import "errors"

var (
	// ErrSignatureMismatch is returned when a recomputed signature does not match the supplied one.
	ErrSignatureMismatch = errors.New("signature mismatch")

	// ErrMissingSignature is returned when a notification carries no signature field.
	ErrMissingSignature = errors.New("missing signature")

	// ErrMerchantMismatch is returned when a notification names a different merchant.
	ErrMerchantMismatch = errors.New("merchant id mismatch")

	// ErrMalformedNotification is returned when a notification body cannot be decoded.
	ErrMalformedNotification = errors.New("malformed notification body")

	// ErrEmptyNotification is returned when a notification body has no fields.
	ErrEmptyNotification = errors.New("empty notification body")

	// ErrUnsupportedValue is returned when a parameter value cannot be rendered as a scalar.
	ErrUnsupportedValue = errors.New("unsupported parameter value")
)
