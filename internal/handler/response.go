package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"memorial/internal/gateway"
	"memorial/internal/repository"
	"memorial/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code == http.StatusInternalServerError {
		// Store and relay details stay in the logs.
		_ = c.Error(err)
		c.JSON(code, ErrorResponse{Error: "internal error"})
		return
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidLineItem),
		errors.Is(err, service.ErrInvalidCartTotal),
		errors.Is(err, service.ErrCartTotalMismatch),
		errors.Is(err, service.ErrInvalidCustomer),
		errors.Is(err, service.ErrInvalidRetailer),
		errors.Is(err, service.ErrInvalidOrderID),
		errors.Is(err, service.ErrInvalidSubscriptionID),
		errors.Is(err, service.ErrInvalidSubscriptionAmount),
		errors.Is(err, service.ErrInvalidFrequency),
		errors.Is(err, service.ErrMissingPaymentID),
		errors.Is(err, service.ErrMissingPaymentStatus),
		errors.Is(err, service.ErrAmountMismatch),
		errors.Is(err, gateway.ErrEmptyNotification),
		errors.Is(err, gateway.ErrMalformedNotification):
		return http.StatusBadRequest

	// Authentication errors - the notification did not come from the gateway
	case errors.Is(err, gateway.ErrSignatureMismatch),
		errors.Is(err, gateway.ErrMissingSignature),
		errors.Is(err, gateway.ErrMerchantMismatch):
		return http.StatusUnauthorized

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
