package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"memorial/internal/domain"
	"memorial/internal/service"
)

// SubscriptionHandler handles HTTP requests for retailer subscriptions.
type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// CreateSubscriptionRequest is the HTTP request body for starting a subscription.
type CreateSubscriptionRequest struct {
	Retailer    domain.Retailer `json:"retailer"`
	Amount      decimal.Decimal `json:"amount"`
	Frequency   int             `json:"frequency"`
	Cycles      int             `json:"cycles"`
	BillingDate string          `json:"billing_date,omitempty"` // YYYY-MM-DD
}

// SubscriptionResponse is the HTTP response for a subscription.
type SubscriptionResponse struct {
	ID          string            `json:"id"`
	RetailerID  string            `json:"retailer_id"`
	Status      string            `json:"status"`
	Amount      string            `json:"amount"`
	Frequency   int               `json:"frequency"`
	Cycles      int               `json:"cycles"`
	BillingDate string            `json:"billing_date"`
	Redirect    *RedirectResponse `json:"redirect,omitempty"`
}

// CreateSubscription handles POST /v1/subscriptions
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	var billingDate time.Time
	if req.BillingDate != "" {
		d, err := time.Parse("2006-01-02", req.BillingDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "billing_date must be YYYY-MM-DD"})
			return
		}
		billingDate = d
	}

	result, err := h.subscriptionService.Initiate(c.Request.Context(), service.SubscriptionRequest{
		Retailer:    req.Retailer,
		Amount:      req.Amount,
		Frequency:   req.Frequency,
		Cycles:      req.Cycles,
		BillingDate: billingDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response := toSubscriptionResponse(result.Subscription)
	redirect := toRedirectResponse(result.Redirect)
	response.Redirect = &redirect
	respondJSON(c, http.StatusCreated, response)
}

// GetSubscription handles GET /v1/subscriptions/:id
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	sub, err := h.subscriptionService.GetSubscription(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toSubscriptionResponse(sub))
}

func toSubscriptionResponse(sub *domain.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:          sub.ID,
		RetailerID:  sub.Retailer.ID,
		Status:      string(sub.Status),
		Amount:      sub.Amount.StringFixed(2),
		Frequency:   sub.Frequency,
		Cycles:      sub.Cycles,
		BillingDate: sub.BillingDate.Format("2006-01-02"),
	}
}
