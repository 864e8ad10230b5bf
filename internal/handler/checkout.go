package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"memorial/internal/domain"
	"memorial/internal/gateway"
	"memorial/internal/service"
)

// CheckoutHandler handles HTTP requests that start a payment.
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// CheckoutRequest is the HTTP request body for starting a checkout.
type CheckoutRequest struct {
	Customer  domain.Customer   `json:"customer"`
	Retailer  domain.Retailer   `json:"retailer"`
	Items     []domain.LineItem `json:"items"`
	CartTotal decimal.Decimal   `json:"cart_total"`
}

// FormField is one hidden input of the gateway payment form.
type FormField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// RedirectResponse tells the browser how to reach the gateway. Fields are in
// signing order and include the signature last, ready to post as a form.
type RedirectResponse struct {
	URL        string      `json:"url"`
	ProcessURL string      `json:"process_url"`
	Fields     []FormField `json:"fields"`
}

// CheckoutResponse is the HTTP response for a started checkout.
type CheckoutResponse struct {
	OrderID        string           `json:"order_id"`
	Status         string           `json:"status"`
	CartTotal      string           `json:"cart_total"`
	Commission     string           `json:"commission"`
	RetailerPayout string           `json:"retailer_payout"`
	Redirect       RedirectResponse `json:"redirect"`
}

// Checkout handles POST /v1/checkout
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.checkoutService.Initiate(c.Request.Context(), service.CheckoutRequest{
		Customer:  req.Customer,
		Retailer:  req.Retailer,
		Items:     req.Items,
		CartTotal: req.CartTotal,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, CheckoutResponse{
		OrderID:        result.Order.ID,
		Status:         string(result.Order.Status),
		CartTotal:      result.Order.CartTotal.StringFixed(2),
		Commission:     result.Order.Commission.StringFixed(2),
		RetailerPayout: result.Order.RetailerPayout.StringFixed(2),
		Redirect:       toRedirectResponse(result.Redirect),
	})
}

func toRedirectResponse(r *gateway.Redirect) RedirectResponse {
	fields := make([]FormField, 0, len(r.Params)+1)
	for _, p := range r.Params {
		fields = append(fields, FormField{Name: p.Key, Value: cast.ToString(p.Value)})
	}
	fields = append(fields, FormField{Name: gateway.SignatureField, Value: r.Signature})

	return RedirectResponse{
		URL:        r.URL,
		ProcessURL: r.ProcessURL,
		Fields:     fields,
	}
}
