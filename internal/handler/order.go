package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"memorial/internal/domain"
	"memorial/internal/service"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// LineItemResponse is a cart entry in an order response.
type LineItemResponse struct {
	ProductType string `json:"product_type"`
	Variant     string `json:"variant,omitempty"`
	UnitPrice   string `json:"unit_price"`
}

// OrderResponse is the HTTP response for an order.
type OrderResponse struct {
	ID               string             `json:"id"`
	Status           string             `json:"status"`
	RetailerID       string             `json:"retailer_id"`
	RetailerName     string             `json:"retailer_name"`
	Items            []LineItemResponse `json:"items"`
	CartTotal        string             `json:"cart_total"`
	Commission       string             `json:"commission"`
	RetailerPayout   string             `json:"retailer_payout"`
	GatewayPaymentID string             `json:"gateway_payment_id,omitempty"`
	CreatedAt        string             `json:"created_at"`
	UpdatedAt        string             `json:"updated_at"`
}

// GetOrder handles GET /v1/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toOrderResponse(order))
}

func toOrderResponse(order *domain.Order) OrderResponse {
	items := make([]LineItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, LineItemResponse{
			ProductType: item.ProductType,
			Variant:     item.Variant,
			UnitPrice:   item.UnitPrice.StringFixed(2),
		})
	}

	return OrderResponse{
		ID:               order.ID,
		Status:           string(order.Status),
		RetailerID:       order.Retailer.ID,
		RetailerName:     order.Retailer.Name,
		Items:            items,
		CartTotal:        order.CartTotal.StringFixed(2),
		Commission:       order.Commission.StringFixed(2),
		RetailerPayout:   order.RetailerPayout.StringFixed(2),
		GatewayPaymentID: order.GatewayPaymentID,
		CreatedAt:        order.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:        order.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
