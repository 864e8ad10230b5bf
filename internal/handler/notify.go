package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"memorial/internal/service"
)

// maxNotificationBytes caps the size of a notification body.
const maxNotificationBytes = 64 << 10

// notificationFunc applies a raw notification body and reports what happened.
type notificationFunc func(ctx context.Context, body []byte) (service.Ack, error)

// NotifyHandler receives server-to-server payment notifications from the gateway.
type NotifyHandler struct {
	callbackService     *service.CallbackService
	subscriptionService *service.SubscriptionService
}

// NewNotifyHandler creates a new NotifyHandler.
func NewNotifyHandler(callbackService *service.CallbackService, subscriptionService *service.SubscriptionService) *NotifyHandler {
	return &NotifyHandler{
		callbackService:     callbackService,
		subscriptionService: subscriptionService,
	}
}

// NotifyResponse is the acknowledgement returned to the gateway.
type NotifyResponse struct {
	Status string `json:"status"`
}

// OrderNotification handles POST /v1/payments/notify
func (h *NotifyHandler) OrderNotification(c *gin.Context) {
	h.handle(c, h.callbackService.HandleOrderNotification)
}

// SubscriptionNotification handles POST /v1/subscriptions/notify
func (h *NotifyHandler) SubscriptionNotification(c *gin.Context) {
	h.handle(c, h.subscriptionService.HandleNotification)
}

func (h *NotifyHandler) handle(c *gin.Context, apply notificationFunc) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxNotificationBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable body"})
		return
	}
	if len(body) > maxNotificationBytes {
		slog.Warn("[Notify] notification body too large", "path", c.FullPath(), "bytes", len(body))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "notification body too large"})
		return
	}

	ack, err := apply(c.Request.Context(), body)
	if ack == service.AckDeferred {
		// Acknowledged to the gateway; reported to monitoring only.
		slog.Error("[Notify] notification deferred", "path", c.FullPath(), "error", err)
		if err != nil {
			_ = c.Error(err)
		}
		respondJSON(c, http.StatusOK, NotifyResponse{Status: string(ack)})
		return
	}
	if err != nil {
		if errors.Is(err, service.ErrUpstream) {
			slog.Error("[Notify] notification failed", "path", c.FullPath(), "error", err)
		}
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, NotifyResponse{Status: string(ack)})
}
