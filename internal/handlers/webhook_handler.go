package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/magicdayconcierge/booking-backend/internal/services"
	"github.com/magicdayconcierge/booking-backend/pkg/metrics"
)

// shopifyHmacHeader carries the base64 HMAC-SHA256 of the raw body
const shopifyHmacHeader = "X-Shopify-Hmac-Sha256"

// WebhookHandler handles the checkout webhook from the commerce platform
type WebhookHandler struct {
	intake        *services.BookingIntakeService
	webhookSecret string
	logger        *logrus.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(intake *services.BookingIntakeService, webhookSecret string, logger *logrus.Logger) *WebhookHandler {
	return &WebhookHandler{
		intake:        intake,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// CheckoutHook handles POST /api/v1/checkout/hook. The signature is
// verified over the raw body before any JSON decoding. Once the payload
// is accepted, day-level failures are absorbed by the intake service and
// the response is always 200: the platform must not retry an order whose
// valid days were already written.
func (h *WebhookHandler) CheckoutHook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_body",
			Message: "Failed to read request body",
		})
		return
	}

	if !services.VerifySignature(h.webhookSecret, body, c.GetHeader(shopifyHmacHeader)) {
		metrics.WebhooksReceived.WithLabelValues("rejected").Inc()
		h.logger.WithField("ip", c.ClientIP()).Warn("Webhook signature verification failed")
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_signature",
			Message: "Invalid webhook signature",
		})
		return
	}
	metrics.WebhooksReceived.WithLabelValues("accepted").Inc()

	var payload services.CheckoutWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.logger.WithError(err).Error("Failed to decode webhook payload")
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_payload",
			Message: "Failed to decode webhook payload",
		})
		return
	}

	result, err := h.intake.ProcessCheckoutWebhook(&payload)
	if err != nil {
		if errors.Is(err, services.ErrNoLineItemProperties) || errors.Is(err, services.ErrMissingBookingProperties) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_payload",
				Message: err.Error(),
			})
			return
		}
		h.logger.WithError(err).Error("Failed to process webhook")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to process webhook",
		})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"order_id":       result.OrderID,
		"days_processed": result.DaysProcessed,
		"days_failed":    result.DaysFailed,
		"blackouts":      result.BlackoutsCreated,
	}).Info("Checkout webhook processed")

	c.JSON(http.StatusOK, gin.H{"success": true})
}
