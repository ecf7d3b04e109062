package api

import (
	"io"
	"net/http"

	"staybook/internal/handler/httperr"
	"staybook/internal/infra/gateway"
	"staybook/internal/pkg/errs"
	"staybook/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

const signatureHeader = "X-Gateway-Signature"

// WebhookHandler receives gateway deliveries. Authentication is the HMAC
// signature over the raw body, not a bearer token; delivery is at-least-once
// so the command layer treats repeats as no-ops.
type WebhookHandler struct {
	verifier *gateway.WebhookVerifier
	payments commands.PaymentCommands
}

func NewWebhookHandler(verifier *gateway.WebhookVerifier, payments commands.PaymentCommands) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, payments: payments}
}

// @Summary Payment gateway webhook
// @Description Signed capture/failure notifications from the payment processor
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Gateway-Signature header string true "HMAC-SHA256 signature (v1=<hex>)"
// @Success 200 {object} map[string]string
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /webhooks/payments [post]
func (h *WebhookHandler) HandlePaymentEvent(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Failed to read request body", nil)
		return
	}

	event, err := h.verifier.ParseEvent(body, c.GetHeader(signatureHeader))
	if err != nil {
		if errs.Is(err, gateway.ErrInvalidSignature) {
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid signature", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Malformed event", nil)
		return
	}

	if err := h.payments.HandleGatewayEvent(c.Request.Context(), event); err != nil {
		// Error statuses make the gateway redeliver; replays are no-ops.
		abortWithCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
