package api

import (
	"context"
	"net/http"

	"staybook/internal/domain/payment"
	reqdto "staybook/internal/handler/dto/request"
	resdto "staybook/internal/handler/dto/response"
	"staybook/internal/handler/httperr"
	"staybook/internal/handler/middleware"
	"staybook/internal/usecase/commands"
	"staybook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	commands commands.PaymentCommands
	queries  queries.PaymentQueries
}

func NewPaymentHandler(cmds commands.PaymentCommands, qrys queries.PaymentQueries) *PaymentHandler {
	return &PaymentHandler{commands: cmds, queries: qrys}
}

// @Summary Initiate payment
// @Description Guest opens a gateway intent for a confirmed reservation
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.InitiatePaymentRequest true "Payment method"
// @Success 201 {object} resdto.InitiatePaymentResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /reservations/{id}/payments [post]
func (h *PaymentHandler) Initiate(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingActor, "Internal server error", nil)
		return
	}
	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}
	var req reqdto.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	out, err := h.commands.Initiate(c.Request.Context(), reservationID, actorID, req.Method)
	if err != nil {
		abortWithCommandError(c, err)
		return
	}
	c.JSON(http.StatusCreated, &resdto.InitiatePaymentResponse{
		Payment:      resdto.FromPaymentEntity(out.Payment),
		ClientSecret: out.ClientSecret,
	})
}

// @Summary Get payment
// @Description Fetch one escrow ledger record
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingActor, "Internal server error", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid payment ID format", nil)
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		abortWithQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPaymentView(view))
}

// @Summary List reservation payments
// @Description Full ledger trail for a reservation, refund records included
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {array} resdto.PaymentResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id}/payments [get]
func (h *PaymentHandler) ListByReservation(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingActor, "Internal server error", nil)
		return
	}
	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}

	views, err := h.queries.ListByReservation(c.Request.Context(), actor, reservationID)
	if err != nil {
		abortWithQueryError(c, err)
		return
	}
	out := make([]*resdto.PaymentResponse, len(views))
	for i, v := range views {
		out[i] = resdto.FromPaymentView(v)
	}
	c.JSON(http.StatusOK, out)
}

// @Summary Release payment
// @Description Admin releases held funds to the host ahead of the sweep
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /payments/{id}/release [post]
func (h *PaymentHandler) Release(c *gin.Context) {
	h.adminTransition(c, h.commands.Release)
}

// @Summary Refund payment
// @Description Admin refunds captured or held funds back to the guest
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /payments/{id}/refund [post]
func (h *PaymentHandler) Refund(c *gin.Context) {
	h.adminTransition(c, h.commands.Refund)
}

// @Summary Dispute payment
// @Description Admin freezes a held payment pending resolution
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /payments/{id}/dispute [post]
func (h *PaymentHandler) Dispute(c *gin.Context) {
	h.adminTransition(c, h.commands.Dispute)
}

func (h *PaymentHandler) adminTransition(c *gin.Context, run func(ctx context.Context, id uuid.UUID) (*payment.Payment, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid payment ID format", nil)
		return
	}

	p, err := run(c.Request.Context(), id)
	if err != nil {
		abortWithCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPaymentEntity(p))
}
