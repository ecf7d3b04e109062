package api

import (
	"context"
	"net/http"
	"strconv"

	"staybook/internal/domain/reservation"
	reqdto "staybook/internal/handler/dto/request"
	resdto "staybook/internal/handler/dto/response"
	"staybook/internal/handler/httperr"
	"staybook/internal/handler/middleware"
	"staybook/internal/usecase/commands"
	"staybook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	commands commands.ReservationCommands
	queries  queries.ReservationQueries
}

func NewReservationHandler(cmds commands.ReservationCommands, qrys queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{commands: cmds, queries: qrys}
}

// @Summary Create reservation
// @Description Request a stay; the reservation starts PENDING until the host responds
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingActor, "Internal server error", nil)
		return
	}

	var req reqdto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	checkin, checkout, err := req.ParseDates()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}
	propertyID, err := uuid.Parse(req.PropertyID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid property ID format", nil)
		return
	}

	res, err := h.commands.Create(c.Request.Context(), actorID, commands.CreateReservationInput{
		PropertyID: propertyID,
		Checkin:    checkin,
		Checkout:   checkout,
		GuestCount: req.GuestCount,
		Note:       req.GetNote(),
	})
	if err != nil {
		abortWithCommandError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromReservationEntity(res))
}

// @Summary Get reservation
// @Description Fetch one reservation; visible to its guest, the host, and admins
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingActor, "Internal server error", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		abortWithQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary List my reservations
// @Description Reservations the actor booked as a guest, newest first
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param after query string false "Opaque cursor"
// @Param limit query int false "Page size"
// @Success 200 {object} resdto.ReservationPageResponse
// @Router /reservations [get]
func (h *ReservationHandler) ListMine(c *gin.Context) {
	h.list(c, h.queries.ListByGuest)
}

// @Summary List hosted reservations
// @Description Reservations booked against the actor's properties, newest first
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param after query string false "Opaque cursor"
// @Param limit query int false "Page size"
// @Success 200 {object} resdto.ReservationPageResponse
// @Router /reservations/hosting [get]
func (h *ReservationHandler) ListHosting(c *gin.Context) {
	h.list(c, h.queries.ListByHost)
}

// @Summary Confirm reservation
// @Description Host accepts a pending request; re-validates date availability atomically
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations/{id}/confirm [post]
func (h *ReservationHandler) Confirm(c *gin.Context) {
	h.transition(c, func(ctx *gin.Context, id, actorID uuid.UUID) (any, error) {
		res, err := h.commands.Confirm(ctx.Request.Context(), id, actorID)
		if err != nil {
			return nil, err
		}
		return resdto.FromReservationEntity(res), nil
	})
}

// @Summary Reject reservation
// @Description Host declines a pending request with a reason
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.ReasonRequest true "Rejection reason"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 403 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations/{id}/reject [post]
func (h *ReservationHandler) Reject(c *gin.Context) {
	h.transitionWithReason(c, h.commands.Reject)
}

// @Summary Cancel reservation
// @Description Guest or host cancels at least 24h before checkin
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.ReasonRequest true "Cancellation reason"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 403 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	h.transitionWithReason(c, h.commands.Cancel)
}

// @Summary Force-cancel reservation
// @Description Admin cancels any reservation that has not reached a terminal state, bypassing the 24h notice window
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.ReasonRequest true "Cancellation reason"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 403 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations/{id}/force-cancel [post]
func (h *ReservationHandler) ForceCancel(c *gin.Context) {
	h.transitionWithReason(c, func(ctx context.Context, id, _ uuid.UUID, reason string) (*reservation.Reservation, error) {
		return h.commands.ForceCancel(ctx, id, reason)
	})
}

// @Summary Check in
// @Description Host records guest arrival on the checkin date
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 422 {object} httperr.Response
// @Router /reservations/{id}/check-in [post]
func (h *ReservationHandler) CheckIn(c *gin.Context) {
	h.transition(c, func(ctx *gin.Context, id, actorID uuid.UUID) (any, error) {
		res, err := h.commands.CheckIn(ctx.Request.Context(), id, actorID)
		if err != nil {
			return nil, err
		}
		return resdto.FromReservationEntity(res), nil
	})
}

// @Summary Check out
// @Description Host records guest departure on the checkout date
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 422 {object} httperr.Response
// @Router /reservations/{id}/check-out [post]
func (h *ReservationHandler) CheckOut(c *gin.Context) {
	h.transition(c, func(ctx *gin.Context, id, actorID uuid.UUID) (any, error) {
		res, err := h.commands.CheckOut(ctx.Request.Context(), id, actorID)
		if err != nil {
			return nil, err
		}
		return resdto.FromReservationEntity(res), nil
	})
}

func (h *ReservationHandler) list(
	c *gin.Context,
	fetch func(ctx context.Context, actor queries.Actor, after *queries.Cursor, limit int) ([]*queries.ReservationListItem, *queries.Cursor, error),
) {
	actor, ok := actorFromContext(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingActor, "Internal server error", nil)
		return
	}

	var after *queries.Cursor
	if cursor := c.Query("after"); cursor != "" {
		after = &queries.Cursor{After: cursor}
	}
	limit := 0
	if v := c.Query("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	items, next, err := fetch(c.Request.Context(), actor, after, limit)
	if err != nil {
		abortWithQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationPage(items, next))
}

func (h *ReservationHandler) transition(c *gin.Context, run func(c *gin.Context, id, actorID uuid.UUID) (any, error)) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingActor, "Internal server error", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}

	body, err := run(c, id, actorID)
	if err != nil {
		abortWithCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, body)
}

func (h *ReservationHandler) transitionWithReason(
	c *gin.Context,
	run func(ctx context.Context, id, actorID uuid.UUID, reason string) (*reservation.Reservation, error),
) {
	var req reqdto.ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	h.transition(c, func(ctx *gin.Context, id, actorID uuid.UUID) (any, error) {
		res, err := run(ctx.Request.Context(), id, actorID, req.Reason)
		if err != nil {
			return nil, err
		}
		return resdto.FromReservationEntity(res), nil
	})
}
