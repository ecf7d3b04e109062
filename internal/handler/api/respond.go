package api

import (
	"net/http"

	"staybook/internal/handler/httperr"
	"staybook/internal/pkg/errs"
	"staybook/internal/usecase/commands"
	"staybook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

// abortWithCommandError maps the usecase error taxonomy onto HTTP statuses.
// Handlers never branch on individual domain errors; the marked group decides
// the status and the message stays generic. Matching goes through errs.Is
// because marks sit outside the stdlib Unwrap chain.
func abortWithCommandError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, commands.ErrValidation):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Validation failed", nil)
	case errs.Is(err, commands.ErrPropertyNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Property not found", nil)
	case errs.Is(err, commands.ErrReservationNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
	case errs.Is(err, commands.ErrPaymentNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Payment not found", nil)
	case errs.Is(err, commands.ErrUserNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "User not found", nil)
	case errs.Is(err, commands.ErrNotAuthorized):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Not allowed", nil)
	case errs.Is(err, commands.ErrDatesUnavailable):
		httperr.AbortWithError(c, http.StatusConflict, err, "Dates conflict with another reservation", nil)
	case errs.Is(err, commands.ErrPaymentAlreadyInitiated):
		httperr.AbortWithError(c, http.StatusConflict, err, "A payment already exists for this reservation", nil)
	case errs.Is(err, commands.ErrInvalidState):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Operation not valid in current state", nil)
	case errs.Is(err, commands.ErrGatewayFailure):
		httperr.AbortWithError(c, http.StatusBadGateway, err, "Payment gateway unavailable", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func abortWithQueryError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, queries.ErrReservationNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
	case errs.Is(err, queries.ErrPaymentNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Payment not found", nil)
	case errs.Is(err, queries.ErrNotAuthorized):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Not allowed", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
