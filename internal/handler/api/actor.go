package api

import (
	"staybook/internal/handler/middleware"
	"staybook/internal/pkg/errs"
	"staybook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

// errMissingActor indicates a route behind RequireAuth saw no actor in
// context, which is a wiring bug rather than a client error.
var errMissingActor = errs.New("authenticated actor missing from request context")

func actorFromContext(c *gin.Context) (queries.Actor, bool) {
	id, okID := middleware.GetActorID(c)
	role, okRole := middleware.GetActorRole(c)
	if !okID || !okRole {
		return queries.Actor{}, false
	}
	return queries.Actor{ID: id, Role: role}, true
}
