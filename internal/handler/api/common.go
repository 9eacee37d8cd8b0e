package api

import (
	"net/http"

	"booking-engine/internal/domain/identity"
	"booking-engine/internal/handler/httperr"
	"booking-engine/internal/handler/middleware"
	"booking-engine/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errMissingCaller = errs.New("caller missing from context")

// mustCaller aborts with 500 when RequireIdentity did not run first.
func mustCaller(c *gin.Context) (identity.Caller, bool) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errMissingCaller, "Internal server error", nil)
		return identity.Caller{}, false
	}
	return caller, true
}

func pathID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, err, "Invalid "+what+" ID format")
		return uuid.Nil, false
	}
	return id, true
}
