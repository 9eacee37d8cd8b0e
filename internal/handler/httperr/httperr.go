package httperr

import (
	"net/http"

	"booking-engine/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
		Code    string `json:"code,omitempty"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	abort(c, status, err, msg, "", detail)
}

func abort(c *gin.Context, status int, err error, msg, code string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Error.Code = code
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

type mapping struct {
	category error
	status   int
	code     string
	// fixed replaces the error text for server-side failures
	fixed string
}

// Checked in order: integrity and configuration failures win over whatever
// business category the same chain also carries.
var mappings = []mapping{
	{errs.ErrIntegrityViolation, http.StatusInternalServerError, "integrity_violation", "Internal server error"},
	{errs.ErrInvalidDiscountConfiguration, http.StatusInternalServerError, "pricing_misconfigured", "pricing misconfigured"},
	{errs.ErrDatabaseOperationFailed, http.StatusInternalServerError, "internal", "Internal server error"},
	{errs.ErrNotFound, http.StatusNotFound, "not_found", ""},
	{errs.ErrNotAuthorized, http.StatusForbidden, "not_authorized", ""},
	{errs.ErrInsufficientCapacity, http.StatusConflict, "insufficient_capacity", ""},
	{errs.ErrDateConflict, http.StatusConflict, "date_conflict", ""},
	{errs.ErrInvalidTransition, http.StatusConflict, "invalid_transition", ""},
	{errs.ErrGranularityMismatch, http.StatusBadRequest, "granularity_mismatch", ""},
	{errs.ErrValidation, http.StatusBadRequest, "validation_error", ""},
	{errs.ErrNegotiationNotAllowed, http.StatusUnprocessableEntity, "negotiation_not_allowed", ""},
}

// Respond maps an engine error to its HTTP status by category.
func Respond(c *gin.Context, err error) {
	for _, m := range mappings {
		if !errs.Is(err, m.category) {
			continue
		}
		msg := m.fixed
		if msg == "" {
			msg = err.Error()
		}
		abort(c, m.status, err, msg, m.code, nil)
		return
	}
	abort(c, http.StatusInternalServerError, err, "Internal server error", "internal", nil)
}

// BadRequest is for malformed input rejected before it reaches the engine.
func BadRequest(c *gin.Context, err error, msg string) {
	abort(c, http.StatusBadRequest, err, msg, "bad_request", nil)
}
