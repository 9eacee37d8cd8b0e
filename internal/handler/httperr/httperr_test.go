//go:build unit

package httperr_test

import (
	"net/http"
	"testing"

	"booking-engine/internal/handler/httperr"
	"booking-engine/internal/pkg/errs"
	"booking-engine/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func respondWith(err error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", func(c *gin.Context) { httperr.Respond(c, err) })
	return r
}

func TestRespond(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", errs.Mark(errs.New("listing not found"), errs.ErrNotFound), http.StatusNotFound, "not_found"},
		{"not authorized", errs.Mark(errs.New("not the provider"), errs.ErrNotAuthorized), http.StatusForbidden, "not_authorized"},
		{"capacity", errs.Mark(errs.New("sold out"), errs.ErrInsufficientCapacity), http.StatusConflict, "insufficient_capacity"},
		{"dates", errs.Mark(errs.New("overlap"), errs.ErrDateConflict), http.StatusConflict, "date_conflict"},
		{"transition", errs.Mark(errs.New("already confirmed"), errs.ErrInvalidTransition), http.StatusConflict, "invalid_transition"},
		{"granularity", errs.Mark(errs.New("mixed"), errs.ErrGranularityMismatch), http.StatusBadRequest, "granularity_mismatch"},
		{"validation", errs.Mark(errs.New("bad title"), errs.ErrValidation), http.StatusBadRequest, "validation_error"},
		{"negotiation", errs.Mark(errs.New("not negotiable"), errs.ErrNegotiationNotAllowed), http.StatusUnprocessableEntity, "negotiation_not_allowed"},
		{"database", errs.Mark(errs.New("conn reset"), errs.ErrDatabaseOperationFailed), http.StatusInternalServerError, "internal"},
		{"uncategorized", errs.New("boom"), http.StatusInternalServerError, "internal"},
		{"wrapped category survives", errs.Wrapf(errs.Mark(errs.New("sold out"), errs.ErrInsufficientCapacity), "listing=%d", 7), http.StatusConflict, "insufficient_capacity"},
		{
			"integrity wins over business category",
			errs.Mark(errs.Mark(errs.New("counter drift"), errs.ErrInsufficientCapacity), errs.ErrIntegrityViolation),
			http.StatusInternalServerError, "integrity_violation",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.PerformRequest(t, respondWith(tc.err), http.MethodGet, "/", nil, "")
			httptest.AssertErrorCode(t, rec, tc.wantStatus, tc.wantCode)
		})
	}
}

func TestRespond_Messages(t *testing.T) {
	t.Run("business errors carry their text", func(t *testing.T) {
		err := errs.Mark(errs.New("listing has 1 seat available"), errs.ErrInsufficientCapacity)
		rec := httptest.PerformRequest(t, respondWith(err), http.MethodGet, "/", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusConflict, "listing has 1 seat available")
	})

	t.Run("server-side failures hide their cause", func(t *testing.T) {
		err := errs.Mark(errs.New("available=-1 max=4"), errs.ErrIntegrityViolation)
		rec := httptest.PerformRequest(t, respondWith(err), http.MethodGet, "/", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusInternalServerError, "Internal server error")
		assert.NotContains(t, rec.Body.String(), "available=-1")
	})

	t.Run("discount misconfiguration is named", func(t *testing.T) {
		err := errs.Mark(errs.New("rate 150"), errs.ErrInvalidDiscountConfiguration)
		rec := httptest.PerformRequest(t, respondWith(err), http.MethodGet, "/", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusInternalServerError, "pricing misconfigured")
		assert.NotContains(t, rec.Body.String(), "rate 150")
	})
}

func TestBadRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", func(c *gin.Context) { httperr.BadRequest(c, errs.New("EOF"), "Invalid request format") })

	rec := httptest.PerformRequest(t, r, http.MethodGet, "/", nil, "")
	httptest.AssertErrorCode(t, rec, http.StatusBadRequest, "bad_request")
	httptest.AssertErrorResponse(t, rec, http.StatusBadRequest, "Invalid request format")
}
