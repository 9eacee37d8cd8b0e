//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"booking-engine/internal/domain/identity"
	"booking-engine/internal/domain/listing"
	"booking-engine/internal/domain/negotiation"
	"booking-engine/internal/domain/pricing"
	"booking-engine/internal/handler/api"
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/queries"
	"booking-engine/tests/common/builder"
	"booking-engine/tests/common/httptest"
	"booking-engine/tests/common/testutil"
	commandsmock "booking-engine/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type NegotiationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockNegotiationCommands
	handler      *api.NegotiationHandler
	caller       identity.Caller
	ride         *listing.Listing
}

func (s *NegotiationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockNegotiationCommands(s.mockCtrl)
	s.handler = api.NewNegotiationHandler(s.mockCommands)

	s.caller = identity.Caller{ID: uuid.New(), Role: identity.RoleCustomer}
	ride, err := builder.NewRideListingBuilder().BuildDomain()
	s.Require().NoError(err)
	s.ride = ride

	auth := fakeIdentity(&s.caller)
	s.router.POST("/negotiations", auth, s.handler.Propose)
	s.router.GET("/negotiations/:id", auth, s.handler.Get)
	s.router.POST("/negotiations/:id/counter", auth, s.handler.Counter)
	s.router.POST("/negotiations/:id/accept", auth, s.handler.Accept)
	s.router.POST("/negotiations/:id/reject", auth, s.handler.Reject)
}

func (s *NegotiationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestNegotiationHandlerSuite(t *testing.T) {
	suite.Run(t, new(NegotiationHandlerTestSuite))
}

func (s *NegotiationHandlerTestSuite) proposal() *negotiation.Negotiation {
	n, err := builder.NewNegotiationBuilder().
		With(func(b *builder.NegotiationBuilder) { b.CustomerID = s.caller.ID }).
		BuildDomain(s.ride)
	s.Require().NoError(err)
	return n
}

// ================================================================================
// TestPropose
// ================================================================================

func (s *NegotiationHandlerTestSuite) TestPropose() {
	url := "/negotiations"
	reqBody := builder.NewNegotiationBuilder().BuildProposeRequestDTO(s.ride.ID())

	s.Run("success: returns 201 Created", func() {
		n := s.proposal()
		s.mockCommands.EXPECT().Propose(gomock.Any(), s.caller.ID, s.ride.ID(), pricing.MoneyFromCents(1800)).
			Return(n, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var view queries.NegotiationView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &view)
		s.Equal(n.ID(), view.ID)
		s.Equal("pending", view.Status)
		s.Equal(int64(2000), view.OriginalPriceCents)
		s.Equal(int64(1800), view.ProposedPriceCents)
		s.Nil(view.CounterPriceCents)
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Location": "/api/negotiations/" + n.ID().String()})
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []testCaseBooking{
			{name: "missing field: listingId (required)", mutate: testutil.Field("listingId", nil), expectCode: http.StatusBadRequest, errorCode: "bad_request"},
			{name: "missing field: priceCents (required)", mutate: testutil.Field("priceCents", nil), expectCode: http.StatusBadRequest, errorCode: "bad_request"},
			{name: "negative price", mutate: testutil.Field("priceCents", -100), expectCode: http.StatusBadRequest, errorCode: "validation_error"},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorCode(s.T(), rec, tc.expectCode, tc.errorCode)
			})
		}
	})

	s.Run("error: maps engine errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedCode   string
		}{
			{name: "negotiation disabled", commandsError: negotiation.ErrNegotiationDisabled, expectedStatus: http.StatusUnprocessableEntity, expectedCode: "negotiation_not_allowed"},
			{name: "price out of range", commandsError: negotiation.ErrPriceOutOfRange, expectedStatus: http.StatusUnprocessableEntity, expectedCode: "negotiation_not_allowed"},
			{name: "own listing", commandsError: negotiation.ErrSelfNegotiation, expectedStatus: http.StatusBadRequest, expectedCode: "validation_error"},
			{name: "listing not found", commandsError: commands.ErrListingNotFound, expectedStatus: http.StatusNotFound, expectedCode: "not_found"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Propose(gomock.Any(), s.caller.ID, s.ride.ID(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorCode(s.T(), rec, tc.expectedStatus, tc.expectedCode)
			})
		}
	})
}

// ================================================================================
// TestCounter
// ================================================================================

func (s *NegotiationHandlerTestSuite) TestCounter() {
	n := s.proposal()
	url := "/negotiations/" + n.ID().String() + "/counter"

	s.Run("success: returns the countered negotiation", func() {
		countered := s.proposal()
		s.Require().NoError(countered.Counter(s.ride.ProviderID(), pricing.MoneyFromCents(2100), s.ride.Negotiation(), 0, countered.CreatedAt()))
		s.mockCommands.EXPECT().Counter(gomock.Any(), n.ID(), s.caller.ID, pricing.MoneyFromCents(2100)).
			Return(countered, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"priceCents": 2100}, "bearer-token")

		var view queries.NegotiationView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &view)
		s.Equal("countered", view.Status)
		s.Require().NotNil(view.CounterPriceCents)
		s.Equal(int64(2100), *view.CounterPriceCents)
	})

	s.Run("error: 400 Bad Request without price", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "bearer-token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "bad_request")
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/negotiations/invalid-uuid/counter",
			map[string]any{"priceCents": 2100}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid negotiation ID format")
	})

	s.Run("error: 403 Forbidden when the customer counters", func() {
		s.mockCommands.EXPECT().Counter(gomock.Any(), n.ID(), s.caller.ID, gomock.Any()).
			Return(nil, negotiation.ErrOnlyProviderCounter).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"priceCents": 2100}, "bearer-token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusForbidden, "not_authorized")
	})
}

// ================================================================================
// TestAccept / TestReject / TestGet
// ================================================================================

func (s *NegotiationHandlerTestSuite) TestAccept() {
	n := s.proposal()
	url := "/negotiations/" + n.ID().String() + "/accept"

	s.Run("success: returns the accepted price", func() {
		accepted := s.proposal()
		s.Require().NoError(accepted.Accept(s.ride.ProviderID(), accepted.CreatedAt()))
		s.mockCommands.EXPECT().Accept(gomock.Any(), n.ID(), s.caller.ID).
			Return(accepted, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var view queries.NegotiationView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &view)
		s.Equal("accepted", view.Status)
		s.Require().NotNil(view.AcceptedPriceCents)
		s.Equal(int64(1800), *view.AcceptedPriceCents)
	})

	s.Run("error: maps engine errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedCode   string
		}{
			{name: "own price", commandsError: negotiation.ErrOwnPriceAccept, expectedStatus: http.StatusForbidden, expectedCode: "not_authorized"},
			{name: "expired", commandsError: negotiation.ErrExpired, expectedStatus: http.StatusConflict, expectedCode: "invalid_transition"},
			{name: "already final", commandsError: negotiation.ErrAlreadyFinal, expectedStatus: http.StatusConflict, expectedCode: "invalid_transition"},
			{name: "not found", commandsError: commands.ErrNegotiationNotFound, expectedStatus: http.StatusNotFound, expectedCode: "not_found"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Accept(gomock.Any(), n.ID(), s.caller.ID).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
				httptest.AssertErrorCode(s.T(), rec, tc.expectedStatus, tc.expectedCode)
			})
		}
	})
}

func (s *NegotiationHandlerTestSuite) TestReject() {
	n := s.proposal()

	s.Run("success: returns the rejected negotiation", func() {
		rejected := s.proposal()
		s.Require().NoError(rejected.Reject(s.caller.ID, rejected.CreatedAt()))
		s.mockCommands.EXPECT().Reject(gomock.Any(), n.ID(), s.caller.ID).
			Return(rejected, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/negotiations/"+n.ID().String()+"/reject", nil, "bearer-token")

		var view queries.NegotiationView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &view)
		s.Equal("rejected", view.Status)
	})
}

func (s *NegotiationHandlerTestSuite) TestGet() {
	n := s.proposal()
	url := "/negotiations/" + n.ID().String()

	s.Run("success: returns 200 OK", func() {
		s.mockCommands.EXPECT().Get(gomock.Any(), n.ID(), s.caller.ID).
			Return(n, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var view queries.NegotiationView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &view)
		s.Equal(n.ID(), view.ID)
		s.Equal(n.ExpiresAt().Unix(), view.ExpiresAt.Unix())
	})

	s.Run("error: 403 Forbidden for strangers", func() {
		s.mockCommands.EXPECT().Get(gomock.Any(), n.ID(), s.caller.ID).
			Return(nil, negotiation.ErrNotParticipant).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusForbidden, "not_authorized")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})
}
