//go:build unit

package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/identity"
	"booking-engine/internal/domain/listing"
	"booking-engine/internal/domain/negotiation"
	"booking-engine/internal/handler/api"
	"booking-engine/internal/pkg/errs"
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/queries"
	"booking-engine/tests/common/builder"
	"booking-engine/tests/common/httptest"
	"booking-engine/tests/common/testutil"
	commandsmock "booking-engine/tests/mock/commands"
	queriesmock "booking-engine/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// fakeIdentity stands in for RequireIdentity: any bearer token resolves to caller.
func fakeIdentity(caller *identity.Caller) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Access token required"}})
			return
		}
		c.Set("caller", *caller)
		c.Set("user_id", caller.ID.String())
		c.Set("user_role", caller.Role.String())
		c.Next()
	}
}

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
	caller       identity.Caller
	ride         *listing.Listing
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)

	s.caller = identity.Caller{ID: uuid.New(), Role: identity.RoleCustomer}
	ride, err := builder.NewRideListingBuilder().BuildDomain()
	s.Require().NoError(err)
	s.ride = ride

	auth := fakeIdentity(&s.caller)
	s.router.POST("/bookings", auth, s.handler.CreateBooking)
	s.router.GET("/bookings", auth, s.handler.ListBookings)
	s.router.GET("/bookings/:id", auth, s.handler.GetBooking)
	s.router.POST("/bookings/:id/decision", auth, s.handler.DecideBooking)
	s.router.POST("/bookings/:id/confirm", auth, s.handler.ConfirmBooking)
	s.router.POST("/bookings/:id/cancel", auth, s.handler.CancelBooking)
	s.router.POST("/bookings/:id/complete", s.handler.CompleteBooking)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

type testCaseBooking struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
	errorCode  string
}

func (s *BookingHandlerTestSuite) rideBooking() *booking.Booking {
	b, err := builder.NewRideBookingBuilder(s.ride.ID()).
		With(func(b *builder.BookingBuilder) { b.CustomerID = s.caller.ID }).
		BuildDomain(s.ride)
	s.Require().NoError(err)
	return b
}

// ================================================================================
// TestCreateBooking
// ================================================================================

func (s *BookingHandlerTestSuite) TestCreateBooking() {
	url := "/bookings"
	reqBody := builder.NewRideBookingBuilder(s.ride.ID()).BuildCreateRequestDTO()

	validation := []testCaseBooking{
		{name: "missing field: listingId (required)", mutate: testutil.Field("listingId", nil), expectCode: http.StatusBadRequest, errorCode: "bad_request"},
		{name: "missing field: serviceType (required)", mutate: testutil.Field("serviceType", nil), expectCode: http.StatusBadRequest, errorCode: "bad_request"},
		{name: "missing field: quantity (required)", mutate: testutil.Field("quantity", nil), expectCode: http.StatusBadRequest, errorCode: "bad_request"},
		{name: "quantity zero", mutate: testutil.Field("quantity", 0), expectCode: http.StatusBadRequest, errorCode: "bad_request"},
		{name: "unknown serviceType", mutate: testutil.Field("serviceType", "ferry"), expectCode: http.StatusBadRequest, errorCode: "validation_error"},
		{name: "checkIn without checkOut", mutate: testutil.Field("checkIn", "2026-03-10"), expectCode: http.StatusBadRequest, errorCode: "validation_error"},
		{name: "unparsable stay bound", mutate: func(m map[string]any) {
			m["checkIn"], m["checkOut"] = "tomorrow", "2026-03-12"
		}, expectCode: http.StatusBadRequest, errorCode: "validation_error"},
		{name: "mixed stay granularity", mutate: func(m map[string]any) {
			m["checkIn"], m["checkOut"] = "2026-03-10", "2026-03-12T10:00:00Z"
		}, expectCode: http.StatusBadRequest, errorCode: "granularity_mismatch"},
		{name: "quantity above one is passed through", mutate: testutil.Field("quantity", 3), expectCode: http.StatusCreated},
	}

	s.Run("success: returns 201 Created with the priced booking", func() {
		created := s.rideBooking()
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), s.caller.ID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, in commands.CreateBookingInput) (*booking.Booking, error) {
				s.Equal(s.ride.ID(), in.ListingID)
				s.Equal(listing.ServiceRide, in.ServiceType)
				s.Equal(1, in.Quantity)
				s.NotNil(in.ScheduledAt)
				s.Nil(in.Stay)
				return created, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var view queries.BookingView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &view)
		s.Equal(created.ID(), view.ID)
		s.Equal("pending_approval", view.Status)
		s.Equal(int64(2000), view.Price.TotalCents)
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Location": "/api/bookings/" + created.ID().String()})
	})

	s.Run("success: stay dates are parsed into an interval", func() {
		stayReq := builder.NewStayBookingBuilder(uuid.New()).BuildCreateRequestDTO()
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), s.caller.ID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, in commands.CreateBookingInput) (*booking.Booking, error) {
				s.Require().NotNil(in.Stay)
				s.Equal(availability.GranularityDate, in.Stay.Granularity())
				s.Equal(int64(3), in.Stay.Nights())
				return s.rideBooking(), nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, stayReq, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		for _, tc := range validation {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)

				if tc.expectCode == http.StatusCreated {
					s.mockCommands.EXPECT().CreateBooking(gomock.Any(), s.caller.ID, gomock.Any()).
						Return(s.rideBooking(), nil).Times(1)
				}
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				if tc.expectCode == http.StatusCreated {
					httptest.AssertSuccessResponse(s.T(), rec, tc.expectCode, nil)
				} else {
					httptest.AssertErrorCode(s.T(), rec, tc.expectCode, tc.errorCode)
				}
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	s.Run("error: maps engine errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedCode   string
		}{
			{name: "listing not found", commandsError: commands.ErrListingNotFound, expectedStatus: http.StatusNotFound, expectedCode: "not_found"},
			{name: "no seats left", commandsError: listing.ErrNoSeatsLeft, expectedStatus: http.StatusConflict, expectedCode: "insufficient_capacity"},
			{name: "overlapping stay", commandsError: availability.ErrOverlap, expectedStatus: http.StatusConflict, expectedCode: "date_conflict"},
			{name: "negotiation not accepted", commandsError: negotiation.ErrNegotiationDisabled, expectedStatus: http.StatusUnprocessableEntity, expectedCode: "negotiation_not_allowed"},
			{name: "negotiation reused", commandsError: commands.ErrNegotiationReused, expectedStatus: http.StatusBadRequest, expectedCode: "validation_error"},
			{name: "corrupted seat counter", commandsError: listing.ErrCapacityCorrupted, expectedStatus: http.StatusInternalServerError, expectedCode: "integrity_violation"},
			{name: "unexpected failure", commandsError: errors.New("database error"), expectedStatus: http.StatusInternalServerError, expectedCode: "internal"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CreateBooking(gomock.Any(), s.caller.ID, gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorCode(s.T(), rec, tc.expectedStatus, tc.expectedCode)
			})
		}
	})

	s.Run("error: server failures hide their cause", func() {
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), s.caller.ID, gomock.Any()).
			Return(nil, errs.Mark(errs.New("rate table broken"), errs.ErrInvalidDiscountConfiguration)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusInternalServerError, "pricing_misconfigured")
		s.NotContains(rec.Body.String(), "rate table broken")
	})
}

// ================================================================================
// TestGetBooking / TestListBookings
// ================================================================================

func (s *BookingHandlerTestSuite) TestGetBooking() {
	view := builder.NewRideBookingBuilder(s.ride.ID()).BuildView(s.ride)
	url := "/bookings/" + view.ID.String()

	s.Run("success: returns 200 OK with BookingView", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.caller, view.ID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response queries.BookingView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(view.ID, response.ID)
		s.Equal(view.ProviderID, response.ProviderID)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/invalid-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid booking ID format")
	})

	s.Run("error: 403 Forbidden for non-participants", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.caller, view.ID).
			Return(nil, queries.ErrForbidden).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusForbidden, "not_authorized")
	})

	s.Run("error: 404 Not Found for missing booking", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.caller, view.ID).
			Return(nil, queries.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusNotFound, "not_found")
	})
}

func (s *BookingHandlerTestSuite) TestListBookings() {
	views := []*queries.BookingView{
		builder.NewRideBookingBuilder(s.ride.ID()).BuildView(s.ride),
		builder.NewRideBookingBuilder(s.ride.ID()).BuildView(s.ride),
	}

	s.Run("success: returns the caller's bookings", func() {
		s.mockQueries.EXPECT().ListMine(gomock.Any(), s.caller, 0).
			Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings", nil, "bearer-token")

		var response map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		items, ok := response["items"].([]any)
		s.True(ok)
		s.Len(items, 2)
		s.Equal(float64(2), response["count"])
	})

	s.Run("success: limit is passed through and empty lists are arrays", func() {
		s.mockQueries.EXPECT().ListMine(gomock.Any(), s.caller, 5).
			Return(nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?limit=5", nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
		s.JSONEq(`{"items":[],"count":0}`, rec.Body.String())
	})

	s.Run("error: 400 Bad Request for non-numeric limit", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?limit=ten", nil, "bearer-token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "bad_request")
	})
}

// ================================================================================
// TestDecideBooking
// ================================================================================

func (s *BookingHandlerTestSuite) TestDecideBooking() {
	b := s.rideBooking()
	url := "/bookings/" + b.ID().String() + "/decision"

	s.Run("success: approve", func() {
		s.Require().NoError(b.Approve(b.ProviderID(), true, b.CreatedAt()))
		s.mockCommands.EXPECT().DecideBooking(gomock.Any(), b.ID(), s.caller.ID, booking.DecisionApprove, "").
			Return(b, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"decision": "approve"}, "bearer-token")

		var view queries.BookingView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &view)
		s.Equal("confirmed", view.Status)
	})

	s.Run("success: reject passes the reason", func() {
		rejected := s.rideBooking()
		s.Require().NoError(rejected.Reject(rejected.ProviderID(), "no luggage space", rejected.CreatedAt()))
		s.mockCommands.EXPECT().DecideBooking(gomock.Any(), b.ID(), s.caller.ID, booking.DecisionReject, "no luggage space").
			Return(rejected, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"decision": "reject", "reason": "no luggage space"}, "bearer-token")

		var view queries.BookingView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &view)
		s.Equal("rejected", view.Status)
		s.Require().NotNil(view.RejectionReason)
		s.Equal("no luggage space", *view.RejectionReason)
	})

	s.Run("error: 400 Bad Request without decision", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"reason": "x"}, "bearer-token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "bad_request")
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/invalid-uuid/decision",
			map[string]any{"decision": "approve"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid booking ID format")
	})

	s.Run("error: maps engine errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedCode   string
		}{
			{name: "not the booking's provider", commandsError: booking.ErrNotProvider, expectedStatus: http.StatusForbidden, expectedCode: "not_authorized"},
			{name: "already decided", commandsError: booking.ErrWrongStatus, expectedStatus: http.StatusConflict, expectedCode: "invalid_transition"},
			{name: "invalid decision", commandsError: commands.ErrInvalidDecision, expectedStatus: http.StatusBadRequest, expectedCode: "validation_error"},
			{name: "booking not found", commandsError: commands.ErrBookingNotFound, expectedStatus: http.StatusNotFound, expectedCode: "not_found"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().DecideBooking(gomock.Any(), b.ID(), s.caller.ID, gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"decision": "approve"}, "bearer-token")
				httptest.AssertErrorCode(s.T(), rec, tc.expectedStatus, tc.expectedCode)
			})
		}
	})
}

// ================================================================================
// TestConfirmBooking / TestCancelBooking / TestCompleteBooking
// ================================================================================

func (s *BookingHandlerTestSuite) TestConfirmBooking() {
	b := s.rideBooking()
	url := "/bookings/" + b.ID().String() + "/confirm"

	s.Run("success: returns the confirmed booking", func() {
		confirmed := s.rideBooking()
		s.Require().NoError(confirmed.Approve(confirmed.ProviderID(), false, confirmed.CreatedAt()))
		s.Require().NoError(confirmed.Confirm(s.caller.ID, "wallet", confirmed.CreatedAt()))
		s.mockCommands.EXPECT().ConfirmBooking(gomock.Any(), b.ID(), s.caller.ID, "wallet").
			Return(confirmed, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"paymentMethod": "wallet"}, "bearer-token")

		var view queries.BookingView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &view)
		s.Equal("confirmed", view.Status)
		s.Equal("wallet", view.PaymentMethod)
	})

	s.Run("error: 400 Bad Request without payment method", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "bearer-token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "bad_request")
	})

	s.Run("error: 409 Conflict before approval", func() {
		s.mockCommands.EXPECT().ConfirmBooking(gomock.Any(), b.ID(), s.caller.ID, "card").
			Return(nil, booking.ErrWrongStatus).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"paymentMethod": "card"}, "bearer-token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusConflict, "invalid_transition")
	})
}

func (s *BookingHandlerTestSuite) TestCancelBooking() {
	b := s.rideBooking()
	url := "/bookings/" + b.ID().String() + "/cancel"

	s.Run("success: returns the cancelled booking", func() {
		cancelled := s.rideBooking()
		s.Require().NoError(cancelled.Cancel(s.caller.ID, cancelled.CreatedAt()))
		s.mockCommands.EXPECT().CancelBooking(gomock.Any(), b.ID(), s.caller.ID).
			Return(cancelled, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var view queries.BookingView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &view)
		s.Equal("cancelled", view.Status)
		s.Require().NotNil(view.CancelledBy)
		s.Equal("customer", *view.CancelledBy)
	})

	s.Run("error: 409 Conflict for final bookings", func() {
		s.mockCommands.EXPECT().CancelBooking(gomock.Any(), b.ID(), s.caller.ID).
			Return(nil, booking.ErrTerminal).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorCode(s.T(), rec, http.StatusConflict, "invalid_transition")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})
}

func (s *BookingHandlerTestSuite) TestCompleteBooking() {
	b := s.rideBooking()
	url := "/bookings/" + b.ID().String() + "/complete"

	s.Run("success: returns the completed booking", func() {
		completed := s.rideBooking()
		s.Require().NoError(completed.Approve(completed.ProviderID(), true, completed.CreatedAt()))
		s.Require().NoError(completed.Complete(completed.CreatedAt()))
		s.mockCommands.EXPECT().CompleteBooking(gomock.Any(), b.ID()).
			Return(completed, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")

		var view queries.BookingView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &view)
		s.Equal("completed", view.Status)
		s.NotNil(view.CompletedAt)
	})

	s.Run("error: 409 Conflict when not confirmed", func() {
		s.mockCommands.EXPECT().CompleteBooking(gomock.Any(), b.ID()).
			Return(nil, booking.ErrWrongStatus).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusConflict, "invalid_transition")
	})
}
