package api

import (
	"net/http"

	"booking-engine/internal/domain/booking"
	reqdto "booking-engine/internal/handler/dto/request"
	resdto "booking-engine/internal/handler/dto/response"
	"booking-engine/internal/handler/httperr"
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	commands commands.BookingCommands
	queries  queries.BookingQueries
}

func NewBookingHandler(commands commands.BookingCommands, queries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		commands: commands,
		queries:  queries,
	}
}

// @Summary Create booking
// @Description Reserve seats (ride, event) or a stay interval and price the booking
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} queries.BookingView
// @Failure 400 {object} resdto.ErrorResponse
// @Failure 404 {object} resdto.ErrorResponse
// @Failure 409 {object} resdto.ErrorResponse
// @Failure 422 {object} resdto.ErrorResponse
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err, "Invalid request format")
		return
	}
	in, err := req.ToInput()
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	b, err := h.commands.CreateBooking(c.Request.Context(), caller.ID, in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Header("Location", "/api/bookings/"+b.ID().String())
	c.JSON(http.StatusCreated, queries.ToBookingView(b))
}

// @Summary Get booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} queries.BookingView
// @Failure 403 {object} resdto.ErrorResponse
// @Failure 404 {object} resdto.ErrorResponse
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "booking")
	if !ok {
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), caller, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary List my bookings
// @Description Bookings where the caller is customer or provider, newest first
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (max 200)"
// @Success 200 {object} resdto.ListResponse[queries.BookingView]
// @Router /bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	var q reqdto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.BadRequest(c, err, "Invalid query parameters")
		return
	}

	views, err := h.queries.ListMine(c.Request.Context(), caller, q.Limit)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.NewList(views))
}

// @Summary Decide booking
// @Description Provider approves or rejects a pending booking
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.DecisionRequest true "Decision"
// @Success 200 {object} queries.BookingView
// @Failure 403 {object} resdto.ErrorResponse
// @Failure 409 {object} resdto.ErrorResponse
// @Router /bookings/{id}/decision [post]
func (h *BookingHandler) DecideBooking(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "booking")
	if !ok {
		return
	}

	var req reqdto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err, "Invalid request format")
		return
	}

	b, err := h.commands.DecideBooking(c.Request.Context(), id, caller.ID, booking.Decision(req.Decision), req.Reason)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, queries.ToBookingView(b))
}

// @Summary Confirm booking
// @Description Customer confirms an approved booking with a payment method
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.ConfirmBookingRequest true "Payment"
// @Success 200 {object} queries.BookingView
// @Failure 403 {object} resdto.ErrorResponse
// @Failure 409 {object} resdto.ErrorResponse
// @Router /bookings/{id}/confirm [post]
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "booking")
	if !ok {
		return
	}

	var req reqdto.ConfirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err, "Invalid request format")
		return
	}

	b, err := h.commands.ConfirmBooking(c.Request.Context(), id, caller.ID, req.PaymentMethod)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, queries.ToBookingView(b))
}

// @Summary Cancel booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} queries.BookingView
// @Failure 403 {object} resdto.ErrorResponse
// @Failure 409 {object} resdto.ErrorResponse
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "booking")
	if !ok {
		return
	}

	b, err := h.commands.CancelBooking(c.Request.Context(), id, caller.ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, queries.ToBookingView(b))
}

// @Summary Complete booking
// @Description Admin marks a confirmed booking completed; ride completions recompute the driver's tier
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} queries.BookingView
// @Failure 409 {object} resdto.ErrorResponse
// @Router /bookings/{id}/complete [post]
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	id, ok := pathID(c, "booking")
	if !ok {
		return
	}

	b, err := h.commands.CompleteBooking(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, queries.ToBookingView(b))
}
