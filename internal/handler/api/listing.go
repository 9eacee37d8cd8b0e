package api

import (
	"net/http"

	"booking-engine/internal/domain/availability"
	reqdto "booking-engine/internal/handler/dto/request"
	resdto "booking-engine/internal/handler/dto/response"
	"booking-engine/internal/handler/httperr"
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	commands commands.ListingCommands
	queries  queries.ListingQueries
}

func NewListingHandler(commands commands.ListingCommands, queries queries.ListingQueries) *ListingHandler {
	return &ListingHandler{
		commands: commands,
		queries:  queries,
	}
}

// @Summary Register listing
// @Description Register a ride, stay or event listing owned by the calling provider
// @Tags listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.RegisterListingRequest true "Listing"
// @Success 201 {object} queries.ListingView
// @Failure 400 {object} resdto.ErrorResponse
// @Failure 403 {object} resdto.ErrorResponse
// @Router /listings [post]
func (h *ListingHandler) RegisterListing(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	var req reqdto.RegisterListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err, "Invalid request format")
		return
	}
	params, err := req.ToParams()
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	l, err := h.commands.RegisterListing(c.Request.Context(), caller, params)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Header("Location", "/api/listings/"+l.ID().String())
	c.JSON(http.StatusCreated, queries.ToListingView(l))
}

// @Summary Get listing
// @Tags listings
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} queries.ListingView
// @Failure 404 {object} resdto.ErrorResponse
// @Router /listings/{id} [get]
func (h *ListingHandler) GetListing(c *gin.Context) {
	id, ok := pathID(c, "listing")
	if !ok {
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Check stay availability
// @Description Report whether [checkIn, checkOut) overlaps an active booking. Nothing is reserved.
// @Tags listings
// @Produce json
// @Param id path string true "Listing ID"
// @Param checkIn query string true "Date (2006-01-02) or RFC3339 instant"
// @Param checkOut query string true "Date (2006-01-02) or RFC3339 instant"
// @Success 200 {object} queries.AvailabilityView
// @Failure 400 {object} resdto.ErrorResponse
// @Failure 404 {object} resdto.ErrorResponse
// @Router /listings/{id}/availability [get]
func (h *ListingHandler) Availability(c *gin.Context) {
	id, ok := pathID(c, "listing")
	if !ok {
		return
	}

	var q reqdto.AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.BadRequest(c, err, "checkIn and checkOut are required")
		return
	}
	stay, err := availability.ParseInterval(q.CheckIn, q.CheckOut)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	view, err := h.queries.Availability(c.Request.Context(), id, stay)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Inventory ledger
// @Description Mutation log of a seat listing, ordered by seq
// @Tags listings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Param afterSeq query int false "Return entries after this seq"
// @Param limit query int false "Page size (max 200)"
// @Success 200 {object} resdto.ListResponse[queries.LedgerEntryView]
// @Failure 403 {object} resdto.ErrorResponse
// @Failure 404 {object} resdto.ErrorResponse
// @Router /listings/{id}/ledger [get]
func (h *ListingHandler) Ledger(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "listing")
	if !ok {
		return
	}

	var q reqdto.LedgerQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.BadRequest(c, err, "Invalid query parameters")
		return
	}

	entries, err := h.queries.Ledger(c.Request.Context(), caller, id, q.AfterSeq, q.Limit)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.NewList(entries))
}
