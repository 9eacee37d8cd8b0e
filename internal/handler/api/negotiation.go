package api

import (
	"context"
	"net/http"

	"booking-engine/internal/domain/negotiation"
	"booking-engine/internal/domain/pricing"
	reqdto "booking-engine/internal/handler/dto/request"
	"booking-engine/internal/handler/httperr"
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NegotiationHandler struct {
	commands commands.NegotiationCommands
}

func NewNegotiationHandler(commands commands.NegotiationCommands) *NegotiationHandler {
	return &NegotiationHandler{commands: commands}
}

// @Summary Propose price
// @Description Customer opens a negotiation on a ride listing
// @Tags negotiations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ProposeNegotiationRequest true "Proposal"
// @Success 201 {object} queries.NegotiationView
// @Failure 404 {object} resdto.ErrorResponse
// @Failure 422 {object} resdto.ErrorResponse
// @Router /negotiations [post]
func (h *NegotiationHandler) Propose(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	var req reqdto.ProposeNegotiationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err, "Invalid request format")
		return
	}
	price, err := pricing.NewMoney(req.PriceCents)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	n, err := h.commands.Propose(c.Request.Context(), caller.ID, req.ListingID, price)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Header("Location", "/api/negotiations/"+n.ID().String())
	c.JSON(http.StatusCreated, queries.ToNegotiationView(n))
}

// @Summary Get negotiation
// @Description Returns the negotiation to a participant; an overdue one is expired first
// @Tags negotiations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Negotiation ID"
// @Success 200 {object} queries.NegotiationView
// @Failure 403 {object} resdto.ErrorResponse
// @Failure 404 {object} resdto.ErrorResponse
// @Router /negotiations/{id} [get]
func (h *NegotiationHandler) Get(c *gin.Context) {
	h.act(c, h.commands.Get)
}

// @Summary Counter offer
// @Description Listing provider answers a pending proposal with a counter price
// @Tags negotiations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Negotiation ID"
// @Param request body reqdto.CounterNegotiationRequest true "Counter price"
// @Success 200 {object} queries.NegotiationView
// @Failure 403 {object} resdto.ErrorResponse
// @Failure 409 {object} resdto.ErrorResponse
// @Failure 422 {object} resdto.ErrorResponse
// @Router /negotiations/{id}/counter [post]
func (h *NegotiationHandler) Counter(c *gin.Context) {
	var req reqdto.CounterNegotiationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err, "Invalid request format")
		return
	}
	price, err := pricing.NewMoney(req.PriceCents)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.act(c, func(ctx context.Context, id, actorID uuid.UUID) (*negotiation.Negotiation, error) {
		return h.commands.Counter(ctx, id, actorID, price)
	})
}

// @Summary Accept negotiation
// @Tags negotiations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Negotiation ID"
// @Success 200 {object} queries.NegotiationView
// @Failure 403 {object} resdto.ErrorResponse
// @Failure 409 {object} resdto.ErrorResponse
// @Router /negotiations/{id}/accept [post]
func (h *NegotiationHandler) Accept(c *gin.Context) {
	h.act(c, h.commands.Accept)
}

// @Summary Reject negotiation
// @Tags negotiations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Negotiation ID"
// @Success 200 {object} queries.NegotiationView
// @Failure 403 {object} resdto.ErrorResponse
// @Failure 409 {object} resdto.ErrorResponse
// @Router /negotiations/{id}/reject [post]
func (h *NegotiationHandler) Reject(c *gin.Context) {
	h.act(c, h.commands.Reject)
}

func (h *NegotiationHandler) act(c *gin.Context, op func(ctx context.Context, id, actorID uuid.UUID) (*negotiation.Negotiation, error)) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "negotiation")
	if !ok {
		return
	}

	n, err := op(c.Request.Context(), id, caller.ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, queries.ToNegotiationView(n))
}
