package api

import (
	"net/http"

	reqdto "booking-engine/internal/handler/dto/request"
	"booking-engine/internal/handler/httperr"
	"booking-engine/internal/usecase/commands"
	"booking-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type DriverHandler struct {
	commands commands.DriverCommands
	queries  queries.DriverQueries
}

func NewDriverHandler(commands commands.DriverCommands, queries queries.DriverQueries) *DriverHandler {
	return &DriverHandler{
		commands: commands,
		queries:  queries,
	}
}

// @Summary Driver stats
// @Tags drivers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Driver ID"
// @Success 200 {object} queries.DriverStatsView
// @Failure 404 {object} resdto.ErrorResponse
// @Router /drivers/{id}/stats [get]
func (h *DriverHandler) GetStats(c *gin.Context) {
	id, ok := pathID(c, "driver")
	if !ok {
		return
	}

	view, err := h.queries.Stats(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Record driver stats
// @Description Replace the driver's accumulated ride statistics and recompute the partnership tier
// @Tags drivers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Driver ID"
// @Param request body reqdto.RecordStatsRequest true "Statistics"
// @Success 200 {object} queries.DriverStatsView
// @Failure 400 {object} resdto.ErrorResponse
// @Router /drivers/{id}/stats [put]
func (h *DriverHandler) RecordStats(c *gin.Context) {
	id, ok := pathID(c, "driver")
	if !ok {
		return
	}

	var req reqdto.RecordStatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err, "Invalid request format")
		return
	}
	in, err := req.ToInput(id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	stats, err := h.commands.RecordStats(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, queries.ToDriverStatsView(stats))
}

// @Summary Recompute driver tier
// @Tags drivers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Driver ID"
// @Success 200 {object} queries.DriverStatsView
// @Failure 404 {object} resdto.ErrorResponse
// @Router /drivers/{id}/tier [post]
func (h *DriverHandler) RecomputeTier(c *gin.Context) {
	id, ok := pathID(c, "driver")
	if !ok {
		return
	}

	stats, err := h.commands.RecomputeDriverTier(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, queries.ToDriverStatsView(stats))
}
