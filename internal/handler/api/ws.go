package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// WSServer upgrades the connection and authenticates it in-band.
type WSServer interface {
	ServeWS(w http.ResponseWriter, r *http.Request)
}

type WSHandler struct {
	server WSServer
}

func NewWSHandler(server WSServer) *WSHandler {
	return &WSHandler{server: server}
}

// @Summary Live notifications
// @Description Websocket. The first frame must be {"token": "<bearer token>"}; booking and negotiation events follow as JSON frames.
// @Tags notifications
// @Router /ws [get]
func (h *WSHandler) Serve(c *gin.Context) {
	h.server.ServeWS(c.Writer, c.Request)
}
