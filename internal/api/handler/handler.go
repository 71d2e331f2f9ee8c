package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bimantaraz/game-kata/internal/gamehub"
)

// Handler binds the HTTP surface to the game hub.
type Handler struct {
	Hub       *gamehub.Hub
	jwtSecret []byte
}

func NewHandler(hub *gamehub.Hub, jwtSecret []byte) *Handler {
	return &Handler{Hub: hub, jwtSecret: jwtSecret}
}

// Healthz is the liveness probe.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Rooms serves the public room directory over plain HTTP, same data the
// rooms_update push carries.
func (h *Handler) Rooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.Hub.Directory(c.Request.Context())})
}
