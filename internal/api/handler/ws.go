package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/bimantaraz/game-kata/internal/gamehub"
	"github.com/bimantaraz/game-kata/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect cross-origin from the web frontend.
	// TODO: restrict origins before exposing outside a trusted frontend.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// bearerToken extracts the session token from the Authorization header or,
// for browser WebSocket clients that cannot set headers, the token query
// parameter.
func bearerToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); len(auth) > 7 && auth[:7] == "Bearer " {
		return auth[7:]
	}
	return c.Query("token")
}

// ServeWebSocket authenticates the session token, upgrades the connection,
// and hands the client to the hub.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
		return
	}

	sessionID, err := h.validateSessionToken(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return // Upgrade already wrote the error response
	}

	client := &gamehub.WebSocketClient{
		Token: sessionID,
		Conn:  conn,
		Hub:   h.Hub,
		Send:  make(chan models.ServerMessage, 256),
	}

	h.Hub.RegisterCh <- client
	client.Run()
}
