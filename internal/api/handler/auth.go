package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	jwt "github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 72 * time.Hour

// mintSessionToken issues a signed token carrying a fresh session id. The
// server mints identity; a client can only present a token back, never
// choose its own id.
func (h *Handler) mintSessionToken(sessionID string) (string, error) {
	claims := jwt.MapClaims{
		"sid": sessionID,
		"exp": time.Now().Add(tokenTTL).Unix(),
		"iss": "game-kata",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}

// validateSessionToken checks the signature and expiry and extracts the
// session id.
func (h *Handler) validateSessionToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return h.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token or expired")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("malformed claims")
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", errors.New("missing session id")
	}
	return sid, nil
}

// GetSession mints a new anonymous session and returns its token. Clients
// store it and present it on every WebSocket connection, which is what makes
// reconnection land on the same logical player.
func (h *Handler) GetSession(c *gin.Context) {
	sessionID := uuid.NewString()

	token, err := h.mintSessionToken(sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "session_id": sessionID})
}
