package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() *Handler {
	return NewHandler(nil, []byte("test-secret"))
}

func TestGetSession_MintsValidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler()

	r := gin.New()
	r.GET("/session", h.GetSession)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Token     string `json:"token"`
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	require.NotEmpty(t, body.SessionID)

	// The minted token must round-trip through validation to the same id.
	sid, err := h.validateSessionToken(body.Token)
	require.NoError(t, err)
	assert.Equal(t, body.SessionID, sid)
}

func TestValidateSessionToken_Rejections(t *testing.T) {
	h := newTestHandler()

	_, err := h.validateSessionToken("not-a-token")
	assert.Error(t, err)

	// Token signed with a different secret.
	other := NewHandler(nil, []byte("other-secret"))
	tok, err := other.mintSessionToken("sid-1")
	require.NoError(t, err)
	_, err = h.validateSessionToken(tok)
	assert.Error(t, err)

	// Expired token.
	claims := jwt.MapClaims{
		"sid": "sid-2",
		"exp": time.Now().Add(-time.Hour).Unix(),
		"iss": "game-kata",
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = h.validateSessionToken(expired)
	assert.Error(t, err)

	// Token without a session id claim.
	noSid, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = h.validateSessionToken(noSid)
	assert.Error(t, err)
}

func TestServeWebSocket_RejectsMissingAndBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler()

	r := gin.New()
	r.GET("/ws", h.ServeWebSocket)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws?token=garbage", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBearerToken_Sources(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/ws?token=from-query", nil)
	assert.Equal(t, "from-query", bearerToken(c))

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/ws", nil)
	c.Request.Header.Set("Authorization", "Bearer from-header")
	assert.Equal(t, "from-header", bearerToken(c))

	// Header wins over the query parameter.
	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/ws?token=from-query", nil)
	c.Request.Header.Set("Authorization", "Bearer from-header")
	assert.Equal(t, "from-header", bearerToken(c))
}
