package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lalajet/backend/internal/infrastructure/auth"
	"github.com/lalajet/backend/internal/infrastructure/config"
)

func sessionRouter(t *testing.T, expiration time.Duration) (*gin.Engine, *auth.SessionService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	sessions := auth.NewSessionService(config.AuthConfig{
		JWTSecret:         "test-secret-key-at-least-32-bytes!",
		SessionExpiration: expiration,
		Issuer:            "lalajet-backend",
	})

	router := gin.New()
	router.Use(Session(sessions))
	router.GET("/probe", func(c *gin.Context) {
		claims, ok := GetSessionClaims(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"session_id": claims.SessionID})
	})
	return router, sessions
}

func TestSession_ValidToken(t *testing.T) {
	router, sessions := sessionRouter(t, time.Hour)
	session, err := sessions.Issue()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), session.SessionID)
}

func TestSession_MissingHeader(t *testing.T) {
	router, _ := sessionRouter(t, time.Hour)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSession_MalformedHeader(t *testing.T) {
	router, sessions := sessionRouter(t, time.Hour)
	session, err := sessions.Issue()
	require.NoError(t, err)

	for _, header := range []string{"Bearer", "Bearer ", "Token " + session.Token, session.Token} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("Authorization", header)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
	}
}

func TestSession_ExpiredToken(t *testing.T) {
	router, sessions := sessionRouter(t, -time.Minute)
	session, err := sessions.Issue()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_TOKEN_EXPIRED")
}

func TestSession_GarbageToken(t *testing.T) {
	router, _ := sessionRouter(t, time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_TOKEN_INVALID")
}
