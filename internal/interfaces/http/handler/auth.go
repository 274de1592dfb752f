package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lalajet/backend/internal/infrastructure/auth"
	"github.com/lalajet/backend/internal/interfaces/http/dto"
)

// AuthHandler handles the access gate
type AuthHandler struct {
	BaseHandler
	gate     *auth.Gate
	sessions *auth.SessionService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(gate *auth.Gate, sessions *auth.SessionService) *AuthHandler {
	return &AuthHandler{gate: gate, sessions: sessions}
}

// LoginRequest carries the shared access code
type LoginRequest struct {
	AccessCode string `json:"accessCode" binding:"required"`
}

// Login verifies the access code and issues a session token
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.gate.Verify(req.AccessCode); err != nil {
		if errors.Is(err, auth.ErrAccessDenied) {
			h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Invalid access code")
			return
		}
		h.HandleError(c, err)
		return
	}

	session, err := h.sessions.Issue()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// RegisterRoutes registers auth routes on the given group
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
}
