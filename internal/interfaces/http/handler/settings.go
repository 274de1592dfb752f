package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/lalajet/backend/internal/application/quoting"
	"github.com/lalajet/backend/internal/domain/settings"
)

// SettingsHandler handles the settings singleton endpoints
type SettingsHandler struct {
	BaseHandler
	service *quoting.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(service *quoting.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get returns the settings profile
// GET /api/v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	h.Success(c, h.service.Get(c.Request.Context()))
}

// Update replaces the settings profile
// PUT /api/v1/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var p settings.Profile
	if err := c.ShouldBindJSON(&p); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	updated, err := h.service.Update(c.Request.Context(), &p)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// RegisterRoutes registers settings routes on the given group
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/settings", h.Get)
	rg.PUT("/settings", h.Update)
}
