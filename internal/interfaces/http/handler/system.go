package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lalajet/backend/internal/application/quoting"
	"github.com/lalajet/backend/internal/interfaces/http/dto"
)

// SystemHandler handles health and sync status endpoints
type SystemHandler struct {
	BaseHandler
	sync    *quoting.SyncService
	appName string
	version string
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(syncService *quoting.SyncService, appName, version string) *SystemHandler {
	return &SystemHandler{sync: syncService, appName: appName, version: version}
}

// Health reports process liveness
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	h.Success(c, gin.H{
		"status":  "ok",
		"app":     h.appName,
		"version": h.version,
	})
}

// SyncStatus returns the convergence engine's health
// GET /api/v1/sync/status
func (h *SystemHandler) SyncStatus(c *gin.Context) {
	h.Success(c, h.sync.Status(c.Request.Context()))
}

// SyncRetry repeats the remote bootstrap after a degraded start
// POST /api/v1/sync/retry
func (h *SystemHandler) SyncRetry(c *gin.Context) {
	if err := h.sync.Retry(c.Request.Context()); err != nil {
		h.Error(c, http.StatusBadGateway, dto.ErrCodeSyncFailed, err.Error())
		return
	}
	h.Success(c, h.sync.Status(c.Request.Context()))
}

// SyncFlush pushes all pending local changes without waiting out the
// debounce
// POST /api/v1/sync/flush
func (h *SystemHandler) SyncFlush(c *gin.Context) {
	if err := h.sync.Flush(c.Request.Context()); err != nil {
		h.Error(c, http.StatusBadGateway, dto.ErrCodeSyncFailed, err.Error())
		return
	}
	h.Success(c, h.sync.Status(c.Request.Context()))
}

// RegisterRoutes registers sync routes on the given group
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/sync/status", h.SyncStatus)
	rg.POST("/sync/retry", h.SyncRetry)
	rg.POST("/sync/flush", h.SyncFlush)
}
