package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/lalajet/backend/internal/application/quoting"
)

// ClientHandler handles client book endpoints
type ClientHandler struct {
	BaseHandler
	service *quoting.ClientService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(service *quoting.ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

// List returns every client
// GET /api/v1/clients
func (h *ClientHandler) List(c *gin.Context) {
	h.Success(c, h.service.List(c.Request.Context()))
}

// Get returns one client
// GET /api/v1/clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// Create creates a client
// POST /api/v1/clients
func (h *ClientHandler) Create(c *gin.Context) {
	var req quoting.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	client, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, client)
}

// Update replaces a client's fields
// PUT /api/v1/clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	var req quoting.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	client, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// Delete removes a client
// DELETE /api/v1/clients/:id
func (h *ClientHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers client routes on the given group
func (h *ClientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	clients := rg.Group("/clients")
	{
		clients.GET("", h.List)
		clients.POST("", h.Create)
		clients.GET("/:id", h.Get)
		clients.PUT("/:id", h.Update)
		clients.DELETE("/:id", h.Delete)
	}
}
