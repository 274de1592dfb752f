package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/lalajet/backend/internal/application/quoting"
)

// QuoteHandler handles quote archive and active-quote endpoints
type QuoteHandler struct {
	BaseHandler
	service *quoting.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(service *quoting.QuoteService) *QuoteHandler {
	return &QuoteHandler{service: service}
}

// List returns every saved quote
// GET /api/v1/quotes
func (h *QuoteHandler) List(c *gin.Context) {
	h.Success(c, h.service.List(c.Request.Context()))
}

// Get returns one saved quote
// GET /api/v1/quotes/:id
func (h *QuoteHandler) Get(c *gin.Context) {
	q, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// Delete removes a saved quote
// DELETE /api/v1/quotes/:id
func (h *QuoteHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Accept marks a saved quote as accepted
// POST /api/v1/quotes/:id/accept
func (h *QuoteHandler) Accept(c *gin.Context) {
	q, err := h.service.Accept(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// Archive marks a saved quote as archived
// POST /api/v1/quotes/:id/archive
func (h *QuoteHandler) Archive(c *gin.Context) {
	q, err := h.service.Archive(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// Active returns the quote open in the editor
// GET /api/v1/quotes/active
func (h *QuoteHandler) Active(c *gin.Context) {
	h.Success(c, h.service.Active(c.Request.Context()))
}

// ReplaceActive swaps the editor's working quote
// PUT /api/v1/quotes/active
func (h *QuoteHandler) ReplaceActive(c *gin.Context) {
	var req quoting.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	resp, err := h.service.ReplaceActive(c.Request.Context(), req.ToQuote())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// NewActive opens a fresh draft
// POST /api/v1/quotes/active/new
func (h *QuoteHandler) NewActive(c *gin.Context) {
	h.Success(c, h.service.NewActive(c.Request.Context()))
}

// Open loads a saved quote into the editor
// POST /api/v1/quotes/:id/open
func (h *QuoteHandler) Open(c *gin.Context) {
	q, err := h.service.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// SaveActive persists the editor's working quote into the archive
// POST /api/v1/quotes/active/save
func (h *QuoteHandler) SaveActive(c *gin.Context) {
	q, err := h.service.SaveActive(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// ImportItem appends a catalog item to the active quote
// POST /api/v1/quotes/active/items
func (h *QuoteHandler) ImportItem(c *gin.Context) {
	var req quoting.ImportItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	q, err := h.service.ImportItem(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// RegisterRoutes registers quote routes on the given group
func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	{
		quotes.GET("", h.List)
		quotes.GET("/active", h.Active)
		quotes.PUT("/active", h.ReplaceActive)
		quotes.POST("/active/new", h.NewActive)
		quotes.POST("/active/save", h.SaveActive)
		quotes.POST("/active/items", h.ImportItem)
		quotes.GET("/:id", h.Get)
		quotes.DELETE("/:id", h.Delete)
		quotes.POST("/:id/open", h.Open)
		quotes.POST("/:id/accept", h.Accept)
		quotes.POST("/:id/archive", h.Archive)
	}
}
