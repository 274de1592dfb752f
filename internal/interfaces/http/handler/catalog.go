package handler

import (
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lalajet/backend/internal/application/quoting"
)

// CatalogHandler handles catalog item endpoints
type CatalogHandler struct {
	BaseHandler
	service     *quoting.CatalogService
	maxBodySize int64
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(service *quoting.CatalogService, maxBodySize int64) *CatalogHandler {
	return &CatalogHandler{service: service, maxBodySize: maxBodySize}
}

// List returns every catalog item
// GET /api/v1/catalog
func (h *CatalogHandler) List(c *gin.Context) {
	h.Success(c, h.service.List(c.Request.Context()))
}

// Get returns one catalog item
// GET /api/v1/catalog/:id
func (h *CatalogHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Create creates a catalog item
// POST /api/v1/catalog
func (h *CatalogHandler) Create(c *gin.Context) {
	var req quoting.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// Update replaces a catalog item's fields
// PUT /api/v1/catalog/:id
func (h *CatalogHandler) Update(c *gin.Context) {
	var req quoting.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	item, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete removes a catalog item
// DELETE /api/v1/catalog/:id
func (h *CatalogHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UploadImage stores a normalized image in the item's slot. The body is
// the raw image; multipart is accepted under the "image" field.
// POST /api/v1/catalog/:id/images/:slot
func (h *CatalogHandler) UploadImage(c *gin.Context) {
	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		h.BadRequest(c, "Invalid image slot")
		return
	}

	data, err := h.readImage(c)
	if err != nil {
		h.BadRequest(c, "Cannot read image: "+err.Error())
		return
	}

	item, err := h.service.UploadImage(c.Request.Context(), c.Param("id"), slot, data)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// ClearImage detaches the image in the slot
// DELETE /api/v1/catalog/:id/images/:slot
func (h *CatalogHandler) ClearImage(c *gin.Context) {
	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		h.BadRequest(c, "Invalid image slot")
		return
	}
	item, err := h.service.ClearImage(c.Request.Context(), c.Param("id"), slot)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

func (h *CatalogHandler) readImage(c *gin.Context) ([]byte, error) {
	if file, err := c.FormFile("image"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(io.LimitReader(f, h.maxBodySize))
	}
	return io.ReadAll(io.LimitReader(c.Request.Body, h.maxBodySize))
}

// RegisterRoutes registers catalog routes on the given group
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	catalog := rg.Group("/catalog")
	{
		catalog.GET("", h.List)
		catalog.POST("", h.Create)
		catalog.GET("/:id", h.Get)
		catalog.PUT("/:id", h.Update)
		catalog.DELETE("/:id", h.Delete)
		catalog.POST("/:id/images/:slot", h.UploadImage)
		catalog.DELETE("/:id/images/:slot", h.ClearImage)
	}
}
