package handlers

import (
	"github.com/gin-gonic/gin"

	"tokopos/internal/core/apperror"
	"tokopos/internal/domain/catalog"
	"tokopos/internal/infrastructure/http/v1/dto"
)

// ProductHandler handles catalog endpoints.
type ProductHandler struct {
	*BaseHandler
	service *catalog.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, service *catalog.Service) *ProductHandler {
	return &ProductHandler{BaseHandler: base, service: service}
}

// List handles GET /products?q=
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProducts(products))
}

// Get handles GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProduct(p))
}

// Scan handles GET /products/scan/:barcode
func (h *ProductHandler) Scan(c *gin.Context) {
	barcode := c.Param("barcode")

	p, err := h.service.FindByBarcode(c.Request.Context(), barcode)
	if err != nil {
		h.Error(c, err)
		return
	}
	if p == nil {
		h.Error(c, apperror.NewNotFound("produk", barcode))
		return
	}
	h.OK(c, dto.FromProduct(p))
}

// Create handles POST /products (admin)
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := req.ToProduct()
	if err != nil {
		h.Error(c, apperror.NewValidation("harga tidak valid"))
		return
	}

	if err := h.service.Create(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p.ID)
}

// Update handles PUT /products/:id (admin)
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	var req dto.ProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := req.ToProduct()
	if err != nil {
		h.Error(c, apperror.NewValidation("harga tidak valid"))
		return
	}
	p.ID = id

	if err := h.service.Update(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "produk diperbarui")
}

// Delete handles DELETE /products/:id (admin)
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// AdjustStock handles POST /products/:id/stock (admin)
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	var req dto.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.AdjustStock(c.Request.Context(), id, req.Delta); err != nil {
		h.Error(c, err)
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProduct(p))
}

// SetStock handles PUT /products/:id/stock (admin)
func (h *ProductHandler) SetStock(c *gin.Context) {
	id, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	var req dto.SetStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetStock(c.Request.Context(), id, req.Stok); err != nil {
		h.Error(c, err)
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProduct(p))
}
