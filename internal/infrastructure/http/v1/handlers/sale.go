package handlers

import (
	"sync"

	"github.com/gin-gonic/gin"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/session"
	"tokopos/internal/core/types"
	"tokopos/internal/domain/cart"
	"tokopos/internal/domain/catalog"
	"tokopos/internal/domain/pending"
	"tokopos/internal/domain/sale"
	"tokopos/internal/infrastructure/http/v1/dto"
)

// SaleHandler drives the single working cart of the terminal: item
// entry, checkout, payment and the pending queue. A mutex serializes
// cart access; the terminal has one register.
type SaleHandler struct {
	*BaseHandler
	mu        sync.Mutex
	cart      *cart.Cart
	queue     *pending.Queue
	processor *sale.Processor
	catalog   *catalog.Service
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(base *BaseHandler, c *cart.Cart, queue *pending.Queue, processor *sale.Processor, cat *catalog.Service) *SaleHandler {
	return &SaleHandler{
		BaseHandler: base,
		cart:        c,
		queue:       queue,
		processor:   processor,
		catalog:     cat,
	}
}

// GetCart handles GET /cart
func (h *SaleHandler) GetCart(c *gin.Context) {
	h.mu.Lock()
	resp := dto.FromCart(h.cart)
	h.mu.Unlock()
	h.OK(c, resp)
}

// AddItem handles POST /cart/items
func (h *SaleHandler) AddItem(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.AddItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if req.Qty <= 0 {
		req.Qty = 1
	}

	productID := req.ProductID
	if productID == 0 && req.Barcode != "" {
		p, err := h.catalog.FindByBarcode(ctx, req.Barcode)
		if err != nil {
			h.Error(c, err)
			return
		}
		if p == nil {
			h.Error(c, apperror.NewNotFound("produk", req.Barcode))
			return
		}
		productID = p.ID
	}
	if productID == 0 {
		h.Error(c, apperror.NewValidation("product_id atau barcode wajib diisi"))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.cart.Kasir = session.Username(ctx)
	if err := h.cart.AddProduct(ctx, productID, req.Qty); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCart(h.cart))
}

// SetQuantity handles PUT /cart/items/:id
func (h *SaleHandler) SetQuantity(c *gin.Context) {
	productID, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	var req dto.SetQuantityRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.cart.SetLineQuantity(c.Request.Context(), productID, req.Qty); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCart(h.cart))
}

// SetDiscount handles PUT /cart/items/:id/discount
func (h *SaleHandler) SetDiscount(c *gin.Context) {
	productID, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	var req dto.SetDiscountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	diskon, err := types.MoneyFromString(req.Diskon)
	if err != nil {
		h.Error(c, apperror.NewValidation("diskon tidak valid"))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.cart.SetLineDiscount(productID, diskon); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCart(h.cart))
}

// RemoveItem handles DELETE /cart/items/:id
func (h *SaleHandler) RemoveItem(c *gin.Context) {
	productID, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.cart.RemoveLine(productID); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCart(h.cart))
}

// ClearCart handles DELETE /cart
func (h *SaleHandler) ClearCart(c *gin.Context) {
	h.mu.Lock()
	h.cart.Reset()
	resp := dto.FromCart(h.cart)
	h.mu.Unlock()
	h.OK(c, resp)
}

// Checkout handles POST /cart/checkout
func (h *SaleHandler) Checkout(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.cart.Checkout(); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCart(h.cart))
}

// Reopen handles POST /cart/reopen
func (h *SaleHandler) Reopen(c *gin.Context) {
	h.mu.Lock()
	h.cart.Reopen()
	resp := dto.FromCart(h.cart)
	h.mu.Unlock()
	h.OK(c, resp)
}

// Pay handles POST /cart/pay
func (h *SaleHandler) Pay(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.PayRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tender, err := types.MoneyFromString(req.Tender)
	if err != nil {
		h.Error(c, apperror.NewValidation("jumlah bayar tidak valid"))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	res, err := h.processor.Commit(ctx, h.cart, tender)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSaleResult(res))
}

// Park handles POST /pending
func (h *SaleHandler) Park(c *gin.Context) {
	var req dto.ParkRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	snap, err := h.queue.Park(h.cart, req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.cart.Reset()
	h.OK(c, dto.FromSnapshot(snap))
}

// ListPending handles GET /pending
func (h *SaleHandler) ListPending(c *gin.Context) {
	snaps := h.queue.List()
	out := make([]dto.PendingResponse, 0, len(snaps))
	for i := range snaps {
		out = append(out, dto.FromSnapshot(&snaps[i]))
	}
	h.OK(c, out)
}

// Resume handles POST /pending/:id/resume. A non-empty working cart
// is parked back first so nothing is lost.
func (h *SaleHandler) Resume(c *gin.Context) {
	id, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cart.State() != cart.StateEmpty {
		if _, err := h.queue.Park(h.cart, "ditukar saat melanjutkan"); err != nil {
			h.Error(c, err)
			return
		}
		h.cart.Reset()
	}

	snap, err := h.queue.Resume(id)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.cart.Restore(snap.Lines, snap.Kasir)
	h.OK(c, dto.FromCart(h.cart))
}

// Discard handles DELETE /pending/:id
func (h *SaleHandler) Discard(c *gin.Context) {
	id, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	if err := h.queue.Discard(id); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
