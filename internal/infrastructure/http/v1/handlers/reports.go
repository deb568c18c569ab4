package handlers

import (
	"github.com/gin-gonic/gin"

	"tokopos/internal/core/apperror"
	"tokopos/internal/domain/reports"
	"tokopos/internal/infrastructure/http/v1/dto"
	"tokopos/internal/settings"
)

// ReportsHandler handles report endpoints.
type ReportsHandler struct {
	*BaseHandler
	service  *reports.Service
	settings *settings.Store
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service, st *settings.Store) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service, settings: st}
}

// Today handles GET /reports/today
func (h *ReportsHandler) Today(c *gin.Context) {
	rows, sum, err := h.service.Today(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSalesReport(rows, sum))
}

// Range handles GET /reports/range?start=&end=
func (h *ReportsHandler) Range(c *gin.Context) {
	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		h.Error(c, apperror.NewValidation("parameter start dan end wajib diisi"))
		return
	}

	rows, sum, err := h.service.Range(c.Request.Context(), start, end)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSalesReport(rows, sum))
}

// LowStock handles GET /reports/low-stock?threshold=
// The configured low-stock minimum is the default threshold.
func (h *ReportsHandler) LowStock(c *gin.Context) {
	threshold := h.ParseIntQuery(c, "threshold", h.settings.Get().LowStockMin)

	products, err := h.service.LowStock(c.Request.Context(), threshold)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProducts(products))
}

// TransactionDetail handles GET /reports/transactions/:id
func (h *ReportsHandler) TransactionDetail(c *gin.Context) {
	id, ok := h.ParseIDParam(c)
	if !ok {
		return
	}

	detail, err := h.service.TransactionDetail(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromTransactionDetail(detail))
}
