package handlers

import (
	"github.com/gin-gonic/gin"

	"tokopos/internal/domain/audit"
)

// AuditHandler handles activity log queries.
type AuditHandler struct {
	*BaseHandler
	service *audit.Service
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(base *BaseHandler, service *audit.Service) *AuditHandler {
	return &AuditHandler{BaseHandler: base, service: service}
}

// Search handles GET /audit?username=&q=&start=&end=&limit= (admin)
func (h *AuditHandler) Search(c *gin.Context) {
	q := audit.Query{
		Username:  c.Query("username"),
		Keyword:   c.Query("q"),
		StartDate: c.Query("start"),
		EndDate:   c.Query("end"),
		Limit:     h.ParseIntQuery(c, "limit", 100),
	}

	entries, err := h.service.Search(c.Request.Context(), q)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entries)
}
