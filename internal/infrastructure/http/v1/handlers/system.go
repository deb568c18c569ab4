package handlers

import (
	"github.com/gin-gonic/gin"

	"tokopos/internal/backup"
	"tokopos/internal/domain/catalog"
	"tokopos/internal/domain/sale"
	"tokopos/internal/infrastructure/http/v1/dto"
	"tokopos/internal/settings"
)

// SystemHandler handles settings, backup, CSV exchange and history
// maintenance. All routes are admin-only.
type SystemHandler struct {
	*BaseHandler
	backups   *backup.Service
	settings  *settings.Store
	processor *sale.Processor
}

// NewSystemHandler creates a new system handler.
func NewSystemHandler(base *BaseHandler, backups *backup.Service, st *settings.Store, processor *sale.Processor) *SystemHandler {
	return &SystemHandler{
		BaseHandler: base,
		backups:     backups,
		settings:    st,
		processor:   processor,
	}
}

// GetSettings handles GET /settings
func (h *SystemHandler) GetSettings(c *gin.Context) {
	h.OK(c, dto.FromSettings(h.settings.Get()))
}

// UpdateSettings handles PUT /settings
func (h *SystemHandler) UpdateSettings(c *gin.Context) {
	var req dto.SettingsPayload
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.settings.Update(req.ToSettings()); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSettings(h.settings.Get()))
}

// Backup handles POST /system/backup
func (h *SystemHandler) Backup(c *gin.Context) {
	path, err := h.backups.Backup(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.BackupResponse{Path: path})
}

// ListBackups handles GET /system/backups
func (h *SystemHandler) ListBackups(c *gin.Context) {
	paths, err := h.backups.ListBackups()
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, paths)
}

// ExportCSV handles POST /system/export
func (h *SystemHandler) ExportCSV(c *gin.Context) {
	path, err := h.backups.ExportCatalogCSV(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.BackupResponse{Path: path})
}

// ImportCSV handles POST /system/import. Without force, rows that
// would change an existing product are skipped; the client reviews the
// summary and re-submits with force to apply them.
func (h *SystemHandler) ImportCSV(c *gin.Context) {
	var req dto.ImportRequest
	if !h.BindJSON(c, &req) {
		return
	}

	var confirm backup.ConfirmFunc
	if !req.Force {
		confirm = func(_, _ catalog.Product) bool { return false }
	}

	summary, err := h.backups.ImportCatalogCSV(c.Request.Context(), req.Path, confirm)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromImportSummary(summary))
}

// ResetHistory handles POST /system/reset-history
func (h *SystemHandler) ResetHistory(c *gin.Context) {
	if err := h.processor.ResetHistory(c.Request.Context()); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "riwayat transaksi dihapus")
}
