package dto

import (
	"tokopos/internal/backup"
	"tokopos/internal/settings"
)

// SettingsPayload mirrors the settings store for get/update.
type SettingsPayload struct {
	ShopName    string   `json:"shop_name" binding:"required"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone"`
	Footer      []string `json:"footer"`
	LowStockMin int      `json:"low_stock_min" binding:"required"`
}

// ToSettings converts the payload to the domain form.
func (p *SettingsPayload) ToSettings() settings.Settings {
	return settings.Settings{
		ShopName:    p.ShopName,
		Address:     p.Address,
		Phone:       p.Phone,
		Footer:      p.Footer,
		LowStockMin: p.LowStockMin,
	}
}

// FromSettings maps settings to the wire view.
func FromSettings(s settings.Settings) SettingsPayload {
	return SettingsPayload{
		ShopName:    s.ShopName,
		Address:     s.Address,
		Phone:       s.Phone,
		Footer:      s.Footer,
		LowStockMin: s.LowStockMin,
	}
}

// BackupResponse reports a snapshot.
type BackupResponse struct {
	Path string `json:"path"`
}

// ImportRequest names the CSV to import. Force skips the overwrite
// confirmation.
type ImportRequest struct {
	Path  string `json:"path" binding:"required"`
	Force bool   `json:"force"`
}

// ImportResponse summarizes an import.
type ImportResponse struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// FromImportSummary maps an import summary to the wire view.
func FromImportSummary(s *backup.ImportSummary) ImportResponse {
	return ImportResponse{Created: s.Created, Updated: s.Updated, Skipped: s.Skipped}
}
