// Package settings stores shop configuration in a JSON file under the
// data directory.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"tokopos/internal/core/apperror"
)

// FileName of the settings store under the data directory.
const FileName = "settings.json"

// Settings is the shop configuration printed on receipts and shown in
// the application header.
type Settings struct {
	ShopName    string   `json:"shop_name"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone"`
	Footer      []string `json:"footer"`
	LowStockMin int      `json:"low_stock_min"`
}

// Defaults returns the settings written on first run.
func Defaults() Settings {
	return Settings{
		ShopName:    "Toko POS",
		Address:     "Jl. Contoh No. 1",
		Phone:       "-",
		Footer:      []string{"Terima kasih atas kunjungan Anda"},
		LowStockMin: 5,
	}
}

// Store reads and writes the settings file. Reads are served from an
// in-memory copy; writes go through to disk.
type Store struct {
	mu      sync.RWMutex
	path    string
	current Settings
}

// NewStore opens (or creates with defaults) the settings file under
// dataDir.
func NewStore(dataDir string) (*Store, error) {
	s := &Store{path: filepath.Join(dataDir, FileName)}

	raw, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.current = Defaults()
		if err := s.flush(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, apperror.NewInternal(fmt.Errorf("read settings: %w", err))
	default:
		if err := json.Unmarshal(raw, &s.current); err != nil {
			return nil, apperror.NewValidation("settings.json rusak: " + err.Error())
		}
		if s.current.LowStockMin <= 0 {
			s.current.LowStockMin = Defaults().LowStockMin
		}
	}
	return s, nil
}

// Get returns the current settings.
func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update validates and persists new settings.
func (s *Store) Update(next Settings) error {
	if next.ShopName == "" {
		return apperror.NewValidation("nama toko wajib diisi")
	}
	if next.LowStockMin <= 0 {
		return apperror.NewValidation("batas stok rendah harus lebih dari nol")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = next
	return s.flush()
}

func (s *Store) flush() error {
	raw, err := json.MarshalIndent(s.current, "", "  ")
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("encode settings: %w", err))
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return apperror.NewInternal(fmt.Errorf("write settings: %w", err))
	}
	return nil
}
