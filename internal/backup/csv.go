package backup

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/types"
	"tokopos/internal/domain/catalog"
	"tokopos/pkg/logger"
)

var csvHeader = []string{"id", "barcode", "nama", "harga", "stok"}

// ConfirmFunc decides whether an import row may overwrite an existing
// product whose name or price differs. A nil ConfirmFunc accepts all
// overwrites.
type ConfirmFunc func(existing, incoming catalog.Product) bool

// ImportSummary reports what an import did.
type ImportSummary struct {
	Created int
	Updated int
	Skipped int
}

// ExportCatalogCSV writes the full catalog to a stamped file in the
// export directory and returns its path.
func (s *Service) ExportCatalogCSV(ctx context.Context) (string, error) {
	products, err := s.products.ListAll(ctx)
	if err != nil {
		return "", err
	}

	stamp := s.now().Format(types.FileStampLayout)
	path := filepath.Join(s.exportDir, fmt.Sprintf("produk_export_%s.csv", stamp))

	f, err := os.Create(path)
	if err != nil {
		return "", apperror.NewInternal(fmt.Errorf("create export: %w", err))
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return "", apperror.NewInternal(fmt.Errorf("write header: %w", err))
	}
	for i := range products {
		p := &products[i]
		rec := []string{
			strconv.FormatInt(p.ID, 10),
			p.Barcode,
			p.Nama,
			p.Harga.String(),
			strconv.Itoa(p.Stok),
		}
		if err := w.Write(rec); err != nil {
			return "", apperror.NewInternal(fmt.Errorf("write row: %w", err))
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", apperror.NewInternal(fmt.Errorf("flush export: %w", err))
	}

	logger.Info(ctx, "catalog exported", "path", path, "rows", len(products))
	return path, nil
}

// ImportCatalogCSV reads a catalog file and upserts each row by
// barcode. Rows that would change an existing product's name or price
// go through confirm first; a refusal skips the row. The whole import
// is one unit of work.
func (s *Service) ImportCatalogCSV(ctx context.Context, path string, confirm ConfirmFunc) (*ImportSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperror.NewNotFound("file import", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, apperror.NewValidation("file CSV tidak valid: " + err.Error())
	}
	if len(records) == 0 {
		return nil, apperror.NewValidation("file CSV kosong")
	}

	// Header row is optional; skip it when the first cell is not
	// numeric.
	rows := records
	if _, err := strconv.ParseInt(records[0][0], 10, 64); err != nil {
		rows = records[1:]
	}

	summary := &ImportSummary{}
	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		for i, rec := range rows {
			p, err := parseCSVRow(rec)
			if err != nil {
				return apperror.NewValidation(fmt.Sprintf("baris %d: %v", i+1, err))
			}

			existing, err := s.products.FindByBarcode(ctx, p.Barcode)
			if err != nil {
				return err
			}

			if existing == nil {
				p.ID = 0
				if err := s.products.Create(ctx, &p); err != nil {
					return err
				}
				summary.Created++
				continue
			}

			changed := !existing.Harga.Equal(p.Harga) || existing.Nama != p.Nama
			if changed && confirm != nil && !confirm(*existing, p) {
				summary.Skipped++
				continue
			}

			p.ID = existing.ID
			if err := s.products.Update(ctx, &p); err != nil {
				return err
			}
			summary.Updated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "catalog imported",
		"path", path, "created", summary.Created, "updated", summary.Updated, "skipped", summary.Skipped)
	return summary, nil
}

func parseCSVRow(rec []string) (catalog.Product, error) {
	if len(rec) < len(csvHeader) {
		return catalog.Product{}, fmt.Errorf("kolom kurang dari %d", len(csvHeader))
	}

	harga, err := types.MoneyFromString(rec[3])
	if err != nil {
		return catalog.Product{}, fmt.Errorf("harga tidak valid: %s", rec[3])
	}
	stok, err := strconv.Atoi(rec[4])
	if err != nil || stok < 0 {
		return catalog.Product{}, fmt.Errorf("stok tidak valid: %s", rec[4])
	}
	if rec[1] == "" {
		return catalog.Product{}, fmt.Errorf("barcode kosong")
	}
	if rec[2] == "" {
		return catalog.Product{}, fmt.Errorf("nama kosong")
	}

	return catalog.Product{
		Barcode: rec[1],
		Nama:    rec[2],
		Harga:   types.RoundMoney(harga),
		Stok:    stok,
	}, nil
}
