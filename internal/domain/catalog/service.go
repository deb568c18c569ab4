package catalog

import (
	"context"
	"fmt"
	"strings"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/tx"
	"tokopos/internal/core/types"
	"tokopos/internal/domain/audit"
	"tokopos/pkg/logger"
)

// Auditor records catalog activity. Satisfied by audit.Service.
type Auditor interface {
	Append(ctx context.Context, aktivitas, detail string) error
}

// Service provides product master-data operations with validation and
// activity logging. Every mutation and its audit entry share one unit
// of work, so a product change is never visible without its log line.
type Service struct {
	txm  tx.Manager
	repo Repository
	aud  Auditor
}

// NewService creates a new catalog service.
func NewService(txm tx.Manager, repo Repository, aud Auditor) *Service {
	return &Service{txm: txm, repo: repo, aud: aud}
}

func validate(p *Product) error {
	p.Barcode = strings.TrimSpace(p.Barcode)
	p.Nama = strings.TrimSpace(p.Nama)

	if p.Barcode == "" {
		return apperror.NewValidation("barcode wajib diisi")
	}
	if p.Nama == "" {
		return apperror.NewValidation("nama produk wajib diisi")
	}
	if p.Harga.IsNegative() {
		return apperror.NewValidation("harga tidak boleh negatif")
	}
	if p.Stok < 0 {
		return apperror.NewValidation("stok tidak boleh negatif")
	}
	return nil
}

// Create validates and stores a new product. The barcode must be
// unique across the catalog.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if err := validate(p); err != nil {
		return err
	}
	p.Harga = types.RoundMoney(p.Harga)

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, p); err != nil {
			return err
		}
		return s.aud.Append(ctx, audit.ActivityAddProduct,
			fmt.Sprintf("produk=%s barcode=%s harga=%s stok=%d", p.Nama, p.Barcode, p.Harga.String(), p.Stok))
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "product created", "id", p.ID, "barcode", p.Barcode, "nama", p.Nama)
	return nil
}

// Update validates and stores changes to an existing product.
func (s *Service) Update(ctx context.Context, p *Product) error {
	if err := validate(p); err != nil {
		return err
	}
	p.Harga = types.RoundMoney(p.Harga)

	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, p); err != nil {
			return err
		}
		return s.aud.Append(ctx, audit.ActivityEditProduct,
			fmt.Sprintf("produk=%s barcode=%s harga=%s stok=%d", p.Nama, p.Barcode, p.Harga.String(), p.Stok))
	})
}

// Delete removes a product from the catalog. Historical sale details
// keep their copied name and price, so past reports are unaffected.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}

		return s.aud.Append(ctx, audit.ActivityDelProduct,
			fmt.Sprintf("produk=%s barcode=%s", p.Nama, p.Barcode))
	})
}

// AdjustStock applies a manual stock correction by delta.
func (s *Service) AdjustStock(ctx context.Context, id int64, delta int) error {
	if delta == 0 {
		return apperror.NewValidation("perubahan stok tidak boleh nol")
	}

	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.AdjustStock(ctx, id, delta); err != nil {
			return err
		}

		p, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return s.aud.Append(ctx, audit.ActivityStock,
			fmt.Sprintf("produk=%s delta=%+d stok=%d", p.Nama, delta, p.Stok))
	})
}

// SetStock overwrites a product's stock with an absolute value.
func (s *Service) SetStock(ctx context.Context, id int64, value int) error {
	if value < 0 {
		return apperror.NewValidation("stok tidak boleh negatif")
	}

	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.SetStock(ctx, id, value); err != nil {
			return err
		}

		p, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return s.aud.Append(ctx, audit.ActivityStock,
			fmt.Sprintf("produk=%s stok=%d", p.Nama, p.Stok))
	})
}

// GetByID returns a product or NOT_FOUND.
func (s *Service) GetByID(ctx context.Context, id int64) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

// FindByBarcode returns the product with the given barcode, or
// (nil, nil) when none exists.
func (s *Service) FindByBarcode(ctx context.Context, barcode string) (*Product, error) {
	return s.repo.FindByBarcode(ctx, strings.TrimSpace(barcode))
}

// Search lists products whose name contains the keyword. An empty
// keyword lists the whole catalog.
func (s *Service) Search(ctx context.Context, keyword string) ([]Product, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return s.repo.ListAll(ctx)
	}
	return s.repo.SearchByName(ctx, keyword)
}

// ListAll returns the full catalog ordered by name.
func (s *Service) ListAll(ctx context.Context) ([]Product, error) {
	return s.repo.ListAll(ctx)
}
