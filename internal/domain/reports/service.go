package reports

import (
	"context"
	"time"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/types"
	"tokopos/internal/domain/catalog"
	"tokopos/internal/domain/sale"
)

// SaleDetail is a transaction header with its lines, as shown in the
// drill-down view.
type SaleDetail struct {
	Transaction sale.Transaction `json:"transaction"`
	Details     []sale.Detail    `json:"details"`
}

// Service answers the report queries. All methods are read-only.
type Service struct {
	repo  Repository
	sales sale.Repository
	now   func() time.Time
}

// NewService creates a new reports service.
func NewService(repo Repository, sales sale.Repository) *Service {
	return &Service{repo: repo, sales: sales, now: time.Now}
}

// Today returns the joined sale rows for the current calendar day plus
// the day's summary.
func (s *Service) Today(ctx context.Context) ([]SaleRow, Summary, error) {
	day := s.now().Format(types.DateLayout)

	rows, err := s.repo.SalesOnDay(ctx, day)
	if err != nil {
		return nil, Summary{}, err
	}
	sum, err := s.repo.SummaryBetween(ctx, day, day)
	if err != nil {
		return nil, Summary{}, err
	}
	return rows, sum, nil
}

// Range returns joined rows and the summary for an inclusive date
// range given in 2006-01-02 form.
func (s *Service) Range(ctx context.Context, start, end string) ([]SaleRow, Summary, error) {
	from, err := time.ParseInLocation(types.DateLayout, start, time.Local)
	if err != nil {
		return nil, Summary{}, apperror.NewValidation("tanggal awal tidak valid")
	}
	to, err := time.ParseInLocation(types.DateLayout, end, time.Local)
	if err != nil {
		return nil, Summary{}, apperror.NewValidation("tanggal akhir tidak valid")
	}
	if to.Before(from) {
		return nil, Summary{}, apperror.NewValidation("tanggal akhir sebelum tanggal awal")
	}

	rows, err := s.repo.SalesBetween(ctx, start, end)
	if err != nil {
		return nil, Summary{}, err
	}
	sum, err := s.repo.SummaryBetween(ctx, start, end)
	if err != nil {
		return nil, Summary{}, err
	}
	return rows, sum, nil
}

// LowStock lists products with stock strictly below the threshold.
func (s *Service) LowStock(ctx context.Context, threshold int) ([]catalog.Product, error) {
	if threshold < 0 {
		return nil, apperror.NewValidation("batas stok tidak boleh negatif")
	}
	return s.repo.LowStock(ctx, threshold)
}

// TransactionDetail returns one transaction with all its lines.
func (s *Service) TransactionDetail(ctx context.Context, id int64) (*SaleDetail, error) {
	txn, err := s.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	details, err := s.repo.DetailsByTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SaleDetail{Transaction: *txn, Details: details}, nil
}
