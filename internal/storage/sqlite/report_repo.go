package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/georgysavva/scany/v2/sqlscan"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/types"
	"tokopos/internal/domain/catalog"
	"tokopos/internal/domain/reports"
	"tokopos/internal/domain/sale"
)

const saleRowQuery = `
	SELECT t.id AS transaksi_id, t.no_faktur, t.tanggal, t.total,
	       d.produk_nama, d.jumlah, d.harga, d.diskon, d.subtotal
	FROM transaksi t
	JOIN detail_transaksi d ON d.transaksi_id = t.id`

// ReportRepository implements reports.Repository on the embedded store.
type ReportRepository struct {
	txm *TxManager
}

func NewReportRepository(txm *TxManager) *ReportRepository {
	return &ReportRepository{txm: txm}
}

func (r *ReportRepository) SalesOnDay(ctx context.Context, day string) ([]reports.SaleRow, error) {
	q := r.txm.GetQuerier(ctx)

	rows := []reports.SaleRow{}
	err := sqlscan.Select(ctx, q, &rows,
		saleRowQuery+` WHERE date(t.tanggal) = ? ORDER BY t.tanggal DESC, t.id DESC, d.id`, day)
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("sales on day: %w", err))
	}
	return rows, nil
}

func (r *ReportRepository) SalesBetween(ctx context.Context, start, end string) ([]reports.SaleRow, error) {
	q := r.txm.GetQuerier(ctx)

	rows := []reports.SaleRow{}
	err := sqlscan.Select(ctx, q, &rows,
		saleRowQuery+` WHERE date(t.tanggal) >= ? AND date(t.tanggal) <= ? ORDER BY t.tanggal DESC, t.id DESC, d.id`,
		start, end)
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("sales between: %w", err))
	}
	return rows, nil
}

func (r *ReportRepository) SummaryBetween(ctx context.Context, start, end string) (reports.Summary, error) {
	q := r.txm.GetQuerier(ctx)

	var (
		count int
		gross sql.NullFloat64
	)
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total), 0) FROM transaksi
		 WHERE date(tanggal) >= ? AND date(tanggal) <= ?`, start, end).Scan(&count, &gross)
	if err != nil {
		return reports.Summary{}, apperror.NewDatabase(fmt.Errorf("summary between: %w", err))
	}
	return reports.Summary{
		Transactions: count,
		Gross:        types.RoundMoney(types.NewMoney(gross.Float64)),
	}, nil
}

func (r *ReportRepository) LowStock(ctx context.Context, threshold int) ([]catalog.Product, error) {
	q := r.txm.GetQuerier(ctx)

	products := []catalog.Product{}
	err := sqlscan.Select(ctx, q, &products,
		`SELECT id, barcode, nama, harga, stok FROM produk
		 WHERE stok < ? ORDER BY stok, nama`, threshold)
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("low stock: %w", err))
	}
	return products, nil
}

func (r *ReportRepository) DetailsByTransaction(ctx context.Context, transaksiID int64) ([]sale.Detail, error) {
	q := r.txm.GetQuerier(ctx)

	details := []sale.Detail{}
	err := sqlscan.Select(ctx, q, &details,
		`SELECT id, transaksi_id, produk_nama, jumlah, harga, diskon, subtotal
		 FROM detail_transaksi WHERE transaksi_id = ? ORDER BY id`, transaksiID)
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("details by transaksi: %w", err))
	}
	return details, nil
}
