package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"

	"tokopos/internal/core/apperror"
	"tokopos/internal/domain/sale"
)

// SaleRepository implements sale.Repository on the embedded store.
type SaleRepository struct {
	txm *TxManager
}

func NewSaleRepository(txm *TxManager) *SaleRepository {
	return &SaleRepository{txm: txm}
}

// CountOnDay counts transactions whose tanggal falls on the given
// calendar day (formatted 2006-01-02). Invoice sequencing reads this
// inside the commit transaction.
func (r *SaleRepository) CountOnDay(ctx context.Context, day string) (int, error) {
	q := r.txm.GetQuerier(ctx)

	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transaksi WHERE date(tanggal) = ?`, day).Scan(&n)
	if err != nil {
		return 0, apperror.NewDatabase(fmt.Errorf("count transaksi on day: %w", err))
	}
	return n, nil
}

func (r *SaleRepository) Insert(ctx context.Context, t *sale.Transaction) error {
	q := r.txm.GetQuerier(ctx)

	query, args, err := sq.Insert("transaksi").
		Columns("no_faktur", "tanggal", "total").
		Values(t.Faktur, t.Tanggal, t.Total).
		ToSql()
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("build insert transaksi: %w", err))
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("insert transaksi: %w", err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("insert transaksi id: %w", err))
	}
	t.ID = id
	return nil
}

func (r *SaleRepository) InsertDetail(ctx context.Context, d *sale.Detail) error {
	q := r.txm.GetQuerier(ctx)

	query, args, err := sq.Insert("detail_transaksi").
		Columns("transaksi_id", "produk_nama", "jumlah", "harga", "diskon", "subtotal").
		Values(d.TransactionID, d.ProdukNama, d.Jumlah, d.Harga, d.Diskon, d.Subtotal).
		ToSql()
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("build insert detail: %w", err))
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("insert detail: %w", err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("insert detail id: %w", err))
	}
	d.ID = id
	return nil
}

func (r *SaleRepository) GetByID(ctx context.Context, id int64) (*sale.Transaction, error) {
	q := r.txm.GetQuerier(ctx)

	var t sale.Transaction
	err := sqlscan.Get(ctx, q, &t,
		`SELECT id, no_faktur, tanggal, total FROM transaksi WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NewNotFound("transaksi", fmt.Sprintf("%d", id))
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get transaksi: %w", err))
	}
	return &t, nil
}

// DeleteAll wipes sales history. Detail rows go first so the foreign
// key on detail_transaksi never dangles.
func (r *SaleRepository) DeleteAll(ctx context.Context) error {
	q := r.txm.GetQuerier(ctx)

	if _, err := q.ExecContext(ctx, `DELETE FROM detail_transaksi`); err != nil {
		return apperror.NewDatabase(fmt.Errorf("delete detail_transaksi: %w", err))
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM transaksi`); err != nil {
		return apperror.NewDatabase(fmt.Errorf("delete transaksi: %w", err))
	}
	return nil
}
