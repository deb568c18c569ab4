package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"

	"tokopos/internal/core/apperror"
	"tokopos/internal/domain/catalog"
)

// isUniqueViolation reports whether err is a UNIQUE constraint failure
// from the driver.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ProductRepository implements catalog.Repository on the embedded store.
type ProductRepository struct {
	txm *TxManager
}

func NewProductRepository(txm *TxManager) *ProductRepository {
	return &ProductRepository{txm: txm}
}

func (r *ProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	q := r.txm.GetQuerier(ctx)

	query, args, err := sq.Insert("produk").
		Columns("barcode", "nama", "harga", "stok").
		Values(p.Barcode, p.Nama, p.Harga, p.Stok).
		ToSql()
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("build insert produk: %w", err))
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("produk", "barcode", p.Barcode)
		}
		return apperror.NewDatabase(fmt.Errorf("insert produk: %w", err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("insert produk id: %w", err))
	}
	p.ID = id
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *catalog.Product) error {
	q := r.txm.GetQuerier(ctx)

	query, args, err := sq.Update("produk").
		Set("barcode", p.Barcode).
		Set("nama", p.Nama).
		Set("harga", p.Harga).
		Set("stok", p.Stok).
		Where(sq.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("build update produk: %w", err))
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("produk", "barcode", p.Barcode)
		}
		return apperror.NewDatabase(fmt.Errorf("update produk: %w", err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("produk", fmt.Sprintf("%d", p.ID))
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	q := r.txm.GetQuerier(ctx)

	res, err := q.ExecContext(ctx, `DELETE FROM produk WHERE id = ?`, id)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("delete produk: %w", err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("produk", fmt.Sprintf("%d", id))
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*catalog.Product, error) {
	q := r.txm.GetQuerier(ctx)

	var p catalog.Product
	err := sqlscan.Get(ctx, q, &p,
		`SELECT id, barcode, nama, harga, stok FROM produk WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NewNotFound("produk", fmt.Sprintf("%d", id))
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get produk: %w", err))
	}
	return &p, nil
}

func (r *ProductRepository) FindByBarcode(ctx context.Context, barcode string) (*catalog.Product, error) {
	q := r.txm.GetQuerier(ctx)

	var p catalog.Product
	err := sqlscan.Get(ctx, q, &p,
		`SELECT id, barcode, nama, harga, stok FROM produk WHERE barcode = ?`, barcode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.NewDatabase(fmt.Errorf("find produk by barcode: %w", err))
	}
	return &p, nil
}

func (r *ProductRepository) SearchByName(ctx context.Context, keyword string) ([]catalog.Product, error) {
	q := r.txm.GetQuerier(ctx)

	products := []catalog.Product{}
	err := sqlscan.Select(ctx, q, &products,
		`SELECT id, barcode, nama, harga, stok FROM produk
		 WHERE nama LIKE ? ORDER BY nama`, "%"+keyword+"%")
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("search produk: %w", err))
	}
	return products, nil
}

func (r *ProductRepository) ListAll(ctx context.Context) ([]catalog.Product, error) {
	q := r.txm.GetQuerier(ctx)

	products := []catalog.Product{}
	err := sqlscan.Select(ctx, q, &products,
		`SELECT id, barcode, nama, harga, stok FROM produk ORDER BY nama`)
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("list produk: %w", err))
	}
	return products, nil
}

func (r *ProductRepository) AdjustStock(ctx context.Context, id int64, delta int) error {
	q := r.txm.GetQuerier(ctx)

	res, err := q.ExecContext(ctx,
		`UPDATE produk SET stok = stok + ? WHERE id = ? AND stok + ? >= 0`, delta, id, delta)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("adjust stok: %w", err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		p, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return getErr
		}
		return apperror.NewInsufficientStock(p.Nama, -delta, p.Stok)
	}
	return nil
}

func (r *ProductRepository) SetStock(ctx context.Context, id int64, stok int) error {
	if stok < 0 {
		return apperror.NewValidation("stok tidak boleh negatif")
	}
	q := r.txm.GetQuerier(ctx)

	res, err := q.ExecContext(ctx, `UPDATE produk SET stok = ? WHERE id = ?`, stok, id)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("set stok: %w", err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("produk", fmt.Sprintf("%d", id))
	}
	return nil
}

// DecrementStock subtracts qty from the product's stock only when
// enough stock remains. The guard lives in the UPDATE itself so the
// check and the write are one statement.
func (r *ProductRepository) DecrementStock(ctx context.Context, id int64, qty int) error {
	if qty <= 0 {
		return apperror.NewValidation("jumlah harus lebih dari nol")
	}
	q := r.txm.GetQuerier(ctx)

	res, err := q.ExecContext(ctx,
		`UPDATE produk SET stok = stok - ? WHERE id = ? AND stok >= ?`, qty, id, qty)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("decrement stok: %w", err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		p, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return getErr
		}
		return apperror.NewInsufficientStock(p.Nama, qty, p.Stok)
	}
	return nil
}
