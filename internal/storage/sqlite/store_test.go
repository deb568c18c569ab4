package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/types"
	"tokopos/internal/domain/catalog"
	"tokopos/internal/domain/sale"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestMigrate_Idempotent(t *testing.T) {
	s := openTestStore(t)

	// A second run must not fail or duplicate anything.
	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, s.Migrate(context.Background()))
}

func TestMigrate_BackfillsLegacyFaktur(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Simulate rows created before invoice numbering existed.
	_, err := s.DB().ExecContext(ctx,
		`INSERT INTO transaksi (tanggal, total, no_faktur) VALUES ('2020-01-01 10:00:00', 5000, '')`)
	require.NoError(t, err)

	require.NoError(t, s.Migrate(ctx))

	var faktur string
	err = s.DB().QueryRowContext(ctx, `SELECT no_faktur FROM transaksi`).Scan(&faktur)
	require.NoError(t, err)
	assert.Equal(t, "INV-OLD-00001", faktur)

	// Rows that already carry a number are left alone.
	require.NoError(t, s.Migrate(ctx))
	err = s.DB().QueryRowContext(ctx, `SELECT no_faktur FROM transaksi`).Scan(&faktur)
	require.NoError(t, err)
	assert.Equal(t, "INV-OLD-00001", faktur)
}

func TestProductRepository_CRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := NewProductRepository(s.TxManager())

	p := &catalog.Product{Barcode: "123", Nama: "Indomie", Harga: types.MustMoney("3500"), Stok: 10}
	require.NoError(t, repo.Create(ctx, p))
	require.NotZero(t, p.ID)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Indomie", got.Nama)
	assert.True(t, got.Harga.Equal(types.MustMoney("3500")))

	got.Nama = "Indomie Goreng"
	require.NoError(t, repo.Update(ctx, got))

	byBarcode, err := repo.FindByBarcode(ctx, "123")
	require.NoError(t, err)
	require.NotNil(t, byBarcode)
	assert.Equal(t, "Indomie Goreng", byBarcode.Nama)

	missing, err := repo.FindByBarcode(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.GetByID(ctx, p.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestProductRepository_DuplicateBarcode(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := NewProductRepository(s.TxManager())

	require.NoError(t, repo.Create(ctx, &catalog.Product{Barcode: "123", Nama: "A", Harga: types.MustMoney("1"), Stok: 1}))

	err := repo.Create(ctx, &catalog.Product{Barcode: "123", Nama: "B", Harga: types.MustMoney("2"), Stok: 2})
	assert.True(t, apperror.IsCode(err, apperror.CodeDuplicate))
}

func TestProductRepository_DecrementStockGuard(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := NewProductRepository(s.TxManager())

	p := &catalog.Product{Barcode: "1", Nama: "Teh", Harga: types.MustMoney("5000"), Stok: 3}
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, repo.DecrementStock(ctx, p.ID, 2))

	err := repo.DecrementStock(ctx, p.ID, 2)
	require.True(t, apperror.IsInsufficientStock(err))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stok)
}

func TestProductRepository_AdjustStockNeverNegative(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := NewProductRepository(s.TxManager())

	p := &catalog.Product{Barcode: "1", Nama: "Teh", Harga: types.MustMoney("5000"), Stok: 3}
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, repo.AdjustStock(ctx, p.ID, -3))
	err := repo.AdjustStock(ctx, p.ID, -1)
	assert.True(t, apperror.IsInsufficientStock(err))
}

func TestTxManager_RollbackDiscardsWrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	txm := s.TxManager()
	repo := NewSaleRepository(txm)

	wantErr := apperror.NewValidation("boom")
	err := txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := repo.Insert(ctx, &sale.Transaction{Faktur: "INV-X", Tanggal: "2025-01-01 10:00:00", Total: types.MustMoney("1000")}); err != nil {
			return err
		}
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)

	n, err := repo.CountOnDay(ctx, "2025-01-01")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTxManager_NestedCallJoinsTransaction(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	txm := s.TxManager()
	repo := NewSaleRepository(txm)

	err := txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return txm.RunInTransaction(ctx, func(ctx context.Context) error {
			return repo.Insert(ctx, &sale.Transaction{Faktur: "INV-Y", Tanggal: "2025-01-02 10:00:00", Total: types.MustMoney("1000")})
		})
	})
	require.NoError(t, err)

	n, err := repo.CountOnDay(ctx, "2025-01-02")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
