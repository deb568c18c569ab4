package backup_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokopos/internal/backup"
	"tokopos/internal/core/types"
	"tokopos/internal/domain/audit"
	"tokopos/internal/domain/catalog"
	"tokopos/internal/storage/sqlite"
)

type fixture struct {
	store    *sqlite.Store
	products *sqlite.ProductRepository
	svc      *backup.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s, err := sqlite.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))

	txm := s.TxManager()
	products := sqlite.NewProductRepository(txm)
	aud := audit.NewService(sqlite.NewAuditRepository(txm))

	return &fixture{
		store:    s,
		products: products,
		svc:      backup.New(s.Path(), s.BackupPath(), s.ExportPath(), txm, products, aud),
	}
}

func (f *fixture) seed(t *testing.T, barcode, nama, harga string, stok int) *catalog.Product {
	t.Helper()
	p := &catalog.Product{Barcode: barcode, Nama: nama, Harga: types.MustMoney(harga), Stok: stok}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func TestBackup_SnapshotIsByteIdentical(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "1", "Indomie", "3500", 10)

	path, err := f.svc.Backup(ctx)
	require.NoError(t, err)
	assert.Regexp(t, `backup_pos_\d{8}_\d{6}\.db$`, filepath.Base(path))

	// The backup audit entry lands after the copy, so compare against
	// a fresh snapshot taken with no writes in between.
	second, err := f.svc.Backup(ctx)
	require.NoError(t, err)

	if path == second {
		t.Skip("snapshots landed on the same second")
	}

	want, err := os.ReadFile(f.store.Path())
	require.NoError(t, err)
	got, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAutoBackupDaily_SkipsWhenCovered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.AutoBackupDaily(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := f.svc.AutoBackupDaily(ctx)
	require.NoError(t, err)
	assert.Empty(t, second)

	paths, err := f.svc.ListBackups()
	require.NoError(t, err)
	assert.Len(t, paths, 1)
}

func TestRestore_MissingSnapshotFails(t *testing.T) {
	f := newFixture(t)
	err := f.svc.Restore(context.Background(), "/tmp/tidak-ada.db")
	assert.Error(t, err)
}

func TestRestore_RewindsStoreToSnapshot(t *testing.T) {
	ctx := context.Background()
	dataDir := t.TempDir()

	s, err := sqlite.Open(dataDir)
	require.NoError(t, err)
	require.NoError(t, s.Migrate(ctx))

	txm := s.TxManager()
	products := sqlite.NewProductRepository(txm)
	aud := audit.NewService(sqlite.NewAuditRepository(txm))
	svc := backup.New(s.Path(), s.BackupPath(), s.ExportPath(), txm, products, aud)

	p := &catalog.Product{Barcode: "111", Nama: "Indomie", Harga: types.MustMoney("3500"), Stok: 10}
	require.NoError(t, products.Create(ctx, p))

	snapshot, err := svc.Backup(ctx)
	require.NoError(t, err)

	extra := &catalog.Product{Barcode: "222", Nama: "Teh Botol", Harga: types.MustMoney("5000"), Stok: 4}
	require.NoError(t, products.Create(ctx, extra))

	// Restore requires a closed handle; the process restarts afterward.
	require.NoError(t, s.Close())
	require.NoError(t, svc.Restore(ctx, snapshot))

	reopened, err := sqlite.Open(dataDir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	list, err := sqlite.NewProductRepository(reopened.TxManager()).ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Indomie", list[0].Nama)
}

func TestExportImport_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "111", "Indomie", "3500", 10)
	f.seed(t, "222", "Teh Botol", "5000", 4)

	path, err := f.svc.ExportCatalogCSV(ctx)
	require.NoError(t, err)

	// Importing the export back changes nothing and creates nothing.
	summary, err := f.svc.ImportCatalogCSV(ctx, path, nil)
	require.NoError(t, err)
	assert.Zero(t, summary.Created)
	assert.Equal(t, 2, summary.Updated)

	products, err := f.products.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
}

func TestImport_UpsertsByBarcode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "111", "Indomie", "3500", 10)

	csv := "id,barcode,nama,harga,stok\n" +
		"0,111,Indomie Goreng,4000,20\n" +
		"0,333,Kopi Sachet,1500,50\n"
	path := filepath.Join(t.TempDir(), "import.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	summary, err := f.svc.ImportCatalogCSV(ctx, path, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Updated)
	assert.Zero(t, summary.Skipped)

	updated, err := f.products.FindByBarcode(ctx, "111")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Indomie Goreng", updated.Nama)
	assert.True(t, updated.Harga.Equal(types.MustMoney("4000")))
	assert.Equal(t, 20, updated.Stok)

	created, err := f.products.FindByBarcode(ctx, "333")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "Kopi Sachet", created.Nama)
}

func TestImport_ConfirmRefusalSkipsRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "111", "Indomie", "3500", 10)

	csv := "0,111,Indomie Goreng,4000,20\n"
	path := filepath.Join(t.TempDir(), "import.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	asked := 0
	summary, err := f.svc.ImportCatalogCSV(ctx, path, func(existing, incoming catalog.Product) bool {
		asked++
		assert.Equal(t, "Indomie", existing.Nama)
		assert.Equal(t, "Indomie Goreng", incoming.Nama)
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, 1, asked)
	assert.Equal(t, 1, summary.Skipped)

	// The refused row left the product untouched.
	p, err := f.products.FindByBarcode(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, "Indomie", p.Nama)
}

func TestImport_InvalidRowAbortsWholeImport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	csv := "0,111,Indomie,3500,10\n0,222,Teh,abc,4\n"
	path := filepath.Join(t.TempDir(), "import.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	_, err := f.svc.ImportCatalogCSV(ctx, path, nil)
	require.Error(t, err)

	// The valid first row rolled back with the bad one.
	products, err := f.products.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}
