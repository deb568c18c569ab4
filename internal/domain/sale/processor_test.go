package sale_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/session"
	"tokopos/internal/core/types"
	"tokopos/internal/domain/audit"
	"tokopos/internal/domain/cart"
	"tokopos/internal/domain/catalog"
	"tokopos/internal/domain/receipt"
	"tokopos/internal/domain/sale"
	"tokopos/internal/settings"
	"tokopos/internal/storage/sqlite"
)

type staticSettings struct{}

func (staticSettings) Get() settings.Settings {
	return settings.Settings{ShopName: "Toko Uji", LowStockMin: 5}
}

type failingRenderer struct{ err error }

func (r failingRenderer) Render(context.Context, *receipt.Receipt, string) error {
	return r.err
}

type fixture struct {
	store     *sqlite.Store
	products  *sqlite.ProductRepository
	sales     *sqlite.SaleRepository
	auditRepo *sqlite.AuditRepository
	aud       *audit.Service
	cart      *cart.Cart
	processor *sale.Processor
}

func newFixture(t *testing.T, renderer receipt.Renderer) *fixture {
	t.Helper()

	s, err := sqlite.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))

	txm := s.TxManager()
	f := &fixture{
		store:     s,
		products:  sqlite.NewProductRepository(txm),
		sales:     sqlite.NewSaleRepository(txm),
		auditRepo: sqlite.NewAuditRepository(txm),
	}
	f.aud = audit.NewService(f.auditRepo)
	f.cart = cart.New(f.products)
	if renderer == nil {
		renderer = receipt.NullRenderer{}
	}
	f.processor = sale.NewProcessor(txm, f.sales, f.products, f.aud, staticSettings{}, renderer, t.TempDir())
	return f
}

func (f *fixture) seedProduct(t *testing.T, barcode, nama, harga string, stok int) *catalog.Product {
	t.Helper()
	p := &catalog.Product{Barcode: barcode, Nama: nama, Harga: types.MustMoney(harga), Stok: stok}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func nowDay() string {
	return time.Now().Format(types.DateLayout)
}

func kasirCtx() context.Context {
	return session.WithActor(context.Background(), &session.Actor{
		Username: "kasir",
		Role:     session.RoleCashier,
	})
}

func TestProcessor_CommitHappyPath(t *testing.T) {
	f := newFixture(t, nil)
	ctx := kasirCtx()

	p1 := f.seedProduct(t, "1", "Indomie", "3500", 10)
	p2 := f.seedProduct(t, "2", "Teh Botol", "5000", 5)

	require.NoError(t, f.cart.AddProduct(ctx, p1.ID, 2))
	require.NoError(t, f.cart.AddProduct(ctx, p2.ID, 1))
	require.NoError(t, f.cart.SetLineDiscount(p1.ID, types.MustMoney("500")))
	require.NoError(t, f.cart.Checkout())

	// total = 2*(3500-500) + 5000 = 11000
	res, err := f.processor.Commit(ctx, f.cart, types.MustMoney("20000"))
	require.NoError(t, err)

	assert.Regexp(t, `^INV-\d{8}-0001$`, res.Transaction.Faktur)
	assert.True(t, res.Transaction.Total.Equal(types.MustMoney("11000")))
	assert.True(t, res.Change.Equal(types.MustMoney("9000")))
	require.Len(t, res.Details, 2)
	assert.Equal(t, "Indomie", res.Details[0].ProdukNama)
	assert.True(t, res.Details[0].Diskon.Equal(types.MustMoney("500")))

	// Stock decremented.
	got1, err := f.products.GetByID(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got1.Stok)
	got2, err := f.products.GetByID(ctx, p2.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got2.Stok)

	// The cart is free for the next customer.
	assert.Equal(t, cart.StateEmpty, f.cart.State())

	// Audit carries the sale.
	entries, err := f.aud.Search(ctx, audit.Query{Keyword: res.Transaction.Faktur})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActivitySale, entries[0].Aktivitas)
	assert.Equal(t, "kasir", entries[0].Username)
}

func TestProcessor_FakturSequenceIncrements(t *testing.T) {
	f := newFixture(t, nil)
	ctx := kasirCtx()
	p := f.seedProduct(t, "1", "Indomie", "3500", 50)

	for i := 1; i <= 3; i++ {
		require.NoError(t, f.cart.AddProduct(ctx, p.ID, 1))
		require.NoError(t, f.cart.Checkout())
		res, err := f.processor.Commit(ctx, f.cart, types.MustMoney("3500"))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("INV-%s-%04d", time.Now().Format(types.CompactDateLayout), i), res.Transaction.Faktur)
	}
}

func TestProcessor_InsufficientTender(t *testing.T) {
	f := newFixture(t, nil)
	ctx := kasirCtx()
	p := f.seedProduct(t, "1", "Indomie", "3500", 10)

	require.NoError(t, f.cart.AddProduct(ctx, p.ID, 2))
	require.NoError(t, f.cart.Checkout())

	_, err := f.processor.Commit(ctx, f.cart, types.MustMoney("5000"))
	require.True(t, apperror.IsCode(err, apperror.CodePaymentRequired))

	// Nothing persisted, cart intact and still payable.
	n, err := f.sales.CountOnDay(ctx, nowDay())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, cart.StateReadyToPay, f.cart.State())

	got, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Stok)
}

func TestProcessor_StockRaceRollsBackEverything(t *testing.T) {
	f := newFixture(t, nil)
	ctx := kasirCtx()
	p := f.seedProduct(t, "1", "Indomie", "3500", 5)

	require.NoError(t, f.cart.AddProduct(ctx, p.ID, 5))
	require.NoError(t, f.cart.Checkout())

	// Stock shrinks after checkout but before payment.
	require.NoError(t, f.products.SetStock(ctx, p.ID, 2))

	_, err := f.processor.Commit(ctx, f.cart, types.MustMoney("99999"))
	require.True(t, apperror.IsInsufficientStock(err))

	// Header, details and the partial decrement all rolled back.
	n, err := f.sales.CountOnDay(ctx, nowDay())
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := f.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stok)

	// No sale audit entry either.
	entries, err := f.aud.Search(ctx, audit.Query{Keyword: "faktur="})
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.Equal(t, cart.StateReadyToPay, f.cart.State())
}

func TestProcessor_CommitRequiresReadyToPay(t *testing.T) {
	f := newFixture(t, nil)
	ctx := kasirCtx()
	p := f.seedProduct(t, "1", "Indomie", "3500", 10)
	require.NoError(t, f.cart.AddProduct(ctx, p.ID, 1))

	_, err := f.processor.Commit(ctx, f.cart, types.MustMoney("5000"))
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
}

func TestProcessor_ReceiptFailureDoesNotRevokeSale(t *testing.T) {
	renderErr := errors.New("printer on fire")
	f := newFixture(t, failingRenderer{err: renderErr})
	ctx := kasirCtx()
	p := f.seedProduct(t, "1", "Indomie", "3500", 10)

	require.NoError(t, f.cart.AddProduct(ctx, p.ID, 1))
	require.NoError(t, f.cart.Checkout())

	res, err := f.processor.Commit(ctx, f.cart, types.MustMoney("3500"))
	require.NoError(t, err)
	assert.ErrorIs(t, res.ReceiptErr, renderErr)

	// Sale persisted despite the failed receipt.
	n, err := f.sales.CountOnDay(ctx, nowDay())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// The failure itself is on the record.
	entries, err := f.aud.Search(ctx, audit.Query{Keyword: "cetak struk gagal"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActivityError, entries[0].Aktivitas)
}

func TestProcessor_ResetHistory(t *testing.T) {
	f := newFixture(t, nil)
	ctx := kasirCtx()
	p := f.seedProduct(t, "1", "Indomie", "3500", 10)

	require.NoError(t, f.cart.AddProduct(ctx, p.ID, 1))
	require.NoError(t, f.cart.Checkout())
	_, err := f.processor.Commit(ctx, f.cart, types.MustMoney("3500"))
	require.NoError(t, err)

	adminCtx := session.WithActor(context.Background(), &session.Actor{Username: "admin", Role: session.RoleAdmin})
	require.NoError(t, f.processor.ResetHistory(adminCtx))

	n, err := f.sales.CountOnDay(ctx, nowDay())
	require.NoError(t, err)
	assert.Zero(t, n)

	entries, err := f.aud.Search(ctx, audit.Query{Keyword: "riwayat"})
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, audit.ActivityReset, entries[0].Aktivitas)
	assert.Equal(t, "admin", entries[0].Username)
}
