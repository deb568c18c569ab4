package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/types"
	"tokopos/internal/domain/catalog"
)

type fakeLookup struct {
	products map[int64]*catalog.Product
}

func (f *fakeLookup) GetByID(_ context.Context, id int64) (*catalog.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, apperror.NewNotFound("produk", id)
	}
	cp := *p
	return &cp, nil
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{products: map[int64]*catalog.Product{
		1: {ID: 1, Barcode: "111", Nama: "Indomie Goreng", Harga: types.MustMoney("3500"), Stok: 10},
		2: {ID: 2, Barcode: "222", Nama: "Teh Botol", Harga: types.MustMoney("5000"), Stok: 3},
	}}
}

func TestCart_StateTransitions(t *testing.T) {
	ctx := context.Background()
	c := New(newFakeLookup())

	assert.Equal(t, StateEmpty, c.State())

	require.NoError(t, c.AddProduct(ctx, 1, 2))
	assert.Equal(t, StateFilling, c.State())

	require.NoError(t, c.Checkout())
	assert.Equal(t, StateReadyToPay, c.State())

	// Frozen lines reject edits.
	err := c.AddProduct(ctx, 2, 1)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))

	c.Reopen()
	assert.Equal(t, StateFilling, c.State())

	require.NoError(t, c.RemoveLine(1))
	assert.Equal(t, StateEmpty, c.State())
}

func TestCart_CheckoutEmptyFails(t *testing.T) {
	c := New(newFakeLookup())
	err := c.Checkout()
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestCart_CheckoutNeedsPositiveTotal(t *testing.T) {
	ctx := context.Background()
	c := New(newFakeLookup())

	require.NoError(t, c.AddProduct(ctx, 1, 2))
	require.NoError(t, c.SetLineDiscount(1, types.MustMoney("3500")))

	err := c.Checkout()
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	assert.Equal(t, StateFilling, c.State())
}

func TestCart_AddIncrementsExistingLine(t *testing.T) {
	ctx := context.Background()
	c := New(newFakeLookup())

	require.NoError(t, c.AddProduct(ctx, 1, 2))
	require.NoError(t, c.AddProduct(ctx, 2, 1))
	require.NoError(t, c.AddProduct(ctx, 1, 3))

	lines := c.Lines()
	require.Len(t, lines, 2)
	// Line order is insertion order, the increment did not move it.
	assert.Equal(t, int64(1), lines[0].ProductID)
	assert.Equal(t, 5, lines[0].Jumlah)
	assert.Equal(t, int64(2), lines[1].ProductID)
}

func TestCart_AddRejectsBeyondStock(t *testing.T) {
	ctx := context.Background()
	c := New(newFakeLookup())

	require.NoError(t, c.AddProduct(ctx, 2, 2))

	// 2 in cart + 2 more > 3 in stock.
	err := c.AddProduct(ctx, 2, 2)
	require.True(t, apperror.IsInsufficientStock(err))

	// The failed add left the line untouched.
	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Jumlah)
}

func TestCart_TotalRecomputes(t *testing.T) {
	ctx := context.Background()
	c := New(newFakeLookup())

	require.NoError(t, c.AddProduct(ctx, 1, 2)) // 2 * 3500
	require.NoError(t, c.AddProduct(ctx, 2, 1)) // 1 * 5000
	assert.True(t, c.Total().Equal(types.MustMoney("12000")))

	require.NoError(t, c.SetLineQuantity(ctx, 1, 1))
	assert.True(t, c.Total().Equal(types.MustMoney("8500")))

	require.NoError(t, c.RemoveLine(2))
	assert.True(t, c.Total().Equal(types.MustMoney("3500")))
}

func TestCart_DiscountBounds(t *testing.T) {
	ctx := context.Background()
	c := New(newFakeLookup())
	require.NoError(t, c.AddProduct(ctx, 1, 2))

	err := c.SetLineDiscount(1, types.MustMoney("-1"))
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	err = c.SetLineDiscount(1, types.MustMoney("3501"))
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	require.NoError(t, c.SetLineDiscount(1, types.MustMoney("500")))
	// 2 * (3500 - 500)
	assert.True(t, c.Total().Equal(types.MustMoney("6000")))
}

func TestCart_SetQuantityZeroRemovesLine(t *testing.T) {
	ctx := context.Background()
	c := New(newFakeLookup())
	require.NoError(t, c.AddProduct(ctx, 1, 2))

	require.NoError(t, c.SetLineQuantity(ctx, 1, 0))
	assert.Empty(t, c.Lines())
	assert.Equal(t, StateEmpty, c.State())
}

func TestCart_RestoreReplacesContent(t *testing.T) {
	ctx := context.Background()
	c := New(newFakeLookup())
	require.NoError(t, c.AddProduct(ctx, 1, 1))

	parked := []Line{{ProductID: 2, Nama: "Teh Botol", Harga: types.MustMoney("5000"), Jumlah: 2, Diskon: types.ZeroMoney()}}
	c.Restore(parked, "kasir")

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].ProductID)
	assert.Equal(t, StateFilling, c.State())
	assert.Equal(t, "kasir", c.Kasir)

	// The restored cart does not alias the source slice.
	parked[0].Jumlah = 99
	assert.Equal(t, 2, c.Lines()[0].Jumlah)
}
