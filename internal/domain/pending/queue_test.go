package pending

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/types"
	"tokopos/internal/domain/cart"
	"tokopos/internal/domain/catalog"
)

type staticLookup struct{}

func (staticLookup) GetByID(_ context.Context, id int64) (*catalog.Product, error) {
	return &catalog.Product{ID: id, Nama: "Produk", Harga: types.MustMoney("1000"), Stok: 100}, nil
}

func filledCart(t *testing.T, productID int64, qty int) *cart.Cart {
	t.Helper()
	c := cart.New(staticLookup{})
	require.NoError(t, c.AddProduct(context.Background(), productID, qty))
	return c
}

func TestQueue_ParkAndResume(t *testing.T) {
	q := NewQueue(5)
	c := filledCart(t, 1, 3)
	c.Kasir = "kasir"

	snap, err := q.Park(c, "pelanggan ambil dompet")
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.ID)
	assert.Equal(t, "kasir", snap.Kasir)
	assert.Equal(t, "pelanggan ambil dompet", snap.Note)
	assert.True(t, snap.Total.Equal(types.MustMoney("3000")))
	assert.Equal(t, 1, q.Len())

	got, err := q.Resume(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, got.ID)
	assert.Equal(t, 0, q.Len())

	_, err = q.Resume(snap.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestQueue_ParkEmptyCartFails(t *testing.T) {
	q := NewQueue(5)
	c := cart.New(staticLookup{})

	_, err := q.Park(c, "")
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestQueue_CapacityEnforced(t *testing.T) {
	q := NewQueue(2)

	for i := 0; i < 2; i++ {
		_, err := q.Park(filledCart(t, int64(i+1), 1), "")
		require.NoError(t, err)
	}

	_, err := q.Park(filledCart(t, 9, 1), "")
	require.True(t, apperror.IsCode(err, apperror.CodePendingFull))
	assert.Equal(t, 2, q.Len())

	// Discarding makes room again.
	require.NoError(t, q.Discard(1))
	_, err = q.Park(filledCart(t, 9, 1), "")
	assert.NoError(t, err)
}

func TestQueue_DefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, NewQueue(0).Capacity())
	assert.Equal(t, DefaultCapacity, NewQueue(-3).Capacity())
}

func TestQueue_ListSnapshotsAreCopies(t *testing.T) {
	q := NewQueue(5)
	_, err := q.Park(filledCart(t, 1, 2), "")
	require.NoError(t, err)

	list := q.List()
	require.Len(t, list, 1)
	list[0].Lines[0].Jumlah = 99

	again := q.List()
	assert.Equal(t, 2, again[0].Lines[0].Jumlah)
}

func TestQueue_IDsKeepIncreasing(t *testing.T) {
	q := NewQueue(5)

	s1, err := q.Park(filledCart(t, 1, 1), "")
	require.NoError(t, err)
	_, err = q.Resume(s1.ID)
	require.NoError(t, err)

	s2, err := q.Park(filledCart(t, 2, 1), "")
	require.NoError(t, err)
	assert.Greater(t, s2.ID, s1.ID)
}
