// Package sale owns the atomic commit of a cart into a persisted
// transaction with details, stock decrements, faktur assignment and
// audit trail.
package sale

import (
	"context"

	"tokopos/internal/core/types"
)

// Transaction is a committed sale header. Rows are immutable; the only
// removal path is the admin reset-history maintenance action.
type Transaction struct {
	ID      int64       `db:"id" json:"id"`
	Faktur  string      `db:"no_faktur" json:"no_faktur"`
	Tanggal string      `db:"tanggal" json:"tanggal"`
	Total   types.Money `db:"total" json:"total"`
}

// Detail is one line of a committed sale. Name, price and discount are
// value snapshots taken at commit time.
type Detail struct {
	ID            int64       `db:"id" json:"id"`
	TransactionID int64       `db:"transaksi_id" json:"transaksi_id"`
	ProdukNama    string      `db:"produk_nama" json:"produk_nama"`
	Jumlah        int         `db:"jumlah" json:"jumlah"`
	Harga         types.Money `db:"harga" json:"harga"`
	Diskon        types.Money `db:"diskon" json:"diskon"`
	Subtotal      types.Money `db:"subtotal" json:"subtotal"`
}

// Repository defines persistence operations for committed sales.
type Repository interface {
	// CountOnDay counts transactions whose calendar date equals day
	// (2006-01-02 form). Called inside the open commit transaction so
	// the derived faktur sequence cannot collide in-process.
	CountOnDay(ctx context.Context, day string) (int, error)

	Insert(ctx context.Context, t *Transaction) error
	InsertDetail(ctx context.Context, d *Detail) error

	// GetByID fails with NOT_FOUND when no row matches.
	GetByID(ctx context.Context, id int64) (*Transaction, error)

	// DeleteAll wipes transaksi and detail_transaksi (reset history).
	DeleteAll(ctx context.Context) error
}
