// Package catalog provides product master-data operations.
package catalog

import (
	"context"

	"tokopos/internal/core/types"
)

// Product is a catalog entry. Stock is the on-hand count maintained by
// admin adjustments and sale commits.
type Product struct {
	ID      int64       `db:"id" json:"id"`
	Barcode string      `db:"barcode" json:"barcode"`
	Nama    string      `db:"nama" json:"nama"`
	Harga   types.Money `db:"harga" json:"harga"`
	Stok    int         `db:"stok" json:"stok"`
}

// Repository defines persistence operations for products.
// The implementation lives in storage/sqlite.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error

	// GetByID fails with NOT_FOUND when no row matches.
	GetByID(ctx context.Context, id int64) (*Product, error)

	// FindByBarcode returns (nil, nil) on a miss; absence is not an error.
	FindByBarcode(ctx context.Context, barcode string) (*Product, error)

	// SearchByName matches a case-insensitive substring of nama.
	SearchByName(ctx context.Context, keyword string) ([]Product, error)

	ListAll(ctx context.Context) ([]Product, error)

	// AdjustStock applies a delta; the resulting stock may not go negative.
	AdjustStock(ctx context.Context, id int64, delta int) error

	SetStock(ctx context.Context, id int64, value int) error

	// DecrementStock subtracts qty guarded by stok >= qty; the guard
	// failing surfaces as INSUFFICIENT_STOCK.
	DecrementStock(ctx context.Context, id int64, qty int) error
}
