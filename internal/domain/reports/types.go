// Package reports provides read-only sales and inventory queries.
package reports

import (
	"context"

	"tokopos/internal/core/types"
	"tokopos/internal/domain/catalog"
	"tokopos/internal/domain/sale"
)

// SaleRow is a joined transaction + detail row as shown in history
// views, ordered by timestamp descending.
type SaleRow struct {
	TransaksiID int64       `db:"transaksi_id" json:"transaksi_id"`
	Faktur      string      `db:"no_faktur" json:"no_faktur"`
	Tanggal     string      `db:"tanggal" json:"tanggal"`
	Total       types.Money `db:"total" json:"total"`
	ProdukNama  string      `db:"produk_nama" json:"produk_nama"`
	Jumlah      int         `db:"jumlah" json:"jumlah"`
	Harga       types.Money `db:"harga" json:"harga"`
	Diskon      types.Money `db:"diskon" json:"diskon"`
	Subtotal    types.Money `db:"subtotal" json:"subtotal"`
}

// Summary aggregates a reporting period.
type Summary struct {
	Transactions int         `json:"transactions"`
	Gross        types.Money `json:"gross"`
}

// Repository defines the read-only queries behind the report views.
type Repository interface {
	// SalesOnDay returns joined rows whose calendar date equals day.
	SalesOnDay(ctx context.Context, day string) ([]SaleRow, error)

	// SalesBetween returns joined rows for the inclusive date range.
	SalesBetween(ctx context.Context, start, end string) ([]SaleRow, error)

	// SummaryBetween aggregates transaction count and gross total for
	// the inclusive date range.
	SummaryBetween(ctx context.Context, start, end string) (Summary, error)

	// LowStock lists products with stock below threshold, ascending.
	LowStock(ctx context.Context, threshold int) ([]catalog.Product, error)

	// DetailsByTransaction returns all lines of one transaction.
	DetailsByTransaction(ctx context.Context, transaksiID int64) ([]sale.Detail, error)
}
