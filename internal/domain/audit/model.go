// Package audit provides the append-only activity log.
package audit

import (
	"context"
)

// Activity labels with fixed meaning across the application.
const (
	ActivitySale        = "Transaksi Penjualan"
	ActivityError       = "Error"
	ActivityLogin       = "Login"
	ActivityReset       = "Reset Riwayat"
	ActivityAddProduct  = "Tambah Produk"
	ActivityEditProduct = "Edit Produk"
	ActivityDelProduct  = "Hapus Produk"
	ActivityStock       = "Ubah Stok"
	ActivityBackup      = "Backup Database"
	ActivityRestore     = "Restore Database"
	ActivityUserAdmin   = "Kelola User"
)

// Entry is a single activity record. Entries are never mutated.
type Entry struct {
	ID        int64  `db:"id" json:"id"`
	Username  string `db:"username" json:"username"`
	Aktivitas string `db:"aktivitas" json:"aktivitas"`
	Tanggal   string `db:"tanggal" json:"tanggal"`
	Detail    string `db:"detail" json:"detail"`
}

// Query filters the log. Zero values mean "no filter"; dates are
// inclusive calendar dates in 2006-01-02 form.
type Query struct {
	Username  string
	Keyword   string
	StartDate string
	EndDate   string
	Limit     int
}

// Repository defines persistence operations for the activity log.
type Repository interface {
	Append(ctx context.Context, e *Entry) error
	Search(ctx context.Context, q Query) ([]Entry, error)
}
