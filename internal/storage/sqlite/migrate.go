package sqlite

import (
	"context"
	"fmt"

	"tokopos/internal/core/apperror"
	"tokopos/pkg/logger"
)

var createStatements = []string{
	`CREATE TABLE IF NOT EXISTS produk (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		barcode TEXT NOT NULL UNIQUE,
		nama    TEXT NOT NULL,
		harga   REAL NOT NULL DEFAULT 0,
		stok    INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS user (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transaksi (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		tanggal TEXT NOT NULL,
		total   REAL NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS detail_transaksi (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		transaksi_id INTEGER NOT NULL REFERENCES transaksi(id),
		produk_nama  TEXT NOT NULL,
		jumlah       INTEGER NOT NULL,
		harga        REAL NOT NULL,
		subtotal     REAL NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS log_aktivitas (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		username  TEXT NOT NULL,
		aktivitas TEXT NOT NULL,
		tanggal   TEXT NOT NULL,
		detail    TEXT NOT NULL DEFAULT ''
	)`,
}

// Additive columns introduced after the first release. Each entry is
// applied only when pragma_table_info reports the column missing, so
// Migrate is safe to run against any historical store file.
var alterColumns = []struct {
	table, column, ddl string
}{
	{"user", "role", `ALTER TABLE user ADD COLUMN role TEXT NOT NULL DEFAULT 'kasir'`},
	{"transaksi", "no_faktur", `ALTER TABLE transaksi ADD COLUMN no_faktur TEXT NOT NULL DEFAULT ''`},
	{"detail_transaksi", "diskon", `ALTER TABLE detail_transaksi ADD COLUMN diskon REAL NOT NULL DEFAULT 0`},
}

// Migrate brings the schema up to date and backfills invoice numbers
// for rows created before numbering existed.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range createStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return apperror.NewDatabase(fmt.Errorf("create table: %w", err))
		}
	}

	for _, ac := range alterColumns {
		ok, err := s.columnExists(ctx, ac.table, ac.column)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if _, err := s.db.ExecContext(ctx, ac.ddl); err != nil {
			return apperror.NewDatabase(fmt.Errorf("add column %s.%s: %w", ac.table, ac.column, err))
		}
		logger.Info(ctx, "schema column added", "table", ac.table, "column", ac.column)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE transaksi SET no_faktur = 'INV-OLD-' || printf('%05d', id)
		 WHERE no_faktur IS NULL OR no_faktur = ''`)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("backfill invoice numbers: %w", err))
	}
	if n, _ := res.RowsAffected(); n > 0 {
		logger.Info(ctx, "legacy transactions assigned invoice numbers", "count", n)
	}

	idx := []string{
		`CREATE INDEX IF NOT EXISTS idx_transaksi_tanggal ON transaksi(tanggal)`,
		`CREATE INDEX IF NOT EXISTS idx_detail_transaksi_id ON detail_transaksi(transaksi_id)`,
		`CREATE INDEX IF NOT EXISTS idx_log_tanggal ON log_aktivitas(tanggal)`,
	}
	for _, stmt := range idx {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return apperror.NewDatabase(fmt.Errorf("create index: %w", err))
		}
	}

	return nil
}

func (s *Store) columnExists(ctx context.Context, table, column string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column).Scan(&n)
	if err != nil {
		return false, apperror.NewDatabase(fmt.Errorf("inspect %s.%s: %w", table, column, err))
	}
	return n > 0, nil
}
