// Package sqlite owns the embedded relational store. It provides the
// single-writer database handle, schema migration, the transactional
// unit of work and the typed repositories.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"tokopos/internal/core/apperror"
)

// Filesystem layout under the data directory.
const (
	DBFileName = "pos.db"
	BackupDir  = "backup"
	ExportDir  = "export"
)

// Store owns the embedded database file and hands out repositories
// bound to its transaction manager.
type Store struct {
	db      *sql.DB
	dataDir string
	path    string
	txm     *TxManager
}

// Open creates the data directory tree on first run and opens the
// store file. The store is a process-local single-writer resource;
// the connection pool is capped at one connection.
func Open(dataDir string) (*Store, error) {
	for _, dir := range []string{dataDir, filepath.Join(dataDir, BackupDir), filepath.Join(dataDir, ExportDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperror.NewDatabase(fmt.Errorf("create data dir %s: %w", dir, err))
		}
	}

	path := filepath.Join(dataDir, DBFileName)

	// The rollback journal (default mode) keeps the store in a single
	// file between committed transactions, which the file-level backup
	// snapshot relies on.
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("open store: %w", err))
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, apperror.NewDatabase(fmt.Errorf("ping store: %w", err))
	}

	return &Store{
		db:      db,
		dataDir: dataDir,
		path:    path,
		txm:     NewTxManager(db),
	}, nil
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// TxManager returns the unit-of-work manager bound to this store.
func (s *Store) TxManager() *TxManager {
	return s.txm
}

// Path returns the absolute-or-relative path of the store file.
func (s *Store) Path() string {
	return s.path
}

// DataDir returns the data directory the store lives in.
func (s *Store) DataDir() string {
	return s.dataDir
}

// BackupPath returns the snapshot directory.
func (s *Store) BackupPath() string {
	return filepath.Join(s.dataDir, BackupDir)
}

// ExportPath returns the CSV export directory.
func (s *Store) ExportPath() string {
	return filepath.Join(s.dataDir, ExportDir)
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
