package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"tokopos/internal/core/apperror"
	"tokopos/pkg/logger"
)

// Querier is the common surface of *sql.DB and *sql.Tx that the
// repositories use. Repository methods call GetQuerier so the same
// code runs inside and outside a unit of work.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// TxManager serializes write transactions on the single-writer store
// and threads the open transaction through the context.
type TxManager struct {
	db *sql.DB
	mu sync.Mutex
}

func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

// RunInTransaction executes fn inside a database transaction. A nested
// call joins the transaction already carried by the context instead of
// opening a second one.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("begin transaction: %w", err))
	}

	txCtx := context.WithValue(ctx, txKey{}, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error(ctx, "transaction rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperror.NewDatabase(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// GetQuerier returns the transaction from the context when one is
// open, or the shared handle otherwise.
func (m *TxManager) GetQuerier(ctx context.Context) Querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return m.db
}
