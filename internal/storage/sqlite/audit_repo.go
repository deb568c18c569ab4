package sqlite

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"

	"tokopos/internal/core/apperror"
	"tokopos/internal/domain/audit"
)

// AuditRepository implements audit.Repository on the embedded store.
// The log is append-only; no update or delete paths exist here.
type AuditRepository struct {
	txm *TxManager
}

func NewAuditRepository(txm *TxManager) *AuditRepository {
	return &AuditRepository{txm: txm}
}

func (r *AuditRepository) Append(ctx context.Context, e *audit.Entry) error {
	q := r.txm.GetQuerier(ctx)

	query, args, err := sq.Insert("log_aktivitas").
		Columns("username", "aktivitas", "tanggal", "detail").
		Values(e.Username, e.Aktivitas, e.Tanggal, e.Detail).
		ToSql()
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("build insert log: %w", err))
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("insert log: %w", err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("insert log id: %w", err))
	}
	e.ID = id
	return nil
}

func (r *AuditRepository) Search(ctx context.Context, query audit.Query) ([]audit.Entry, error) {
	q := r.txm.GetQuerier(ctx)

	b := sq.Select("id", "username", "aktivitas", "tanggal", "detail").
		From("log_aktivitas").
		OrderBy("id DESC")

	if query.Username != "" {
		b = b.Where(sq.Eq{"username": query.Username})
	}
	if query.Keyword != "" {
		like := "%" + query.Keyword + "%"
		b = b.Where(sq.Or{
			sq.Like{"aktivitas": like},
			sq.Like{"detail": like},
		})
	}
	if query.StartDate != "" {
		b = b.Where(sq.GtOrEq{"date(tanggal)": query.StartDate})
	}
	if query.EndDate != "" {
		b = b.Where(sq.LtOrEq{"date(tanggal)": query.EndDate})
	}
	if query.Limit > 0 {
		b = b.Limit(uint64(query.Limit))
	}

	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("build search log: %w", err))
	}

	entries := []audit.Entry{}
	if err := sqlscan.Select(ctx, q, &entries, sqlStr, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("search log: %w", err))
	}
	return entries, nil
}
