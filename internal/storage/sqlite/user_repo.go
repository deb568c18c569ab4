package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"

	"tokopos/internal/core/apperror"
	"tokopos/internal/domain/identity"
)

// UserRepository implements identity.Repository on the embedded store.
type UserRepository struct {
	txm *TxManager
}

func NewUserRepository(txm *TxManager) *UserRepository {
	return &UserRepository{txm: txm}
}

func (r *UserRepository) Create(ctx context.Context, u *identity.User) error {
	q := r.txm.GetQuerier(ctx)

	query, args, err := sq.Insert("user").
		Columns("username", "password", "role").
		Values(u.Username, u.PasswordHash, u.Role).
		ToSql()
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("build insert user: %w", err))
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("user", "username", u.Username)
		}
		return apperror.NewDatabase(fmt.Errorf("insert user: %w", err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("insert user id: %w", err))
	}
	u.ID = id
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *identity.User) error {
	q := r.txm.GetQuerier(ctx)

	query, args, err := sq.Update("user").
		Set("username", u.Username).
		Set("password", u.PasswordHash).
		Set("role", u.Role).
		Where(sq.Eq{"id": u.ID}).
		ToSql()
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("build update user: %w", err))
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("user", "username", u.Username)
		}
		return apperror.NewDatabase(fmt.Errorf("update user: %w", err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("user", fmt.Sprintf("%d", u.ID))
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	q := r.txm.GetQuerier(ctx)

	res, err := q.ExecContext(ctx, `DELETE FROM user WHERE id = ?`, id)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("delete user: %w", err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound("user", fmt.Sprintf("%d", id))
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*identity.User, error) {
	q := r.txm.GetQuerier(ctx)

	var u identity.User
	err := sqlscan.Get(ctx, q, &u,
		`SELECT id, username, password, role FROM user WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NewNotFound("user", fmt.Sprintf("%d", id))
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get user: %w", err))
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*identity.User, error) {
	q := r.txm.GetQuerier(ctx)

	var u identity.User
	err := sqlscan.Get(ctx, q, &u,
		`SELECT id, username, password, role FROM user WHERE username = ?`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get user by username: %w", err))
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]identity.User, error) {
	q := r.txm.GetQuerier(ctx)

	users := []identity.User{}
	err := sqlscan.Select(ctx, q, &users,
		`SELECT id, username, password, role FROM user ORDER BY username`)
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("list user: %w", err))
	}
	return users, nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	q := r.txm.GetQuerier(ctx)

	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM user`).Scan(&n); err != nil {
		return 0, apperror.NewDatabase(fmt.Errorf("count user: %w", err))
	}
	return n, nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role string) (int, error) {
	q := r.txm.GetQuerier(ctx)

	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM user WHERE role = ?`, role).Scan(&n); err != nil {
		return 0, apperror.NewDatabase(fmt.Errorf("count user by role: %w", err))
	}
	return n, nil
}
