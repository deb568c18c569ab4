package identity

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/session"
	"tokopos/internal/core/tx"
	"tokopos/internal/domain/audit"
	"tokopos/pkg/logger"
)

// Bootstrap accounts created on an empty user table.
const (
	DefaultAdminUsername   = "admin"
	defaultAdminPassword   = "admin123"
	DefaultCashierUsername = "kasir"
	defaultCashierPassword = "kasir123"
)

const minPasswordLength = 6

// dummyHash is compared against when the username does not exist, so
// verification cost does not reveal whether an account exists.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("tokopos-dummy-password"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}()

// Auditor records identity activity. Satisfied by audit.Service.
type Auditor interface {
	Append(ctx context.Context, aktivitas, detail string) error
}

// Service manages operator accounts and credential verification.
// Account mutations and their audit entries share one unit of work.
type Service struct {
	txm  tx.Manager
	repo Repository
	aud  Auditor
	cost int
}

// NewService creates a new identity service. cost <= 0 selects the
// bcrypt default.
func NewService(txm tx.Manager, repo Repository, aud Auditor, cost int) *Service {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{txm: txm, repo: repo, aud: aud, cost: cost}
}

// Bootstrap seeds the default admin and cashier accounts when the user
// table is empty. Existing installations are left untouched.
func (s *Service) Bootstrap(ctx context.Context) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	defaults := []struct {
		username, password, role string
	}{
		{DefaultAdminUsername, defaultAdminPassword, session.RoleAdmin},
		{DefaultCashierUsername, defaultCashierPassword, session.RoleCashier},
	}
	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, d := range defaults {
			hash, err := bcrypt.GenerateFromPassword([]byte(d.password), s.cost)
			if err != nil {
				return apperror.NewInternal(fmt.Errorf("hash default password: %w", err))
			}
			u := &User{Username: d.username, PasswordHash: string(hash), Role: d.role}
			if err := s.repo.Create(ctx, u); err != nil {
				return err
			}
			logger.Info(ctx, "default account created", "username", d.username, "role", d.role)
		}
		return nil
	})
}

// Verify checks a username/password pair and returns the account on
// success. The failure path always performs a bcrypt comparison.
func (s *Service) Verify(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)

	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, apperror.NewUnauthorized("username atau password salah")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.NewUnauthorized("username atau password salah")
	}

	if err := s.aud.Append(session.WithActor(ctx, &session.Actor{Username: u.Username, Role: u.Role}),
		audit.ActivityLogin, fmt.Sprintf("username=%s role=%s", u.Username, u.Role)); err != nil {
		logger.Warn(ctx, "failed to record login", "error", err, "username", u.Username)
	}
	return u, nil
}

// Create adds a new account with a freshly hashed password.
func (s *Service) Create(ctx context.Context, username, password, role string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.NewValidation("username wajib diisi")
	}
	if len(password) < minPasswordLength {
		return nil, apperror.NewValidation(fmt.Sprintf("password minimal %d karakter", minPasswordLength))
	}
	if role != session.RoleAdmin && role != session.RoleCashier {
		return nil, apperror.NewValidation("role harus admin atau kasir")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("hash password: %w", err))
	}

	u := &User{Username: username, PasswordHash: string(hash), Role: role}
	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, u); err != nil {
			return err
		}
		return s.aud.Append(ctx, audit.ActivityUserAdmin,
			fmt.Sprintf("tambah user=%s role=%s", u.Username, u.Role))
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ChangePassword replaces an account's password hash.
func (s *Service) ChangePassword(ctx context.Context, id int64, password string) error {
	if len(password) < minPasswordLength {
		return apperror.NewValidation(fmt.Sprintf("password minimal %d karakter", minPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("hash password: %w", err))
	}

	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		u, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		u.PasswordHash = string(hash)

		if err := s.repo.Update(ctx, u); err != nil {
			return err
		}

		return s.aud.Append(ctx, audit.ActivityUserAdmin,
			fmt.Sprintf("ganti password user=%s", u.Username))
	})
}

// Rename changes an account's username. The new name must be unique.
func (s *Service) Rename(ctx context.Context, id int64, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return apperror.NewValidation("username wajib diisi")
	}

	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		u, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if u.Username == username {
			return nil
		}

		old := u.Username
		u.Username = username
		if err := s.repo.Update(ctx, u); err != nil {
			return err
		}

		return s.aud.Append(ctx, audit.ActivityUserAdmin,
			fmt.Sprintf("ganti username user=%s menjadi=%s", old, username))
	})
}

// SetRole changes an account's role. Demoting the last remaining admin
// is refused.
func (s *Service) SetRole(ctx context.Context, id int64, role string) error {
	if role != session.RoleAdmin && role != session.RoleCashier {
		return apperror.NewValidation("role harus admin atau kasir")
	}

	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		u, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if u.Role == role {
			return nil
		}

		if u.IsAdmin() {
			if err := s.guardLastAdmin(ctx, u.Username); err != nil {
				return err
			}
		}

		u.Role = role
		if err := s.repo.Update(ctx, u); err != nil {
			return err
		}

		return s.aud.Append(ctx, audit.ActivityUserAdmin,
			fmt.Sprintf("ubah role user=%s role=%s", u.Username, role))
	})
}

// Delete removes an account. Deleting the last remaining admin is
// refused.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		u, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if u.IsAdmin() {
			if err := s.guardLastAdmin(ctx, u.Username); err != nil {
				return err
			}
		}

		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}

		return s.aud.Append(ctx, audit.ActivityUserAdmin,
			fmt.Sprintf("hapus user=%s", u.Username))
	})
}

func (s *Service) guardLastAdmin(ctx context.Context, username string) error {
	admins, err := s.repo.CountByRole(ctx, session.RoleAdmin)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return apperror.NewLastAdmin(username)
	}
	return nil
}

// List returns all accounts ordered by username.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// GetByID returns an account or NOT_FOUND.
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// MigratePasswords hashes any password column values that predate
// bcrypt storage. Returns the number of accounts migrated.
func (s *Service) MigratePasswords(ctx context.Context) (int, error) {
	migrated := 0
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		users, err := s.repo.List(ctx)
		if err != nil {
			return err
		}

		for i := range users {
			u := &users[i]
			if strings.HasPrefix(u.PasswordHash, "$2a$") ||
				strings.HasPrefix(u.PasswordHash, "$2b$") ||
				strings.HasPrefix(u.PasswordHash, "$2y$") {
				continue
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(u.PasswordHash), s.cost)
			if err != nil {
				return apperror.NewInternal(fmt.Errorf("hash password for %s: %w", u.Username, err))
			}
			u.PasswordHash = string(hash)
			if err := s.repo.Update(ctx, u); err != nil {
				return err
			}
			migrated++
			logger.Info(ctx, "password migrated to bcrypt", "username", u.Username)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return migrated, nil
}
