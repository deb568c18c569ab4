package identity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/session"
	"tokopos/internal/domain/audit"
	"tokopos/internal/domain/identity"
	"tokopos/internal/storage/sqlite"
)

// bcrypt.MinCost keeps the tests fast.
func newService(t *testing.T) (*identity.Service, identity.Repository) {
	t.Helper()

	s, err := sqlite.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))

	txm := s.TxManager()
	repo := sqlite.NewUserRepository(txm)
	aud := audit.NewService(sqlite.NewAuditRepository(txm))
	return identity.NewService(txm, repo, aud, bcrypt.MinCost), repo
}

func TestService_BootstrapCreatesDefaults(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.Bootstrap(ctx))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	admin, err := repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, session.RoleAdmin, admin.Role)
	assert.NotEqual(t, "admin123", admin.PasswordHash)

	// A second run leaves existing accounts alone.
	require.NoError(t, svc.Bootstrap(ctx))
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestService_BootstrapSkipsNonEmptyTable(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "owner", "rahasia1", session.RoleAdmin)
	require.NoError(t, err)

	require.NoError(t, svc.Bootstrap(ctx))

	got, err := repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestService_Verify(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.Bootstrap(ctx))

	u, err := svc.Verify(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Username)

	_, err = svc.Verify(ctx, "admin", "wrong")
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))

	// Unknown accounts fail with the same error as wrong passwords.
	_, err = svc.Verify(ctx, "ghost", "admin123")
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
}

func TestService_CreateValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "", "rahasia1", session.RoleCashier)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = svc.Create(ctx, "kasir2", "12345", session.RoleCashier)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = svc.Create(ctx, "kasir2", "rahasia1", "manajer")
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = svc.Create(ctx, "kasir2", "rahasia1", session.RoleCashier)
	require.NoError(t, err)

	_, err = svc.Create(ctx, "kasir2", "rahasia1", session.RoleCashier)
	assert.True(t, apperror.IsCode(err, apperror.CodeDuplicate))
}

func TestService_LastAdminGuard(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.Bootstrap(ctx))

	admin, err := repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)

	// Deleting or demoting the only admin is refused.
	err = svc.Delete(ctx, admin.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeLastAdmin))

	err = svc.SetRole(ctx, admin.ID, session.RoleCashier)
	assert.True(t, apperror.IsCode(err, apperror.CodeLastAdmin))

	// With a second admin both operations go through.
	second, err := svc.Create(ctx, "admin2", "rahasia1", session.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, svc.SetRole(ctx, admin.ID, session.RoleCashier))
	require.NoError(t, svc.Delete(ctx, second.ID))
}

func TestService_MigratePasswords(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	// A legacy row with a plaintext password column.
	legacy := &identity.User{Username: "lama", PasswordHash: "katasandi", Role: session.RoleCashier}
	require.NoError(t, repo.Create(ctx, legacy))

	_, err := svc.Create(ctx, "baru", "rahasia1", session.RoleCashier)
	require.NoError(t, err)

	n, err := svc.MigratePasswords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// The legacy user can now log in with the old plaintext value.
	u, err := svc.Verify(ctx, "lama", "katasandi")
	require.NoError(t, err)
	assert.Equal(t, "lama", u.Username)

	// Idempotent on a second run.
	n, err = svc.MigratePasswords(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestService_ChangePassword(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.Bootstrap(ctx))

	admin, err := repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(ctx, admin.ID, "barubanget"))

	_, err = svc.Verify(ctx, "admin", "admin123")
	assert.Error(t, err)
	_, err = svc.Verify(ctx, "admin", "barubanget")
	assert.NoError(t, err)
}

func TestService_Rename(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.Bootstrap(ctx))

	kasir, err := repo.GetByUsername(ctx, "kasir")
	require.NoError(t, err)

	err = svc.Rename(ctx, kasir.ID, "  ")
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	err = svc.Rename(ctx, kasir.ID, "admin")
	assert.True(t, apperror.IsCode(err, apperror.CodeDuplicate))

	require.NoError(t, svc.Rename(ctx, kasir.ID, "kasir-pagi"))

	_, err = svc.Verify(ctx, "kasir", "kasir123")
	assert.Error(t, err)
	u, err := svc.Verify(ctx, "kasir-pagi", "kasir123")
	require.NoError(t, err)
	assert.Equal(t, session.RoleCashier, u.Role)
}
