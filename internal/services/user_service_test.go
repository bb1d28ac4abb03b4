package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/lmoretti/referral-api/internal/auth"
	"github.com/lmoretti/referral-api/internal/database"
	"github.com/lmoretti/referral-api/internal/models"
)

func newTestService(t *testing.T) *UserService {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"), 5, 2)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	return NewUserService(db, auth.NewHasher(bcrypt.MinCost), 3*time.Second)
}

func TestRegisterAssignsIDs(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, "A", "a@x.com", "pw1", "R1")
	require.NoError(t, err)
	require.Equal(t, int64(1), id)

	id, err = svc.Register(ctx, "B", "b@x.com", "pw2", "R1")
	require.NoError(t, err)
	require.Equal(t, int64(2), id)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "A", "a@x.com", "pw1", "R1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "A again", "a@x.com", "pw2", "R2")
	require.ErrorIs(t, err, models.ErrEmailTaken)

	// Exactly one row survived for that email.
	users, err := svc.GetUsersByReferralCode(ctx, "R1", 10, 0)
	require.NoError(t, err)
	require.Len(t, users, 1)
	users, err = svc.GetUsersByReferralCode(ctx, "R2", 10, 0)
	require.NoError(t, err)
	require.Empty(t, users)
}

func TestRegisterStoresHashNotPlaintext(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "A", "a@x.com", "pw1", "R1")
	require.NoError(t, err)

	user, err := svc.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotEqual(t, "pw1", user.PasswordHash)
	require.NotEmpty(t, user.PasswordHash)
}

func TestAuthenticate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "A", "a@x.com", "pw1", "R1")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	require.Equal(t, "a@x.com", user.Email)
	require.Equal(t, "A", user.Name)
}

func TestAuthenticateNoEnumeration(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "A", "a@x.com", "pw1", "R1")
	require.NoError(t, err)

	// Wrong password and unknown account must be indistinguishable.
	_, wrongPassword := svc.Authenticate(ctx, "a@x.com", "nope")
	_, unknownEmail := svc.Authenticate(ctx, "nobody@x.com", "pw1")

	require.ErrorIs(t, wrongPassword, models.ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, models.ErrInvalidCredentials)
	require.Equal(t, wrongPassword, unknownEmail)
}

func TestGetUserByID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, "A", "a@x.com", "pw1", "R1")
	require.NoError(t, err)

	user, err := svc.GetUserByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "A", user.Name)
	require.Equal(t, "R1", user.ReferralCode)
	require.False(t, user.CreatedAt.IsZero())

	_, err = svc.GetUserByID(ctx, 9999)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestGetUsersByReferralCodePagination(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, u := range []struct{ name, email string }{
		{"A", "a@x.com"}, {"B", "b@x.com"}, {"C", "c@x.com"},
	} {
		_, err := svc.Register(ctx, u.name, u.email, "pw", "CODE")
		require.NoError(t, err)
	}

	all, err := svc.GetUsersByReferralCode(ctx, "CODE", 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)

	page, err := svc.GetUsersByReferralCode(ctx, "CODE", 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, "B", page[0].Name)
	require.Equal(t, "C", page[1].Name)

	none, err := svc.GetUsersByReferralCode(ctx, "UNUSED", 10, 0)
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}
