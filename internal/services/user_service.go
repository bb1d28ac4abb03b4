package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lmoretti/referral-api/internal/auth"
	"github.com/lmoretti/referral-api/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(ctx context.Context, id int64) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUsersByReferralCode(ctx context.Context, code string, limit, offset int) ([]models.User, error)
	Register(ctx context.Context, name, email, password, referralCode string) (int64, error)
	Authenticate(ctx context.Context, email, password string) (models.User, error)
}

// UserService provides account lookup, registration, and authentication over
// the pooled store. Every operation acquires one connection from the pool for
// exactly one unit of work under a deadline that covers acquisition itself;
// database/sql returns the connection on every exit path.
type UserService struct {
	db           *sql.DB
	hasher       auth.Hasher
	storeTimeout time.Duration
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, hasher auth.Hasher, storeTimeout time.Duration) *UserService {
	return &UserService{db: db, hasher: hasher, storeTimeout: storeTimeout}
}

const userColumns = "id, name, email, password_hash, referral_code, created_at"

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

// GetUserByEmail retrieves a single user by their email, including the
// password hash.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
	return scanUser(row)
}

// GetUsersByReferralCode retrieves the users referred by the given code,
// paginated. No matches yields an empty slice, not an error; only a genuine
// store fault errors.
func (s *UserService) GetUsersByReferralCode(ctx context.Context, code string, limit, offset int) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE referral_code = ? ORDER BY id LIMIT ? OFFSET ?",
		code, limit, offset)
	if err != nil {
		return nil, storeError(err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.ReferralCode, &user.CreatedAt); err != nil {
			return nil, storeError(err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(err)
	}
	return users, nil
}

// Register creates a new user, hashing their password, and returns the
// store-assigned id. A duplicate email yields models.ErrEmailTaken; the
// pre-check exists for the friendlier error, the UNIQUE constraint on email
// is the authoritative guard against the check-then-insert race.
func (s *UserService) Register(ctx context.Context, name, email, password, referralCode string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM users WHERE email = ?", email).Scan(&exists)
	if err == nil {
		return 0, models.ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, storeError(err)
	}

	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users(name, email, password_hash, referral_code) VALUES(?, ?, ?, ?)",
		name, email, hashedPassword, referralCode)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, models.ErrEmailTaken
		}
		return 0, storeError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, storeError(err)
	}

	log.Info().Int64("user_id", id).Msg("Registered new user")
	return id, nil
}

// Authenticate verifies a user's credentials. An unknown email and a wrong
// password are indistinguishable to the caller: both are
// models.ErrInvalidCredentials, so authentication cannot be used to probe
// which accounts exist.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.User{}, models.ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return models.User{}, models.ErrInvalidCredentials
	}
	return user, nil
}

func scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.ReferralCode, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, models.ErrNotFound
		}
		return models.User{}, storeError(err)
	}
	return user, nil
}

// storeError translates a driver or pool fault into the service taxonomy,
// keeping the cause in the chain for logs but never for clients.
func storeError(err error) error {
	return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
