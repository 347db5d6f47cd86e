package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campusfound/lostfound-backend/internal/models"
)

// ErrUserNotFound is returned when no user record matches.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken is returned when the email unique constraint is violated.
var ErrEmailTaken = errors.New("email already registered")

const pqUniqueViolation = "23505"

// isUniqueViolation reports whether err is a Postgres unique constraint error.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// UserRepository owns the users table.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates the repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new, unverified user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, name, password_hash, role, is_verified, verification_token, verification_token_expires)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		user.Email, user.Name, user.PasswordHash, user.Role,
		user.IsVerified, user.VerificationToken, user.VerificationTokenExpires,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("user repository: create %w", err)
	}

	return nil
}

// GetByEmail returns the user with the given (lowercased) email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, email, name, password_hash, role, is_verified, verification_token, verification_token_expires, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by email %w", err)
	}

	return &user, nil
}

// GetByID returns the user with the given id.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, email, name, password_hash, role, is_verified, verification_token, verification_token_expires, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by id %w", err)
	}

	return &user, nil
}

// GetByVerificationToken returns the user holding an unexpired token.
func (r *UserRepository) GetByVerificationToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, email, name, password_hash, role, is_verified, verification_token, verification_token_expires, created_at, updated_at
		FROM users
		WHERE verification_token = $1 AND verification_token_expires > $2
	`
	if err := r.db.GetContext(ctx, &user, query, token, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by verification token %w", err)
	}

	return &user, nil
}

// MarkVerified flips is_verified and clears the verification token.
func (r *UserRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET is_verified = TRUE,
		    verification_token = NULL,
		    verification_token_expires = NULL,
		    updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("user repository: mark verified %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

// PromoteToAdmin grants the admin role to an existing account and marks it
// verified. There is no HTTP path to the admin role; only the createadmin
// tool calls this.
func (r *UserRepository) PromoteToAdmin(ctx context.Context, email string) error {
	query := `
		UPDATE users
		SET role = $2,
		    is_verified = TRUE,
		    updated_at = NOW()
		WHERE email = $1
	`
	res, err := r.db.ExecContext(ctx, query, email, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("user repository: promote to admin %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

// SetVerificationToken stores a freshly rotated verification token.
func (r *UserRepository) SetVerificationToken(ctx context.Context, id uuid.UUID, token string, expires time.Time) error {
	query := `
		UPDATE users
		SET verification_token = $2,
		    verification_token_expires = $3,
		    updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, token, expires)
	if err != nil {
		return fmt.Errorf("user repository: set verification token %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrUserNotFound
	}

	return nil
}
