package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusfound/lostfound-backend/internal/models"
)

// ErrClaimNotFound is returned when no claim record matches.
var ErrClaimNotFound = errors.New("claim not found")

// ErrDuplicateClaim is returned when a claimant already has a pending claim
// on the same item. Enforced by a partial unique index, so two concurrent
// submissions cannot both get through.
var ErrDuplicateClaim = errors.New("a pending claim on this item already exists")

// ErrClaimAlreadyProcessed is returned when a decision is applied to a claim
// that has already left pending. Decisions are final.
var ErrClaimAlreadyProcessed = errors.New("claim already processed")

const claimColumns = `
	c.id, c.item_id, c.claimant_id, c.description, c.verification_details,
	c.status, c.reviewed_by, c.review_notes, c.reviewed_at, c.created_at, c.updated_at,
	i.title AS item_title, i.type AS item_type, i.status AS item_status, i.user_id AS item_owner_id,
	cu.name AS claimant_name, cu.email AS claimant_email
`

const claimJoins = `
	FROM claims c
	JOIN items i ON i.id = c.item_id
	JOIN users cu ON cu.id = c.claimant_id
`

// ClaimRepository owns the claims table and the approval cascade into items.
type ClaimRepository struct {
	db *sqlx.DB
}

// NewClaimRepository creates the repository.
func NewClaimRepository(db *sqlx.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

// Create inserts a pending claim.
func (r *ClaimRepository) Create(ctx context.Context, claim *models.Claim) error {
	query := `
		INSERT INTO claims (item_id, claimant_id, description, verification_details, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		claim.ItemID, claim.ClaimantID, claim.Description, claim.VerificationDetails, claim.Status,
	).Scan(&claim.ID, &claim.CreatedAt, &claim.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateClaim
		}
		return fmt.Errorf("claim repository: create %w", err)
	}

	return nil
}

// GetByID returns a claim with its item and claimant context.
func (r *ClaimRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ClaimWithContext, error) {
	var claim models.ClaimWithContext
	query := `SELECT ` + claimColumns + claimJoins + ` WHERE c.id = $1`

	if err := r.db.GetContext(ctx, &claim, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClaimNotFound
		}
		return nil, fmt.Errorf("claim repository: get by id %w", err)
	}

	return &claim, nil
}

// ListByClaimant returns the claims one user has submitted, newest first.
func (r *ClaimRepository) ListByClaimant(ctx context.Context, claimantID uuid.UUID) ([]models.ClaimWithContext, error) {
	query := `SELECT ` + claimColumns + claimJoins + ` WHERE c.claimant_id = $1 ORDER BY c.created_at DESC`

	claims := []models.ClaimWithContext{}
	if err := r.db.SelectContext(ctx, &claims, query, claimantID); err != nil {
		return nil, fmt.Errorf("claim repository: list by claimant %w", err)
	}

	return claims, nil
}

// ListForItemOwner returns the claims filed against one user's items.
func (r *ClaimRepository) ListForItemOwner(ctx context.Context, ownerID uuid.UUID) ([]models.ClaimWithContext, error) {
	query := `SELECT ` + claimColumns + claimJoins + ` WHERE i.user_id = $1 ORDER BY c.created_at DESC`

	claims := []models.ClaimWithContext{}
	if err := r.db.SelectContext(ctx, &claims, query, ownerID); err != nil {
		return nil, fmt.Errorf("claim repository: list for item owner %w", err)
	}

	return claims, nil
}

// ListPending returns every pending claim for moderation, newest first.
func (r *ClaimRepository) ListPending(ctx context.Context) ([]models.ClaimWithContext, error) {
	query := `SELECT ` + claimColumns + claimJoins + ` WHERE c.status = $1 ORDER BY c.created_at DESC`

	claims := []models.ClaimWithContext{}
	if err := r.db.SelectContext(ctx, &claims, query, models.ClaimStatusPending); err != nil {
		return nil, fmt.Errorf("claim repository: list pending %w", err)
	}

	return claims, nil
}

// HasClaims reports whether any claim, pending or already decided, references
// the item. Claims are never detached from their item, so the item row cannot
// be removed while one exists.
func (r *ClaimRepository) HasClaims(ctx context.Context, itemID uuid.UUID) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM claims WHERE item_id = $1`
	if err := r.db.GetContext(ctx, &count, query, itemID); err != nil {
		return false, fmt.Errorf("claim repository: has claims %w", err)
	}

	return count > 0, nil
}

// Approve flips a pending claim to approved and the backing item to claimed
// in one transaction. Either both rows change or neither does; a claim
// approved against an item left active would let a second claimant win an
// already resolved item.
func (r *ClaimRepository) Approve(ctx context.Context, claimID, reviewerID uuid.UUID, notes *string, now time.Time) (err error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("claim repository: begin tx %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `
		UPDATE claims
		SET status = $2, reviewed_by = $3, review_notes = $4, reviewed_at = $5, updated_at = NOW()
		WHERE id = $1 AND status = $6
		RETURNING item_id
	`

	var itemID uuid.UUID
	err = tx.QueryRowxContext(ctx, query,
		claimID, models.ClaimStatusApproved, reviewerID, notes, now, models.ClaimStatusPending,
	).Scan(&itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r.decisionRaceError(ctx, claimID)
		}
		return fmt.Errorf("claim repository: approve %w", err)
	}

	if err = transitionItemStatus(ctx, tx, itemID, models.ItemStatusClaimed); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("claim repository: commit approve %w", err)
	}

	return nil
}

// Reject flips a pending claim to rejected. The item is not touched.
func (r *ClaimRepository) Reject(ctx context.Context, claimID, reviewerID uuid.UUID, notes *string, now time.Time) error {
	query := `
		UPDATE claims
		SET status = $2, reviewed_by = $3, review_notes = $4, reviewed_at = $5, updated_at = NOW()
		WHERE id = $1 AND status = $6
	`
	res, err := r.db.ExecContext(ctx, query,
		claimID, models.ClaimStatusRejected, reviewerID, notes, now, models.ClaimStatusPending,
	)
	if err != nil {
		return fmt.Errorf("claim repository: reject %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return r.decisionRaceError(ctx, claimID)
	}

	return nil
}

// decisionRaceError tells a missing claim apart from one already decided.
func (r *ClaimRepository) decisionRaceError(ctx context.Context, claimID uuid.UUID) error {
	var status string
	err := r.db.GetContext(ctx, &status, `SELECT status FROM claims WHERE id = $1`, claimID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrClaimNotFound
	}
	if err != nil {
		return fmt.Errorf("claim repository: decision check %w", err)
	}
	return ErrClaimAlreadyProcessed
}

// CountByStatus returns the number of claims in the given status.
func (r *ClaimRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM claims WHERE status = $1`
	if err := r.db.GetContext(ctx, &count, query, status); err != nil {
		return 0, fmt.Errorf("claim repository: count by status %w", err)
	}

	return count, nil
}
