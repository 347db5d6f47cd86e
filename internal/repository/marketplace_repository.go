package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusfound/lostfound-backend/internal/models"
)

// ErrListingNotFound is returned when no marketplace listing matches.
var ErrListingNotFound = errors.New("marketplace listing not found")

// ErrListingExists is returned when an item already backs a listing. At most
// one listing per source item, enforced by a unique constraint.
var ErrListingExists = errors.New("item already has a marketplace listing")

// ErrListingClaimed is returned to every loser of the first-come-first-served
// race. A defined outcome, not a server failure.
var ErrListingClaimed = errors.New("listing already claimed")

const listingColumns = `
	m.id, m.item_id, m.pickup_location, m.price, m.status, m.listed_at,
	m.claimed_by, m.claimed_at, m.created_at, m.updated_at,
	i.title AS item_title, i.description AS item_description,
	i.category AS item_category, i.image_url AS item_image_url, i.user_id AS item_owner_id
`

const listingJoins = `
	FROM marketplace_items m
	JOIN items i ON i.id = m.item_id
`

// MarketplaceRepository owns the marketplace_items table.
type MarketplaceRepository struct {
	db *sqlx.DB
}

// NewMarketplaceRepository creates the repository.
func NewMarketplaceRepository(db *sqlx.DB) *MarketplaceRepository {
	return &MarketplaceRepository{db: db}
}

// Create inserts a listing and moves the source item to marketplace status in
// one transaction. A listing over an item left active would keep the item
// claimable on the lost-and-found board at the same time.
func (r *MarketplaceRepository) Create(ctx context.Context, listing *models.MarketplaceItem) (err error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("marketplace repository: begin tx %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `
		INSERT INTO marketplace_items (item_id, pickup_location, price, status, listed_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	if err = tx.QueryRowxContext(
		ctx, query,
		listing.ItemID, listing.PickupLocation, listing.Price, listing.Status, listing.ListedAt,
	).Scan(&listing.ID, &listing.CreatedAt, &listing.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrListingExists
		}
		return fmt.Errorf("marketplace repository: insert listing %w", err)
	}

	if err = transitionItemStatus(ctx, tx, listing.ItemID, models.ItemStatusMarketplace); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("marketplace repository: commit %w", err)
	}

	return nil
}

// GetByID returns a listing with its source item's descriptive fields.
func (r *MarketplaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MarketplaceItemWithItem, error) {
	var listing models.MarketplaceItemWithItem
	query := `SELECT ` + listingColumns + listingJoins + ` WHERE m.id = $1`

	if err := r.db.GetContext(ctx, &listing, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("marketplace repository: get by id %w", err)
	}

	return &listing, nil
}

// ListAvailable returns claimable listings matching the filter, newest first.
func (r *MarketplaceRepository) ListAvailable(ctx context.Context, filter models.MarketplaceFilter) ([]models.MarketplaceItemWithItem, error) {
	var (
		conditions []string
		args       []interface{}
	)

	args = append(args, models.ListingStatusAvailable)
	conditions = append(conditions, "m.status = $1")

	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("i.category = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, filter.Search)
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(i.title ILIKE '%%' || $%d || '%%' OR i.description ILIKE '%%' || $%d || '%%')", n, n,
		))
	}

	query := `SELECT ` + listingColumns + listingJoins + ` WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY m.listed_at DESC`

	listings := []models.MarketplaceItemWithItem{}
	if err := r.db.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, fmt.Errorf("marketplace repository: list available %w", err)
	}

	return listings, nil
}

// Claim resolves the first-come-first-served race with a single conditional
// update: the status guard is the compare-and-swap, so under any number of
// concurrent requests exactly one flips the row and every other sees zero
// rows affected. No read-then-write window exists.
func (r *MarketplaceRepository) Claim(ctx context.Context, listingID, userID uuid.UUID, now time.Time) (*models.MarketplaceItemWithItem, error) {
	query := `
		UPDATE marketplace_items
		SET status = $2, claimed_by = $3, claimed_at = $4, updated_at = NOW()
		WHERE id = $1 AND status = $5
	`
	res, err := r.db.ExecContext(ctx, query,
		listingID, models.ListingStatusClaimed, userID, now, models.ListingStatusAvailable,
	)
	if err != nil {
		return nil, fmt.Errorf("marketplace repository: claim %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("marketplace repository: claim rows %w", err)
	}
	if rows == 0 {
		var status string
		err := r.db.GetContext(ctx, &status, `SELECT status FROM marketplace_items WHERE id = $1`, listingID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("marketplace repository: claim check %w", err)
		}
		return nil, ErrListingClaimed
	}

	return r.GetByID(ctx, listingID)
}

// ListClaimedBy returns the listings one user has won, latest win first.
func (r *MarketplaceRepository) ListClaimedBy(ctx context.Context, userID uuid.UUID) ([]models.MarketplaceItemWithItem, error) {
	query := `SELECT ` + listingColumns + listingJoins + ` WHERE m.claimed_by = $1 ORDER BY m.claimed_at DESC`

	listings := []models.MarketplaceItemWithItem{}
	if err := r.db.SelectContext(ctx, &listings, query, userID); err != nil {
		return nil, fmt.Errorf("marketplace repository: list claimed by %w", err)
	}

	return listings, nil
}

// CountAvailable returns the number of claimable listings.
func (r *MarketplaceRepository) CountAvailable(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM marketplace_items WHERE status = $1`
	if err := r.db.GetContext(ctx, &count, query, models.ListingStatusAvailable); err != nil {
		return 0, fmt.Errorf("marketplace repository: count available %w", err)
	}

	return count, nil
}
