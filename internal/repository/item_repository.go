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

// ErrItemNotFound is returned when no item record matches.
var ErrItemNotFound = errors.New("item not found")

// ErrInvalidTransition is returned when a status change is attempted on an
// item that is no longer active. Item statuses are monotonic.
var ErrInvalidTransition = errors.New("item is not active")

const itemColumns = `
	i.id, i.type, i.title, i.description, i.category, i.location, i.date,
	i.image_url, i.contact_email, i.contact_phone, i.status, i.expires_at,
	i.user_id, u.name AS reporter_name, i.created_at, i.updated_at
`

// ItemRepository owns the items table.
type ItemRepository struct {
	db *sqlx.DB
}

// NewItemRepository creates the repository.
func NewItemRepository(db *sqlx.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create inserts a new report with status active.
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO items (type, title, description, category, location, date, image_url, contact_email, contact_phone, status, expires_at, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		item.Type, item.Title, item.Description, item.Category, item.Location,
		item.Date, item.ImageURL, item.ContactEmail, item.ContactPhone,
		item.Status, item.ExpiresAt, item.UserID,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return fmt.Errorf("item repository: create %w", err)
	}

	return nil
}

// GetByID returns a single item with its reporter's name.
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	query := `SELECT ` + itemColumns + ` FROM items i JOIN users u ON u.id = i.user_id WHERE i.id = $1`

	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("item repository: get by id %w", err)
	}

	return &item, nil
}

// List returns items matching the filter, newest first. With no status filter
// only active reports are returned, so items moved to the marketplace drop
// out of the public board.
func (r *ItemRepository) List(ctx context.Context, filter models.ItemFilter) ([]models.Item, error) {
	var (
		conditions = []string{"TRUE"}
		args       []interface{}
	)

	addCondition := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	status := filter.Status
	if status == "" {
		status = models.ItemStatusActive
	}
	if status != models.ItemStatusAny {
		addCondition("i.status = $%d", status)
	}

	if filter.Type != "" {
		addCondition("i.type = $%d", filter.Type)
	}
	if filter.Category != "" {
		addCondition("i.category = $%d", filter.Category)
	}
	if filter.Location != "" {
		addCondition("i.location ILIKE '%%' || $%d || '%%'", filter.Location)
	}
	if filter.Search != "" {
		args = append(args, filter.Search)
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(i.title ILIKE '%%' || $%d || '%%' OR i.description ILIKE '%%' || $%d || '%%' OR i.category ILIKE '%%' || $%d || '%%' OR i.location ILIKE '%%' || $%d || '%%')",
			n, n, n, n,
		))
	}

	query := `SELECT ` + itemColumns + ` FROM items i JOIN users u ON u.id = i.user_id WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY i.created_at DESC`

	items := []models.Item{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("item repository: list %w", err)
	}

	return items, nil
}

// ListByOwner returns every report made by one user, regardless of status.
func (r *ItemRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items i JOIN users u ON u.id = i.user_id WHERE i.user_id = $1 ORDER BY i.created_at DESC`

	items := []models.Item{}
	if err := r.db.SelectContext(ctx, &items, query, ownerID); err != nil {
		return nil, fmt.Errorf("item repository: list by owner %w", err)
	}

	return items, nil
}

// Update rewrites the descriptive fields of an item.
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	query := `
		UPDATE items
		SET title = $1,
		    description = $2,
		    category = $3,
		    location = $4,
		    date = $5,
		    image_url = $6,
		    contact_email = $7,
		    contact_phone = $8,
		    updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		item.Title, item.Description, item.Category, item.Location, item.Date,
		item.ImageURL, item.ContactEmail, item.ContactPhone, item.ID,
	).Scan(&item.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrItemNotFound
		}
		return fmt.Errorf("item repository: update %w", err)
	}

	return nil
}

// Delete removes an item row.
func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("item repository: delete %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrItemNotFound
	}

	return nil
}

// TransitionStatus moves an item out of active in a single conditional
// update. The guard on the current status is what makes transitions
// monotonic under concurrent requests.
func (r *ItemRepository) TransitionStatus(ctx context.Context, id uuid.UUID, to string) error {
	return transitionItemStatus(ctx, r.db, id, to)
}

// transitionItemStatus runs the guarded update against db or an open
// transaction, so cascading writes can share one commit.
func transitionItemStatus(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID, to string) error {
	query := `
		UPDATE items
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
	`
	res, err := ext.ExecContext(ctx, query, id, to, models.ItemStatusActive)
	if err != nil {
		return fmt.Errorf("item repository: transition status %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("item repository: transition status rows %w", err)
	}
	if rows == 0 {
		// Distinguish a missing item from one already out of active.
		var current string
		err := sqlx.GetContext(ctx, ext, &current, `SELECT status FROM items WHERE id = $1`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrItemNotFound
		}
		if err != nil {
			return fmt.Errorf("item repository: transition status check %w", err)
		}
		return ErrInvalidTransition
	}

	return nil
}

// ExtendHold pushes the expiry of an active found item further out.
func (r *ItemRepository) ExtendHold(ctx context.Context, id uuid.UUID, extraDays int) (*models.Item, error) {
	query := `
		UPDATE items
		SET expires_at = expires_at + ($2 || ' days')::interval, updated_at = NOW()
		WHERE id = $1 AND status = $3 AND expires_at IS NOT NULL
		RETURNING id
	`
	var updatedID uuid.UUID
	if err := r.db.QueryRowxContext(ctx, query, id, extraDays, models.ItemStatusActive).Scan(&updatedID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("item repository: extend hold %w", err)
	}

	return r.GetByID(ctx, id)
}

// ListExpiring returns active found items whose hold lapses inside the
// window, soonest first.
func (r *ItemRepository) ListExpiring(ctx context.Context, now, until time.Time) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + `
		FROM items i JOIN users u ON u.id = i.user_id
		WHERE i.type = $1 AND i.status = $2 AND i.expires_at > $3 AND i.expires_at <= $4
		ORDER BY i.expires_at ASC`

	items := []models.Item{}
	if err := r.db.SelectContext(ctx, &items, query, models.ItemTypeFound, models.ItemStatusActive, now, until); err != nil {
		return nil, fmt.Errorf("item repository: list expiring %w", err)
	}

	return items, nil
}

// Count returns the number of items matching the optional type and status.
func (r *ItemRepository) Count(ctx context.Context, itemType, status string) (int, error) {
	var (
		conditions = []string{"TRUE"}
		args       []interface{}
	)

	if itemType != "" {
		args = append(args, itemType)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	if status != "" {
		args = append(args, status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	var count int
	query := `SELECT COUNT(*) FROM items WHERE ` + strings.Join(conditions, " AND ")
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("item repository: count %w", err)
	}

	return count, nil
}

// CountExpiring returns the number of active found items lapsing inside the window.
func (r *ItemRepository) CountExpiring(ctx context.Context, now, until time.Time) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM items
		WHERE type = $1 AND status = $2 AND expires_at > $3 AND expires_at <= $4
	`
	if err := r.db.GetContext(ctx, &count, query, models.ItemTypeFound, models.ItemStatusActive, now, until); err != nil {
		return 0, fmt.Errorf("item repository: count expiring %w", err)
	}

	return count, nil
}
