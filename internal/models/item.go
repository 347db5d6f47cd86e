package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Item is a single lost or found report. Found items carry an expiry
// timestamp (date found + hold period); lost items never expire.
type Item struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Type         string     `db:"type" json:"type"`
	Title        string     `db:"title" json:"title"`
	Description  string     `db:"description" json:"description"`
	Category     string     `db:"category" json:"category"`
	Location     string     `db:"location" json:"location"`
	Date         time.Time  `db:"date" json:"date"`
	ImageURL     *string    `db:"image_url" json:"image_url,omitempty"`
	ContactEmail string     `db:"contact_email" json:"contact_email"`
	ContactPhone *string    `db:"contact_phone" json:"contact_phone,omitempty"`
	Status       string     `db:"status" json:"status"`
	ExpiresAt    *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	UserID       uuid.UUID  `db:"user_id" json:"user_id"`
	ReporterName *string    `db:"reporter_name" json:"reporter_name,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// ItemWithExpiry is an item decorated with expiry info computed at read time.
// Hold expiry is lazy: nothing in storage flips an item to "expired", the
// remaining days are derived from expires_at on every read.
type ItemWithExpiry struct {
	Item
	DaysUntilExpiry *int `json:"days_until_expiry,omitempty"`
	IsExpiring      bool `json:"is_expiring"`
}

// expiringWindow is how close to expiry an item counts as "expiring".
const expiringWindow = 3 * 24 * time.Hour

// WithExpiry computes the read-time expiry view of the item.
func (i Item) WithExpiry(now time.Time) ItemWithExpiry {
	out := ItemWithExpiry{Item: i}
	if i.ExpiresAt == nil {
		return out
	}

	remaining := i.ExpiresAt.Sub(now)
	days := int(math.Ceil(remaining.Hours() / 24))
	out.DaysUntilExpiry = &days
	out.IsExpiring = remaining < expiringWindow
	return out
}

// IsExpired reports whether a found item's hold period has lapsed.
func (i Item) IsExpired(now time.Time) bool {
	return i.ExpiresAt != nil && !i.ExpiresAt.After(now)
}

// ItemFilter narrows public item listings.
type ItemFilter struct {
	Type     string
	Category string
	Location string
	Search   string
	Status   string
}
