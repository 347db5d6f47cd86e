package models

import (
	"time"

	"github.com/google/uuid"
)

// MarketplaceItem is a first-come-first-served listing backed by exactly one
// found item. The listing is claimable once: "available" flips to "claimed"
// through a single conditional update and never back.
type MarketplaceItem struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	ItemID         uuid.UUID  `db:"item_id" json:"item_id"`
	PickupLocation string     `db:"pickup_location" json:"pickup_location"`
	Price          *float64   `db:"price" json:"price,omitempty"`
	Status         string     `db:"status" json:"status"`
	ListedAt       time.Time  `db:"listed_at" json:"listed_at"`
	ClaimedBy      *uuid.UUID `db:"claimed_by" json:"claimed_by,omitempty"`
	ClaimedAt      *time.Time `db:"claimed_at" json:"claimed_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// MarketplaceItemWithItem joins a listing with its source item's descriptive
// fields for browse views.
type MarketplaceItemWithItem struct {
	MarketplaceItem
	ItemTitle       string    `db:"item_title" json:"item_title"`
	ItemDescription string    `db:"item_description" json:"item_description"`
	ItemCategory    string    `db:"item_category" json:"item_category"`
	ItemImageURL    *string   `db:"item_image_url" json:"item_image_url,omitempty"`
	ItemOwnerID     uuid.UUID `db:"item_owner_id" json:"item_owner_id"`
}

// MarketplaceFilter narrows public marketplace listings.
type MarketplaceFilter struct {
	Category string
	Search   string
}
