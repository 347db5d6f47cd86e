package models

import (
	"time"

	"github.com/google/uuid"
)

// Claim is one user's assertion of ownership over a found item. A claim is
// reviewed exactly once: it leaves "pending" through an admin decision and is
// immutable afterwards.
type Claim struct {
	ID                  uuid.UUID  `db:"id" json:"id"`
	ItemID              uuid.UUID  `db:"item_id" json:"item_id"`
	ClaimantID          uuid.UUID  `db:"claimant_id" json:"claimant_id"`
	Description         string     `db:"description" json:"description"`
	VerificationDetails string     `db:"verification_details" json:"verification_details"`
	Status              string     `db:"status" json:"status"`
	ReviewedBy          *uuid.UUID `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewNotes         *string    `db:"review_notes" json:"review_notes,omitempty"`
	ReviewedAt          *time.Time `db:"reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// ClaimWithContext joins the claim with the item and claimant identity that
// moderation and listing views need.
type ClaimWithContext struct {
	Claim
	ItemTitle     string    `db:"item_title" json:"item_title"`
	ItemType      string    `db:"item_type" json:"item_type"`
	ItemStatus    string    `db:"item_status" json:"item_status"`
	ItemOwnerID   uuid.UUID `db:"item_owner_id" json:"item_owner_id"`
	ClaimantName  string    `db:"claimant_name" json:"claimant_name"`
	ClaimantEmail string    `db:"claimant_email" json:"claimant_email"`
}
