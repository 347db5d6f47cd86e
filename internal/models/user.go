package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered member of the campus community.
type User struct {
	ID                       uuid.UUID  `db:"id" json:"id"`
	Email                    string     `db:"email" json:"email"`
	Name                     string     `db:"name" json:"name"`
	PasswordHash             string     `db:"password_hash" json:"-"`
	Role                     string     `db:"role" json:"role"`
	IsVerified               bool       `db:"is_verified" json:"is_verified"`
	VerificationToken        *string    `db:"verification_token" json:"-"`
	VerificationTokenExpires *time.Time `db:"verification_token_expires" json:"-"`
	CreatedAt                time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time  `db:"updated_at" json:"updated_at"`
}
