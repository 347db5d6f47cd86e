package models

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Item report types.
const (
	ItemTypeLost  = "lost"
	ItemTypeFound = "found"
)

// Item statuses. Transitions are monotonic: an item leaves "active" at most
// once and never returns.
const (
	ItemStatusActive      = "active"
	ItemStatusClaimed     = "claimed"
	ItemStatusExpired     = "expired"
	ItemStatusMarketplace = "marketplace"

	// ItemStatusAny is a filter value, never stored.
	ItemStatusAny = "any"
)

// Claim statuses. "pending" is the only non-terminal state.
const (
	ClaimStatusPending  = "pending"
	ClaimStatusApproved = "approved"
	ClaimStatusRejected = "rejected"
)

// Marketplace listing statuses.
const (
	ListingStatusAvailable = "available"
	ListingStatusClaimed   = "claimed"
)

// Notification event names.
const (
	EventClaimSubmitted  = "claim.submitted"
	EventClaimApproved   = "claim.approved"
	EventClaimRejected   = "claim.rejected"
	EventListingClaimed  = "marketplace.claimed"
	EventListingPromoted = "marketplace.promoted"
)
