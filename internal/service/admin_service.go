package service

import (
	"context"
	"time"

	"github.com/campusfound/lostfound-backend/internal/models"
	"github.com/campusfound/lostfound-backend/internal/pkg/apperror"
)

// AdminItemRepository is the item storage surface of the admin service.
type AdminItemRepository interface {
	List(ctx context.Context, filter models.ItemFilter) ([]models.Item, error)
	ListExpiring(ctx context.Context, now, until time.Time) ([]models.Item, error)
	Count(ctx context.Context, itemType, status string) (int, error)
	CountExpiring(ctx context.Context, now, until time.Time) (int, error)
}

// AdminClaimRepository is the claim storage surface of the admin service.
type AdminClaimRepository interface {
	ListPending(ctx context.Context) ([]models.ClaimWithContext, error)
	CountByStatus(ctx context.Context, status string) (int, error)
}

// AdminListingCounter counts open marketplace listings for the dashboard.
type AdminListingCounter interface {
	CountAvailable(ctx context.Context) (int, error)
}

// Stats is the admin dashboard snapshot.
type Stats struct {
	TotalLostItems      int `json:"totalLostItems"`
	TotalFoundItems     int `json:"totalFoundItems"`
	AvailableFoundItems int `json:"availableFoundItems"`
	PendingClaims       int `json:"pendingClaims"`
	ApprovedClaims      int `json:"approvedClaims"`
	MarketplaceItems    int `json:"marketplaceItems"`
	ExpiringItems       int `json:"expiringItems"`
}

// AdminService backs the moderation dashboard: pending queues, inventory
// views and aggregate counters.
type AdminService struct {
	items            AdminItemRepository
	claims           AdminClaimRepository
	listings         AdminListingCounter
	expiringSoonDays int
}

// NewAdminService creates the service. expiringSoonDays bounds the
// expiring-soon window; zero falls back to a week.
func NewAdminService(items AdminItemRepository, claims AdminClaimRepository, listings AdminListingCounter, expiringSoonDays int) *AdminService {
	if expiringSoonDays <= 0 {
		expiringSoonDays = 7
	}
	return &AdminService{
		items:            items,
		claims:           claims,
		listings:         listings,
		expiringSoonDays: expiringSoonDays,
	}
}

// ListPendingClaims returns the moderation queue, oldest first.
func (s *AdminService) ListPendingClaims(ctx context.Context) ([]models.ClaimWithContext, error) {
	return s.claims.ListPending(ctx)
}

// ListFoundItems returns found items in any status, optionally narrowed.
func (s *AdminService) ListFoundItems(ctx context.Context, status string) ([]models.ItemWithExpiry, error) {
	switch status {
	case "", models.ItemStatusActive, models.ItemStatusClaimed, models.ItemStatusExpired, models.ItemStatusMarketplace:
	default:
		return nil, apperror.New(apperror.ErrCodeValidation, "unknown item status")
	}

	filter := models.ItemFilter{Type: models.ItemTypeFound, Status: status}
	if status == "" {
		filter.Status = models.ItemStatusAny
	}

	items, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return decorateExpiry(items, time.Now()), nil
}

// ListExpiringSoon returns active found items whose hold period ends within
// the configured window.
func (s *AdminService) ListExpiringSoon(ctx context.Context) ([]models.ItemWithExpiry, error) {
	now := time.Now()
	until := now.AddDate(0, 0, s.expiringSoonDays)

	items, err := s.items.ListExpiring(ctx, now, until)
	if err != nil {
		return nil, err
	}
	return decorateExpiry(items, now), nil
}

// GetStats assembles the dashboard counters.
func (s *AdminService) GetStats(ctx context.Context) (*Stats, error) {
	now := time.Now()
	stats := &Stats{}

	var err error
	if stats.TotalLostItems, err = s.items.Count(ctx, models.ItemTypeLost, ""); err != nil {
		return nil, err
	}
	if stats.TotalFoundItems, err = s.items.Count(ctx, models.ItemTypeFound, ""); err != nil {
		return nil, err
	}
	if stats.AvailableFoundItems, err = s.items.Count(ctx, models.ItemTypeFound, models.ItemStatusActive); err != nil {
		return nil, err
	}
	if stats.PendingClaims, err = s.claims.CountByStatus(ctx, models.ClaimStatusPending); err != nil {
		return nil, err
	}
	if stats.ApprovedClaims, err = s.claims.CountByStatus(ctx, models.ClaimStatusApproved); err != nil {
		return nil, err
	}
	if stats.MarketplaceItems, err = s.listings.CountAvailable(ctx); err != nil {
		return nil, err
	}
	if stats.ExpiringItems, err = s.items.CountExpiring(ctx, now, now.AddDate(0, 0, s.expiringSoonDays)); err != nil {
		return nil, err
	}

	return stats, nil
}
