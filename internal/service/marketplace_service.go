package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/campusfound/lostfound-backend/internal/goroutine"
	"github.com/campusfound/lostfound-backend/internal/logger"
	"github.com/campusfound/lostfound-backend/internal/models"
	"github.com/campusfound/lostfound-backend/internal/pkg/apperror"
	"github.com/campusfound/lostfound-backend/internal/repository"
	"github.com/campusfound/lostfound-backend/internal/validation"
)

// MarketplaceRepository is the storage surface of the marketplace service.
type MarketplaceRepository interface {
	Create(ctx context.Context, listing *models.MarketplaceItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MarketplaceItemWithItem, error)
	ListAvailable(ctx context.Context, filter models.MarketplaceFilter) ([]models.MarketplaceItemWithItem, error)
	Claim(ctx context.Context, listingID, userID uuid.UUID, now time.Time) (*models.MarketplaceItemWithItem, error)
	ListClaimedBy(ctx context.Context, userID uuid.UUID) ([]models.MarketplaceItemWithItem, error)
}

// MarketplaceUserReader resolves the winning claimer for notifications.
type MarketplaceUserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// MarketplaceMailer is the outbound mail surface of the marketplace service.
type MarketplaceMailer interface {
	SendPickupDetailsEmail(to, name, itemTitle, pickupLocation string) error
}

// MarketplaceService promotes unclaimed found items into public listings and
// resolves first-come-first-served claims on them.
type MarketplaceService struct {
	repo     MarketplaceRepository
	items    ClaimItemReader
	users    MarketplaceUserReader
	mailer   MarketplaceMailer
	notifier EventNotifier
}

// PromoteInput carries a promotion request.
type PromoteInput struct {
	ItemID         uuid.UUID
	PickupLocation string
	Price          *float64
}

// NewMarketplaceService creates the service.
func NewMarketplaceService(repo MarketplaceRepository, items ClaimItemReader, users MarketplaceUserReader, mailer MarketplaceMailer, notifier EventNotifier) *MarketplaceService {
	return &MarketplaceService{
		repo:     repo,
		items:    items,
		users:    users,
		mailer:   mailer,
		notifier: notifier,
	}
}

// Promote turns an unclaimed found item into an available listing. The item
// flips to marketplace status in the same transaction as the listing insert.
func (s *MarketplaceService) Promote(ctx context.Context, in PromoteInput) (*models.MarketplaceItemWithItem, error) {
	if err := validation.ValidatePickupLocation(in.PickupLocation); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePrice(in.Price); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	item, err := s.items.GetByID(ctx, in.ItemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, apperror.ErrItemNotFound
		}
		return nil, err
	}
	if item.Type != models.ItemTypeFound {
		return nil, apperror.New(apperror.ErrCodeValidation, "only found items can be listed on the marketplace")
	}

	listing := &models.MarketplaceItem{
		ItemID:         in.ItemID,
		PickupLocation: in.PickupLocation,
		Price:          in.Price,
		Status:         models.ListingStatusAvailable,
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		switch {
		case errors.Is(err, repository.ErrListingExists):
			return nil, apperror.New(apperror.ErrCodeConflict, "item already has a marketplace listing")
		case errors.Is(err, repository.ErrItemNotFound):
			return nil, apperror.ErrItemNotFound
		case errors.Is(err, repository.ErrInvalidTransition):
			return nil, apperror.New(apperror.ErrCodeInvalidTransition, "only active items can be moved to the marketplace")
		}
		return nil, err
	}

	created, err := s.repo.GetByID(ctx, listing.ID)
	if err != nil {
		return nil, err
	}

	s.notify(item.UserID, models.EventListingPromoted, created)

	return created, nil
}

// ListAvailable returns the open listings.
func (s *MarketplaceService) ListAvailable(ctx context.Context, filter models.MarketplaceFilter) ([]models.MarketplaceItemWithItem, error) {
	return s.repo.ListAvailable(ctx, filter)
}

// Get returns one listing.
func (s *MarketplaceService) Get(ctx context.Context, id uuid.UUID) (*models.MarketplaceItemWithItem, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, apperror.ErrListingNotFound
		}
		return nil, err
	}
	return listing, nil
}

// Claim takes an available listing for the caller. Concurrent claimers race
// on a single conditional update; exactly one wins, everyone else gets the
// already-claimed error.
func (s *MarketplaceService) Claim(ctx context.Context, listingID, userID uuid.UUID) (*models.MarketplaceItemWithItem, error) {
	listing, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, apperror.ErrListingNotFound
		}
		return nil, err
	}
	if listing.ItemOwnerID == userID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "cannot claim an item you reported")
	}

	claimed, err := s.repo.Claim(ctx, listingID, userID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrListingNotFound):
			return nil, apperror.ErrListingNotFound
		case errors.Is(err, repository.ErrListingClaimed):
			return nil, apperror.New(apperror.ErrCodeAlreadyClaimed, "this item has already been claimed")
		}
		return nil, err
	}

	s.sendPickupDetails(claimed, userID)
	s.notify(claimed.ItemOwnerID, models.EventListingClaimed, claimed)

	return claimed, nil
}

// ListClaimedBy returns the listings the caller has won.
func (s *MarketplaceService) ListClaimedBy(ctx context.Context, userID uuid.UUID) ([]models.MarketplaceItemWithItem, error) {
	return s.repo.ListClaimedBy(ctx, userID)
}

// sendPickupDetails mails the winner where to collect the item, best effort.
func (s *MarketplaceService) sendPickupDetails(listing *models.MarketplaceItemWithItem, winnerID uuid.UUID) {
	if s.mailer == nil || s.users == nil {
		return
	}
	goroutine.SafeGo(func() {
		user, err := s.users.GetByID(context.Background(), winnerID)
		if err != nil {
			if logger.Log != nil {
				logger.Log.Warnf("marketplace service: load winner for pickup email: %v", err)
			}
			return
		}
		if err := s.mailer.SendPickupDetailsEmail(user.Email, user.Name, listing.ItemTitle, listing.PickupLocation); err != nil && logger.Log != nil {
			logger.Log.Warnf("marketplace service: email send failed: %v", err)
		}
	})
}

func (s *MarketplaceService) notify(userID uuid.UUID, event string, data any) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyUser(userID, event, data); err != nil && logger.Log != nil {
		logger.Log.Warnf("marketplace service: notify failed: %v", err)
	}
}
