package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/campusfound/lostfound-backend/internal/models"
	"github.com/campusfound/lostfound-backend/internal/pkg/apperror"
	"github.com/campusfound/lostfound-backend/internal/repository"
	"github.com/campusfound/lostfound-backend/internal/validation"
)

// ItemRepository is the storage surface of the item service.
type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	List(ctx context.Context, filter models.ItemFilter) ([]models.Item, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExtendHold(ctx context.Context, id uuid.UUID, extraDays int) (*models.Item, error)
}

// ItemClaimChecker answers whether any claim references an item.
type ItemClaimChecker interface {
	HasClaims(ctx context.Context, itemID uuid.UUID) (bool, error)
}

// ItemService owns lost and found reports.
type ItemService struct {
	repo           ItemRepository
	claims         ItemClaimChecker
	holdPeriodDays int
	extendDays     int
}

// ReportItemInput carries the fields of a new or updated report.
type ReportItemInput struct {
	Title        string
	Description  string
	Category     string
	Location     string
	Date         time.Time
	ImageURL     *string
	ContactEmail string
	ContactPhone *string
}

// NewItemService creates the service.
func NewItemService(repo ItemRepository, claims ItemClaimChecker, holdPeriodDays, extendDays int) *ItemService {
	if holdPeriodDays <= 0 {
		holdPeriodDays = 30
	}
	if extendDays <= 0 {
		extendDays = 7
	}
	return &ItemService{
		repo:           repo,
		claims:         claims,
		holdPeriodDays: holdPeriodDays,
		extendDays:     extendDays,
	}
}

// validateReport checks the shared fields of both report types.
func validateReport(in ReportItemInput) error {
	checks := []error{
		validation.ValidateItemTitle(in.Title),
		validation.ValidateItemDescription(in.Description),
		validation.ValidateCategory(in.Category),
		validation.ValidateItemLocation(in.Location),
		validation.ValidateEmail(in.ContactEmail),
	}
	for _, err := range checks {
		if err != nil {
			return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}
	if in.Date.IsZero() {
		return apperror.New(apperror.ErrCodeValidation, "date is required")
	}
	if in.ContactPhone != nil {
		if err := validation.ValidatePhone(*in.ContactPhone); err != nil {
			return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}
	return nil
}

// ReportLost registers a lost item. Lost reports never expire.
func (s *ItemService) ReportLost(ctx context.Context, in ReportItemInput, ownerID uuid.UUID) (*models.Item, error) {
	if err := validateReport(in); err != nil {
		return nil, err
	}

	item := &models.Item{
		Type:         models.ItemTypeLost,
		Title:        in.Title,
		Description:  in.Description,
		Category:     in.Category,
		Location:     in.Location,
		Date:         in.Date,
		ImageURL:     in.ImageURL,
		ContactEmail: in.ContactEmail,
		ContactPhone: in.ContactPhone,
		Status:       models.ItemStatusActive,
		UserID:       ownerID,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// ReportFound registers a found item and starts its hold period.
func (s *ItemService) ReportFound(ctx context.Context, in ReportItemInput, ownerID uuid.UUID) (*models.Item, error) {
	if err := validateReport(in); err != nil {
		return nil, err
	}

	expiresAt := in.Date.AddDate(0, 0, s.holdPeriodDays)

	item := &models.Item{
		Type:         models.ItemTypeFound,
		Title:        in.Title,
		Description:  in.Description,
		Category:     in.Category,
		Location:     in.Location,
		Date:         in.Date,
		ImageURL:     in.ImageURL,
		ContactEmail: in.ContactEmail,
		ContactPhone: in.ContactPhone,
		Status:       models.ItemStatusActive,
		ExpiresAt:    &expiresAt,
		UserID:       ownerID,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// List returns the public board with expiry info computed at read time.
func (s *ItemService) List(ctx context.Context, filter models.ItemFilter) ([]models.ItemWithExpiry, error) {
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return decorateExpiry(items, time.Now()), nil
}

// Get returns one item by id.
func (s *ItemService) Get(ctx context.Context, id uuid.UUID) (*models.ItemWithExpiry, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, apperror.ErrItemNotFound
		}
		return nil, err
	}

	view := item.WithExpiry(time.Now())
	return &view, nil
}

// ListMine returns every report the user made, regardless of status.
func (s *ItemService) ListMine(ctx context.Context, ownerID uuid.UUID) ([]models.ItemWithExpiry, error) {
	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return decorateExpiry(items, time.Now()), nil
}

// UpdateOwned rewrites a report's descriptive fields, owners only.
func (s *ItemService) UpdateOwned(ctx context.Context, id, requesterID uuid.UUID, in ReportItemInput) (*models.Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, apperror.ErrItemNotFound
		}
		return nil, err
	}

	if item.UserID != requesterID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "you can only edit your own reports")
	}

	if err := validateReport(in); err != nil {
		return nil, err
	}

	item.Title = in.Title
	item.Description = in.Description
	item.Category = in.Category
	item.Location = in.Location
	item.Date = in.Date
	item.ImageURL = in.ImageURL
	item.ContactEmail = in.ContactEmail
	item.ContactPhone = in.ContactPhone

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// DeleteOwned removes a report, owners only. Claims and marketplace listings
// keep a hard reference to their item, so a report that ever attracted a
// claim, or was promoted, stays on record.
func (s *ItemService) DeleteOwned(ctx context.Context, id, requesterID uuid.UUID) error {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return apperror.ErrItemNotFound
		}
		return err
	}

	if item.UserID != requesterID {
		return apperror.New(apperror.ErrCodeForbidden, "you can only delete your own reports")
	}

	if item.Status == models.ItemStatusMarketplace {
		return apperror.New(apperror.ErrCodeConflict, "item is listed on the marketplace and cannot be deleted")
	}

	hasClaims, err := s.claims.HasClaims(ctx, id)
	if err != nil {
		return err
	}
	if hasClaims {
		return apperror.New(apperror.ErrCodeConflict, "item has claims on record and cannot be deleted")
	}

	return s.repo.Delete(ctx, id)
}

// ExtendHold pushes an active found item's expiry out by the configured
// number of days.
func (s *ItemService) ExtendHold(ctx context.Context, id uuid.UUID) (*models.ItemWithExpiry, error) {
	item, err := s.repo.ExtendHold(ctx, id, s.extendDays)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrItemNotFound):
			return nil, apperror.ErrItemNotFound
		case errors.Is(err, repository.ErrInvalidTransition):
			return nil, apperror.New(apperror.ErrCodeInvalidTransition, "only active found items can be extended")
		}
		return nil, err
	}

	view := item.WithExpiry(time.Now())
	return &view, nil
}

func decorateExpiry(items []models.Item, now time.Time) []models.ItemWithExpiry {
	out := make([]models.ItemWithExpiry, 0, len(items))
	for _, item := range items {
		out = append(out, item.WithExpiry(now))
	}
	return out
}
