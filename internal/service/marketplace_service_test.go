package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/campusfound/lostfound-backend/internal/models"
	"github.com/campusfound/lostfound-backend/internal/pkg/apperror"
	"github.com/campusfound/lostfound-backend/internal/repository"
)

type mockMarketplaceRepo struct {
	mock.Mock
}

func (m *mockMarketplaceRepo) Create(ctx context.Context, listing *models.MarketplaceItem) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *mockMarketplaceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.MarketplaceItemWithItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MarketplaceItemWithItem), args.Error(1)
}

func (m *mockMarketplaceRepo) ListAvailable(ctx context.Context, filter models.MarketplaceFilter) ([]models.MarketplaceItemWithItem, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.MarketplaceItemWithItem), args.Error(1)
}

func (m *mockMarketplaceRepo) Claim(ctx context.Context, listingID, userID uuid.UUID, now time.Time) (*models.MarketplaceItemWithItem, error) {
	args := m.Called(ctx, listingID, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MarketplaceItemWithItem), args.Error(1)
}

func (m *mockMarketplaceRepo) ListClaimedBy(ctx context.Context, userID uuid.UUID) ([]models.MarketplaceItemWithItem, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.MarketplaceItemWithItem), args.Error(1)
}

func TestMarketplaceService_Promote_Success(t *testing.T) {
	repo := new(mockMarketplaceRepo)
	items := new(mockItemRepo)
	svc := NewMarketplaceService(repo, items, nil, nil, nil)
	ctx := context.Background()

	itemID := uuid.New()
	item := &models.Item{ID: itemID, Type: models.ItemTypeFound, Status: models.ItemStatusActive, UserID: uuid.New()}
	items.On("GetByID", ctx, itemID).Return(item, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.MarketplaceItem")).Run(func(args mock.Arguments) {
		listing := args.Get(1).(*models.MarketplaceItem)
		listing.ID = uuid.New()
	}).Return(nil)
	repo.On("GetByID", ctx, mock.AnythingOfType("uuid.UUID")).Return(&models.MarketplaceItemWithItem{
		MarketplaceItem: models.MarketplaceItem{ItemID: itemID, Status: models.ListingStatusAvailable},
	}, nil)

	listing, err := svc.Promote(ctx, PromoteInput{ItemID: itemID, PickupLocation: "Student Union front desk"})

	assert.NoError(t, err)
	assert.Equal(t, models.ListingStatusAvailable, listing.Status)
	repo.AssertExpectations(t)
}

func TestMarketplaceService_Promote_OnlyFoundItems(t *testing.T) {
	repo := new(mockMarketplaceRepo)
	items := new(mockItemRepo)
	svc := NewMarketplaceService(repo, items, nil, nil, nil)
	ctx := context.Background()

	itemID := uuid.New()
	item := &models.Item{ID: itemID, Type: models.ItemTypeLost, Status: models.ItemStatusActive}
	items.On("GetByID", ctx, itemID).Return(item, nil)

	_, err := svc.Promote(ctx, PromoteInput{ItemID: itemID, PickupLocation: "Student Union front desk"})

	assert.True(t, apperror.Is(err, apperror.ErrCodeValidation))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMarketplaceService_Promote_ListingExists(t *testing.T) {
	repo := new(mockMarketplaceRepo)
	items := new(mockItemRepo)
	svc := NewMarketplaceService(repo, items, nil, nil, nil)
	ctx := context.Background()

	itemID := uuid.New()
	item := &models.Item{ID: itemID, Type: models.ItemTypeFound, Status: models.ItemStatusActive}
	items.On("GetByID", ctx, itemID).Return(item, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.MarketplaceItem")).Return(repository.ErrListingExists)

	_, err := svc.Promote(ctx, PromoteInput{ItemID: itemID, PickupLocation: "Student Union front desk"})

	assert.True(t, apperror.Is(err, apperror.ErrCodeConflict))
}

func TestMarketplaceService_Promote_ItemNotActive(t *testing.T) {
	repo := new(mockMarketplaceRepo)
	items := new(mockItemRepo)
	svc := NewMarketplaceService(repo, items, nil, nil, nil)
	ctx := context.Background()

	itemID := uuid.New()
	item := &models.Item{ID: itemID, Type: models.ItemTypeFound, Status: models.ItemStatusClaimed}
	items.On("GetByID", ctx, itemID).Return(item, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.MarketplaceItem")).Return(repository.ErrInvalidTransition)

	_, err := svc.Promote(ctx, PromoteInput{ItemID: itemID, PickupLocation: "Student Union front desk"})

	assert.True(t, apperror.Is(err, apperror.ErrCodeInvalidTransition))
}

func TestMarketplaceService_Claim_OwnItemForbidden(t *testing.T) {
	repo := new(mockMarketplaceRepo)
	svc := NewMarketplaceService(repo, new(mockItemRepo), nil, nil, nil)
	ctx := context.Background()

	listingID := uuid.New()
	ownerID := uuid.New()
	repo.On("GetByID", ctx, listingID).Return(&models.MarketplaceItemWithItem{
		MarketplaceItem: models.MarketplaceItem{ID: listingID, Status: models.ListingStatusAvailable},
		ItemOwnerID:     ownerID,
	}, nil)

	_, err := svc.Claim(ctx, listingID, ownerID)

	assert.True(t, apperror.IsForbidden(err))
	repo.AssertNotCalled(t, "Claim", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMarketplaceService_Claim_AlreadyClaimed(t *testing.T) {
	repo := new(mockMarketplaceRepo)
	svc := NewMarketplaceService(repo, new(mockItemRepo), nil, nil, nil)
	ctx := context.Background()

	listingID := uuid.New()
	userID := uuid.New()
	repo.On("GetByID", ctx, listingID).Return(&models.MarketplaceItemWithItem{
		MarketplaceItem: models.MarketplaceItem{ID: listingID, Status: models.ListingStatusClaimed},
		ItemOwnerID:     uuid.New(),
	}, nil)
	repo.On("Claim", ctx, listingID, userID, mock.AnythingOfType("time.Time")).
		Return(nil, repository.ErrListingClaimed)

	_, err := svc.Claim(ctx, listingID, userID)

	assert.True(t, apperror.Is(err, apperror.ErrCodeAlreadyClaimed))
}

// fcfsRepo emulates the conditional update the real repository performs:
// the first caller to flip the status wins, every later caller loses.
type fcfsRepo struct {
	mu      sync.Mutex
	listing models.MarketplaceItemWithItem
}

func (r *fcfsRepo) Create(ctx context.Context, listing *models.MarketplaceItem) error { return nil }

func (r *fcfsRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.MarketplaceItemWithItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := r.listing
	return &snapshot, nil
}

func (r *fcfsRepo) ListAvailable(ctx context.Context, filter models.MarketplaceFilter) ([]models.MarketplaceItemWithItem, error) {
	return nil, nil
}

func (r *fcfsRepo) Claim(ctx context.Context, listingID, userID uuid.UUID, now time.Time) (*models.MarketplaceItemWithItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listing.Status != models.ListingStatusAvailable {
		return nil, repository.ErrListingClaimed
	}
	r.listing.Status = models.ListingStatusClaimed
	r.listing.ClaimedBy = &userID
	r.listing.ClaimedAt = &now
	snapshot := r.listing
	return &snapshot, nil
}

func (r *fcfsRepo) ListClaimedBy(ctx context.Context, userID uuid.UUID) ([]models.MarketplaceItemWithItem, error) {
	return nil, nil
}

func TestMarketplaceService_Claim_FirstComeFirstServed(t *testing.T) {
	repo := &fcfsRepo{
		listing: models.MarketplaceItemWithItem{
			MarketplaceItem: models.MarketplaceItem{ID: uuid.New(), Status: models.ListingStatusAvailable},
			ItemOwnerID:     uuid.New(),
		},
	}
	svc := NewMarketplaceService(repo, new(mockItemRepo), nil, nil, nil)
	ctx := context.Background()
	listingID := repo.listing.ID

	const contenders = 20
	var wg sync.WaitGroup
	results := make(chan error, contenders)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Claim(ctx, listingID, uuid.New())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	winners, losers := 0, 0
	for err := range results {
		if err == nil {
			winners++
			continue
		}
		losers++
		assert.True(t, apperror.Is(err, apperror.ErrCodeAlreadyClaimed))
	}

	assert.Equal(t, 1, winners)
	assert.Equal(t, contenders-1, losers)
	assert.Equal(t, models.ListingStatusClaimed, repo.listing.Status)
	assert.NotNil(t, repo.listing.ClaimedBy)
}
