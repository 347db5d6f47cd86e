package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/campusfound/lostfound-backend/internal/models"
	"github.com/campusfound/lostfound-backend/internal/pkg/apperror"
	"github.com/campusfound/lostfound-backend/internal/repository"
)

type mockItemRepo struct {
	mock.Mock
}

func (m *mockItemRepo) Create(ctx context.Context, item *models.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *mockItemRepo) List(ctx context.Context, filter models.ItemFilter) ([]models.Item, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *mockItemRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Item, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *mockItemRepo) Update(ctx context.Context, item *models.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockItemRepo) ExtendHold(ctx context.Context, id uuid.UUID, extraDays int) (*models.Item, error) {
	args := m.Called(ctx, id, extraDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

type mockClaimChecker struct {
	mock.Mock
}

func (m *mockClaimChecker) HasClaims(ctx context.Context, itemID uuid.UUID) (bool, error) {
	args := m.Called(ctx, itemID)
	return args.Bool(0), args.Error(1)
}

func validReportInput() ReportItemInput {
	return ReportItemInput{
		Title:        "Blue backpack",
		Description:  "Jansport backpack with laptop stickers",
		Category:     "bags",
		Location:     "Grainger Library",
		Date:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ContactEmail: "finder@illinois.edu",
	}
}

func TestItemService_ReportLost_NoExpiry(t *testing.T) {
	repo := new(mockItemRepo)
	svc := NewItemService(repo, new(mockClaimChecker), 30, 7)
	ctx := context.Background()
	ownerID := uuid.New()

	repo.On("Create", ctx, mock.AnythingOfType("*models.Item")).Return(nil)

	item, err := svc.ReportLost(ctx, validReportInput(), ownerID)

	assert.NoError(t, err)
	assert.Equal(t, models.ItemTypeLost, item.Type)
	assert.Equal(t, models.ItemStatusActive, item.Status)
	assert.Nil(t, item.ExpiresAt)
	assert.Equal(t, ownerID, item.UserID)
}

func TestItemService_ReportFound_HoldPeriod(t *testing.T) {
	repo := new(mockItemRepo)
	svc := NewItemService(repo, new(mockClaimChecker), 30, 7)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*models.Item")).Return(nil)

	item, err := svc.ReportFound(ctx, validReportInput(), uuid.New())

	assert.NoError(t, err)
	assert.Equal(t, models.ItemTypeFound, item.Type)
	if assert.NotNil(t, item.ExpiresAt) {
		// Found 2024-01-01 with a 30 day hold lapses on 2024-01-31.
		assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), *item.ExpiresAt)
	}
}

func TestItemService_Report_Validation(t *testing.T) {
	repo := new(mockItemRepo)
	svc := NewItemService(repo, new(mockClaimChecker), 30, 7)

	in := validReportInput()
	in.Title = ""
	_, err := svc.ReportLost(context.Background(), in, uuid.New())
	assert.True(t, apperror.Is(err, apperror.ErrCodeValidation))

	in = validReportInput()
	in.Date = time.Time{}
	_, err = svc.ReportFound(context.Background(), in, uuid.New())
	assert.True(t, apperror.Is(err, apperror.ErrCodeValidation))

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestItemService_Expiry_CountdownAndFlag(t *testing.T) {
	now := time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC)
	expires := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	item := models.Item{
		Type:      models.ItemTypeFound,
		Status:    models.ItemStatusActive,
		ExpiresAt: &expires,
	}

	view := item.WithExpiry(now)
	if assert.NotNil(t, view.DaysUntilExpiry) {
		assert.Equal(t, 6, *view.DaysUntilExpiry)
	}
	assert.False(t, view.IsExpiring)

	// Inside the three day window the flag flips on.
	view = item.WithExpiry(time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC))
	if assert.NotNil(t, view.DaysUntilExpiry) {
		assert.Equal(t, 2, *view.DaysUntilExpiry)
	}
	assert.True(t, view.IsExpiring)
}

func TestItemService_Get_NotFound(t *testing.T) {
	repo := new(mockItemRepo)
	svc := NewItemService(repo, new(mockClaimChecker), 30, 7)
	ctx := context.Background()
	id := uuid.New()

	repo.On("GetByID", ctx, id).Return(nil, repository.ErrItemNotFound)

	_, err := svc.Get(ctx, id)
	assert.True(t, apperror.IsNotFound(err))
}

func TestItemService_UpdateOwned_ForbiddenForStranger(t *testing.T) {
	repo := new(mockItemRepo)
	svc := NewItemService(repo, new(mockClaimChecker), 30, 7)
	ctx := context.Background()
	itemID := uuid.New()

	item := &models.Item{ID: itemID, UserID: uuid.New(), Status: models.ItemStatusActive}
	repo.On("GetByID", ctx, itemID).Return(item, nil)

	_, err := svc.UpdateOwned(ctx, itemID, uuid.New(), validReportInput())

	assert.True(t, apperror.IsForbidden(err))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestItemService_DeleteOwned_BlockedByClaims(t *testing.T) {
	repo := new(mockItemRepo)
	checker := new(mockClaimChecker)
	svc := NewItemService(repo, checker, 30, 7)
	ctx := context.Background()
	itemID := uuid.New()
	ownerID := uuid.New()

	// A rejected claim still references the item, so deletion is refused
	// with a conflict rather than tripping the foreign key.
	item := &models.Item{ID: itemID, UserID: ownerID, Status: models.ItemStatusActive}
	repo.On("GetByID", ctx, itemID).Return(item, nil)
	checker.On("HasClaims", ctx, itemID).Return(true, nil)

	err := svc.DeleteOwned(ctx, itemID, ownerID)

	assert.True(t, apperror.Is(err, apperror.ErrCodeConflict))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestItemService_DeleteOwned_BlockedWhenListed(t *testing.T) {
	repo := new(mockItemRepo)
	checker := new(mockClaimChecker)
	svc := NewItemService(repo, checker, 30, 7)
	ctx := context.Background()
	itemID := uuid.New()
	ownerID := uuid.New()

	item := &models.Item{ID: itemID, UserID: ownerID, Status: models.ItemStatusMarketplace}
	repo.On("GetByID", ctx, itemID).Return(item, nil)

	err := svc.DeleteOwned(ctx, itemID, ownerID)

	assert.True(t, apperror.Is(err, apperror.ErrCodeConflict))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestItemService_DeleteOwned_Success(t *testing.T) {
	repo := new(mockItemRepo)
	checker := new(mockClaimChecker)
	svc := NewItemService(repo, checker, 30, 7)
	ctx := context.Background()
	itemID := uuid.New()
	ownerID := uuid.New()

	item := &models.Item{ID: itemID, UserID: ownerID, Status: models.ItemStatusActive}
	repo.On("GetByID", ctx, itemID).Return(item, nil)
	checker.On("HasClaims", ctx, itemID).Return(false, nil)
	repo.On("Delete", ctx, itemID).Return(nil)

	assert.NoError(t, svc.DeleteOwned(ctx, itemID, ownerID))
	repo.AssertExpectations(t)
}

func TestItemService_ExtendHold_OnlyActiveItems(t *testing.T) {
	repo := new(mockItemRepo)
	svc := NewItemService(repo, new(mockClaimChecker), 30, 7)
	ctx := context.Background()
	id := uuid.New()

	repo.On("ExtendHold", ctx, id, 7).Return(nil, repository.ErrInvalidTransition)

	_, err := svc.ExtendHold(ctx, id)
	assert.True(t, apperror.Is(err, apperror.ErrCodeInvalidTransition))
}

func TestItemService_ExtendHold_Success(t *testing.T) {
	repo := new(mockItemRepo)
	svc := NewItemService(repo, new(mockClaimChecker), 30, 7)
	ctx := context.Background()
	id := uuid.New()

	extended := time.Now().AddDate(0, 0, 12)
	item := &models.Item{ID: id, Type: models.ItemTypeFound, Status: models.ItemStatusActive, ExpiresAt: &extended}
	repo.On("ExtendHold", ctx, id, 7).Return(item, nil)

	view, err := svc.ExtendHold(ctx, id)
	assert.NoError(t, err)
	assert.NotNil(t, view.DaysUntilExpiry)
}
