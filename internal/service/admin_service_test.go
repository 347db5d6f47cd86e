package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/campusfound/lostfound-backend/internal/models"
	"github.com/campusfound/lostfound-backend/internal/pkg/apperror"
)

type mockAdminItemRepo struct {
	mock.Mock
}

func (m *mockAdminItemRepo) List(ctx context.Context, filter models.ItemFilter) ([]models.Item, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *mockAdminItemRepo) ListExpiring(ctx context.Context, now, until time.Time) ([]models.Item, error) {
	args := m.Called(ctx, now, until)
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *mockAdminItemRepo) Count(ctx context.Context, itemType, status string) (int, error) {
	args := m.Called(ctx, itemType, status)
	return args.Int(0), args.Error(1)
}

func (m *mockAdminItemRepo) CountExpiring(ctx context.Context, now, until time.Time) (int, error) {
	args := m.Called(ctx, now, until)
	return args.Int(0), args.Error(1)
}

type mockAdminClaimRepo struct {
	mock.Mock
}

func (m *mockAdminClaimRepo) ListPending(ctx context.Context) ([]models.ClaimWithContext, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.ClaimWithContext), args.Error(1)
}

func (m *mockAdminClaimRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

type mockListingCounter struct {
	mock.Mock
}

func (m *mockListingCounter) CountAvailable(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestAdminService_ListFoundItems_DefaultsToAllStatuses(t *testing.T) {
	items := new(mockAdminItemRepo)
	svc := NewAdminService(items, new(mockAdminClaimRepo), new(mockListingCounter), 7)
	ctx := context.Background()

	expectedFilter := models.ItemFilter{Type: models.ItemTypeFound, Status: models.ItemStatusAny}
	items.On("List", ctx, expectedFilter).Return([]models.Item{}, nil)

	_, err := svc.ListFoundItems(ctx, "")

	assert.NoError(t, err)
	items.AssertExpectations(t)
}

func TestAdminService_ListFoundItems_RejectsUnknownStatus(t *testing.T) {
	items := new(mockAdminItemRepo)
	svc := NewAdminService(items, new(mockAdminClaimRepo), new(mockListingCounter), 7)

	_, err := svc.ListFoundItems(context.Background(), "bogus")

	assert.True(t, apperror.Is(err, apperror.ErrCodeValidation))
	items.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestAdminService_ListExpiringSoon_WindowBounds(t *testing.T) {
	items := new(mockAdminItemRepo)
	svc := NewAdminService(items, new(mockAdminClaimRepo), new(mockListingCounter), 7)
	ctx := context.Background()

	var gotNow, gotUntil time.Time
	items.On("ListExpiring", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			gotNow = args.Get(1).(time.Time)
			gotUntil = args.Get(2).(time.Time)
		}).
		Return([]models.Item{}, nil)

	_, err := svc.ListExpiringSoon(ctx)

	assert.NoError(t, err)
	assert.Equal(t, gotNow.AddDate(0, 0, 7), gotUntil)
}

func TestAdminService_GetStats(t *testing.T) {
	items := new(mockAdminItemRepo)
	claims := new(mockAdminClaimRepo)
	listings := new(mockListingCounter)
	svc := NewAdminService(items, claims, listings, 7)
	ctx := context.Background()

	items.On("Count", ctx, models.ItemTypeLost, "").Return(12, nil)
	items.On("Count", ctx, models.ItemTypeFound, "").Return(34, nil)
	items.On("Count", ctx, models.ItemTypeFound, models.ItemStatusActive).Return(20, nil)
	claims.On("CountByStatus", ctx, models.ClaimStatusPending).Return(5, nil)
	claims.On("CountByStatus", ctx, models.ClaimStatusApproved).Return(9, nil)
	listings.On("CountAvailable", ctx).Return(3, nil)
	items.On("CountExpiring", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(4, nil)

	stats, err := svc.GetStats(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 12, stats.TotalLostItems)
	assert.Equal(t, 34, stats.TotalFoundItems)
	assert.Equal(t, 20, stats.AvailableFoundItems)
	assert.Equal(t, 5, stats.PendingClaims)
	assert.Equal(t, 9, stats.ApprovedClaims)
	assert.Equal(t, 3, stats.MarketplaceItems)
	assert.Equal(t, 4, stats.ExpiringItems)
}
