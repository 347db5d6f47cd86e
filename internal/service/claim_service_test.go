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

type mockClaimRepo struct {
	mock.Mock
}

func (m *mockClaimRepo) Create(ctx context.Context, claim *models.Claim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

func (m *mockClaimRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ClaimWithContext, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ClaimWithContext), args.Error(1)
}

func (m *mockClaimRepo) ListByClaimant(ctx context.Context, claimantID uuid.UUID) ([]models.ClaimWithContext, error) {
	args := m.Called(ctx, claimantID)
	return args.Get(0).([]models.ClaimWithContext), args.Error(1)
}

func (m *mockClaimRepo) ListForItemOwner(ctx context.Context, ownerID uuid.UUID) ([]models.ClaimWithContext, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]models.ClaimWithContext), args.Error(1)
}

func (m *mockClaimRepo) Approve(ctx context.Context, claimID, reviewerID uuid.UUID, notes *string, now time.Time) error {
	args := m.Called(ctx, claimID, reviewerID, notes, now)
	return args.Error(0)
}

func (m *mockClaimRepo) Reject(ctx context.Context, claimID, reviewerID uuid.UUID, notes *string, now time.Time) error {
	args := m.Called(ctx, claimID, reviewerID, notes, now)
	return args.Error(0)
}

func validClaimInput(itemID uuid.UUID) SubmitClaimInput {
	return SubmitClaimInput{
		ItemID:              itemID,
		Description:         "That's my backpack, I lost it on Tuesday",
		VerificationDetails: "It has a red keychain on the left strap",
	}
}

func TestClaimService_Submit_Success(t *testing.T) {
	claims := new(mockClaimRepo)
	items := new(mockItemRepo)
	svc := NewClaimService(claims, items, nil, nil)
	ctx := context.Background()

	itemID := uuid.New()
	claimantID := uuid.New()
	item := &models.Item{ID: itemID, Status: models.ItemStatusActive, Title: "Blue backpack"}

	items.On("GetByID", ctx, itemID).Return(item, nil)
	claims.On("Create", ctx, mock.AnythingOfType("*models.Claim")).Run(func(args mock.Arguments) {
		claim := args.Get(1).(*models.Claim)
		claim.ID = uuid.New()
	}).Return(nil)
	claims.On("GetByID", ctx, mock.AnythingOfType("uuid.UUID")).Return(&models.ClaimWithContext{
		Claim: models.Claim{ItemID: itemID, ClaimantID: claimantID, Status: models.ClaimStatusPending},
	}, nil)

	claim, err := svc.Submit(ctx, validClaimInput(itemID), claimantID)

	assert.NoError(t, err)
	assert.Equal(t, models.ClaimStatusPending, claim.Status)
	claims.AssertExpectations(t)
}

func TestClaimService_Submit_ItemNotActive(t *testing.T) {
	claims := new(mockClaimRepo)
	items := new(mockItemRepo)
	svc := NewClaimService(claims, items, nil, nil)
	ctx := context.Background()

	itemID := uuid.New()
	item := &models.Item{ID: itemID, Status: models.ItemStatusClaimed}
	items.On("GetByID", ctx, itemID).Return(item, nil)

	_, err := svc.Submit(ctx, validClaimInput(itemID), uuid.New())

	assert.True(t, apperror.Is(err, apperror.ErrCodeItemUnavailable))
	claims.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestClaimService_Submit_ItemMissing(t *testing.T) {
	claims := new(mockClaimRepo)
	items := new(mockItemRepo)
	svc := NewClaimService(claims, items, nil, nil)
	ctx := context.Background()

	itemID := uuid.New()
	items.On("GetByID", ctx, itemID).Return(nil, repository.ErrItemNotFound)

	_, err := svc.Submit(ctx, validClaimInput(itemID), uuid.New())

	assert.True(t, apperror.IsNotFound(err))
}

func TestClaimService_Submit_DuplicatePending(t *testing.T) {
	claims := new(mockClaimRepo)
	items := new(mockItemRepo)
	svc := NewClaimService(claims, items, nil, nil)
	ctx := context.Background()

	itemID := uuid.New()
	item := &models.Item{ID: itemID, Status: models.ItemStatusActive}
	items.On("GetByID", ctx, itemID).Return(item, nil)
	claims.On("Create", ctx, mock.AnythingOfType("*models.Claim")).Return(repository.ErrDuplicateClaim)

	_, err := svc.Submit(ctx, validClaimInput(itemID), uuid.New())

	assert.True(t, apperror.Is(err, apperror.ErrCodeDuplicateClaim))
}

func TestClaimService_Approve_Success(t *testing.T) {
	claims := new(mockClaimRepo)
	svc := NewClaimService(claims, new(mockItemRepo), nil, nil)
	ctx := context.Background()

	claimID := uuid.New()
	reviewerID := uuid.New()

	claims.On("Approve", ctx, claimID, reviewerID, (*string)(nil), mock.AnythingOfType("time.Time")).Return(nil)
	claims.On("GetByID", ctx, claimID).Return(&models.ClaimWithContext{
		Claim:      models.Claim{ID: claimID, Status: models.ClaimStatusApproved},
		ItemStatus: models.ItemStatusClaimed,
	}, nil)

	claim, err := svc.Approve(ctx, claimID, reviewerID, nil)

	assert.NoError(t, err)
	assert.Equal(t, models.ClaimStatusApproved, claim.Status)
	assert.Equal(t, models.ItemStatusClaimed, claim.ItemStatus)
	claims.AssertExpectations(t)
}

func TestClaimService_Approve_AlreadyProcessed(t *testing.T) {
	claims := new(mockClaimRepo)
	svc := NewClaimService(claims, new(mockItemRepo), nil, nil)
	ctx := context.Background()

	claimID := uuid.New()
	reviewerID := uuid.New()

	claims.On("Approve", ctx, claimID, reviewerID, (*string)(nil), mock.AnythingOfType("time.Time")).
		Return(repository.ErrClaimAlreadyProcessed)

	_, err := svc.Approve(ctx, claimID, reviewerID, nil)

	assert.True(t, apperror.Is(err, apperror.ErrCodeAlreadyProcessed))
}

func TestClaimService_Approve_ItemNoLongerActive(t *testing.T) {
	claims := new(mockClaimRepo)
	svc := NewClaimService(claims, new(mockItemRepo), nil, nil)
	ctx := context.Background()

	claimID := uuid.New()
	reviewerID := uuid.New()

	claims.On("Approve", ctx, claimID, reviewerID, (*string)(nil), mock.AnythingOfType("time.Time")).
		Return(repository.ErrInvalidTransition)

	_, err := svc.Approve(ctx, claimID, reviewerID, nil)

	assert.True(t, apperror.Is(err, apperror.ErrCodeInvalidTransition))
}

func TestClaimService_Reject_KeepsItemClaimable(t *testing.T) {
	claims := new(mockClaimRepo)
	svc := NewClaimService(claims, new(mockItemRepo), nil, nil)
	ctx := context.Background()

	claimID := uuid.New()
	reviewerID := uuid.New()
	notes := "verification details did not match"

	claims.On("Reject", ctx, claimID, reviewerID, &notes, mock.AnythingOfType("time.Time")).Return(nil)
	claims.On("GetByID", ctx, claimID).Return(&models.ClaimWithContext{
		Claim:      models.Claim{ID: claimID, Status: models.ClaimStatusRejected, ReviewNotes: &notes},
		ItemStatus: models.ItemStatusActive,
	}, nil)

	claim, err := svc.Reject(ctx, claimID, reviewerID, &notes)

	assert.NoError(t, err)
	assert.Equal(t, models.ClaimStatusRejected, claim.Status)
	assert.Equal(t, models.ItemStatusActive, claim.ItemStatus)
}

func TestClaimService_Get_VisibleToClaimantAndOwner(t *testing.T) {
	claims := new(mockClaimRepo)
	svc := NewClaimService(claims, new(mockItemRepo), nil, nil)
	ctx := context.Background()

	claimID := uuid.New()
	claimantID := uuid.New()
	ownerID := uuid.New()

	stored := &models.ClaimWithContext{
		Claim:       models.Claim{ID: claimID, ClaimantID: claimantID},
		ItemOwnerID: ownerID,
	}
	claims.On("GetByID", ctx, claimID).Return(stored, nil)

	_, err := svc.Get(ctx, claimID, claimantID)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, claimID, ownerID)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, claimID, uuid.New())
	assert.True(t, apperror.IsForbidden(err))
}
