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

// ClaimRepository is the storage surface of the claim service.
type ClaimRepository interface {
	Create(ctx context.Context, claim *models.Claim) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ClaimWithContext, error)
	ListByClaimant(ctx context.Context, claimantID uuid.UUID) ([]models.ClaimWithContext, error)
	ListForItemOwner(ctx context.Context, ownerID uuid.UUID) ([]models.ClaimWithContext, error)
	Approve(ctx context.Context, claimID, reviewerID uuid.UUID, notes *string, now time.Time) error
	Reject(ctx context.Context, claimID, reviewerID uuid.UUID, notes *string, now time.Time) error
}

// ClaimItemReader resolves the item a claim targets.
type ClaimItemReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
}

// ClaimMailer is the outbound mail surface of the claim service.
type ClaimMailer interface {
	SendClaimReceivedEmail(to, itemTitle string) error
	SendClaimApprovedEmail(to, name, itemTitle string) error
	SendClaimRejectedEmail(to, name, itemTitle, notes string) error
}

// EventNotifier pushes live in-app events. Implemented by the ws hub.
type EventNotifier interface {
	NotifyUser(userID uuid.UUID, event string, data any) error
}

// ClaimService owns the claim lifecycle: submission, moderation decisions and
// the cascade of an approval into the item's status.
type ClaimService struct {
	repo     ClaimRepository
	items    ClaimItemReader
	mailer   ClaimMailer
	notifier EventNotifier
}

// SubmitClaimInput carries a new claim.
type SubmitClaimInput struct {
	ItemID              uuid.UUID
	Description         string
	VerificationDetails string
}

// NewClaimService creates the service.
func NewClaimService(repo ClaimRepository, items ClaimItemReader, mailer ClaimMailer, notifier EventNotifier) *ClaimService {
	return &ClaimService{
		repo:     repo,
		items:    items,
		mailer:   mailer,
		notifier: notifier,
	}
}

// Submit files a pending claim against an active item.
func (s *ClaimService) Submit(ctx context.Context, in SubmitClaimInput, claimantID uuid.UUID) (*models.ClaimWithContext, error) {
	if err := validation.ValidateClaimDescription(in.Description); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateVerificationDetails(in.VerificationDetails); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	item, err := s.items.GetByID(ctx, in.ItemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, apperror.ErrItemNotFound
		}
		return nil, err
	}

	if item.Status != models.ItemStatusActive {
		return nil, apperror.New(apperror.ErrCodeItemUnavailable, "item is no longer available for claiming")
	}

	claim := &models.Claim{
		ItemID:              in.ItemID,
		ClaimantID:          claimantID,
		Description:         in.Description,
		VerificationDetails: in.VerificationDetails,
		Status:              models.ClaimStatusPending,
	}

	if err := s.repo.Create(ctx, claim); err != nil {
		if errors.Is(err, repository.ErrDuplicateClaim) {
			return nil, apperror.New(apperror.ErrCodeDuplicateClaim, "you already have a pending claim on this item")
		}
		return nil, err
	}

	created, err := s.repo.GetByID(ctx, claim.ID)
	if err != nil {
		return nil, err
	}

	// Tell the item's owner, best effort.
	s.dispatch(func() error {
		return s.mailer.SendClaimReceivedEmail(item.ContactEmail, item.Title)
	})
	s.notify(item.UserID, models.EventClaimSubmitted, created)

	return created, nil
}

// Approve applies a positive decision. The claim flips to approved and the
// item to claimed in one transaction inside the repository; only after that
// commit are notifications dispatched.
func (s *ClaimService) Approve(ctx context.Context, claimID, reviewerID uuid.UUID, notes *string) (*models.ClaimWithContext, error) {
	if err := s.validateNotes(notes); err != nil {
		return nil, err
	}

	if err := s.repo.Approve(ctx, claimID, reviewerID, notes, time.Now()); err != nil {
		return nil, mapDecisionError(err)
	}

	claim, err := s.repo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}

	s.dispatch(func() error {
		return s.mailer.SendClaimApprovedEmail(claim.ClaimantEmail, claim.ClaimantName, claim.ItemTitle)
	})
	s.notify(claim.ClaimantID, models.EventClaimApproved, claim)

	return claim, nil
}

// Reject applies a negative decision. The item stays active and claimable.
func (s *ClaimService) Reject(ctx context.Context, claimID, reviewerID uuid.UUID, notes *string) (*models.ClaimWithContext, error) {
	if err := s.validateNotes(notes); err != nil {
		return nil, err
	}

	if err := s.repo.Reject(ctx, claimID, reviewerID, notes, time.Now()); err != nil {
		return nil, mapDecisionError(err)
	}

	claim, err := s.repo.GetByID(ctx, claimID)
	if err != nil {
		return nil, err
	}

	reviewNotes := ""
	if claim.ReviewNotes != nil {
		reviewNotes = *claim.ReviewNotes
	}
	s.dispatch(func() error {
		return s.mailer.SendClaimRejectedEmail(claim.ClaimantEmail, claim.ClaimantName, claim.ItemTitle, reviewNotes)
	})
	s.notify(claim.ClaimantID, models.EventClaimRejected, claim)

	return claim, nil
}

// ListMine returns the caller's submitted claims.
func (s *ClaimService) ListMine(ctx context.Context, claimantID uuid.UUID) ([]models.ClaimWithContext, error) {
	return s.repo.ListByClaimant(ctx, claimantID)
}

// ListForOwnedItems returns the claims filed against the caller's items.
func (s *ClaimService) ListForOwnedItems(ctx context.Context, ownerID uuid.UUID) ([]models.ClaimWithContext, error) {
	return s.repo.ListForItemOwner(ctx, ownerID)
}

// Get returns one claim, visible only to the claimant or the item's owner.
func (s *ClaimService) Get(ctx context.Context, claimID, requesterID uuid.UUID) (*models.ClaimWithContext, error) {
	claim, err := s.repo.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, repository.ErrClaimNotFound) {
			return nil, apperror.ErrClaimNotFound
		}
		return nil, err
	}

	if claim.ClaimantID != requesterID && claim.ItemOwnerID != requesterID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "not authorized to view this claim")
	}

	return claim, nil
}

func (s *ClaimService) validateNotes(notes *string) error {
	if notes == nil {
		return nil
	}
	if err := validation.ValidateReviewNotes(*notes); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	return nil
}

// mapDecisionError translates repository failures of a moderation decision.
func mapDecisionError(err error) error {
	switch {
	case errors.Is(err, repository.ErrClaimNotFound):
		return apperror.ErrClaimNotFound
	case errors.Is(err, repository.ErrClaimAlreadyProcessed):
		return apperror.New(apperror.ErrCodeAlreadyProcessed, "claim already processed")
	case errors.Is(err, repository.ErrItemNotFound):
		return apperror.ErrItemNotFound
	case errors.Is(err, repository.ErrInvalidTransition):
		return apperror.New(apperror.ErrCodeInvalidTransition, "item is no longer active")
	}
	return err
}

// dispatch runs a mail send in the background after the decision committed.
func (s *ClaimService) dispatch(send func() error) {
	if s.mailer == nil {
		return
	}
	goroutine.SafeGo(func() {
		if err := send(); err != nil && logger.Log != nil {
			logger.Log.Warnf("claim service: email send failed: %v", err)
		}
	})
}

// notify pushes a live event, best effort.
func (s *ClaimService) notify(userID uuid.UUID, event string, data any) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyUser(userID, event, data); err != nil && logger.Log != nil {
		logger.Log.Warnf("claim service: notify failed: %v", err)
	}
}
