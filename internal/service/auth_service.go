package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"

	"github.com/campusfound/lostfound-backend/internal/goroutine"
	"github.com/campusfound/lostfound-backend/internal/logger"
	"github.com/campusfound/lostfound-backend/internal/models"
	"github.com/campusfound/lostfound-backend/internal/pkg/apperror"
	"github.com/campusfound/lostfound-backend/internal/repository"
	"github.com/campusfound/lostfound-backend/internal/validation"
)

// ErrNeedsVerification is returned on login before the email is confirmed.
var ErrNeedsVerification = apperror.New(apperror.ErrCodeForbidden, "please verify your email before logging in")

// verificationTokenTTL is how long an emailed activation link stays valid.
const verificationTokenTTL = 24 * time.Hour

// AuthRepository is the storage surface of the auth service.
type AuthRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByVerificationToken(ctx context.Context, token string, now time.Time) (*models.User, error)
	MarkVerified(ctx context.Context, id uuid.UUID) error
	SetVerificationToken(ctx context.Context, id uuid.UUID, token string, expires time.Time) error
	PromoteToAdmin(ctx context.Context, email string) error
}

// AuthMailer is the outbound mail surface of the auth service.
type AuthMailer interface {
	SendVerificationEmail(to, name, token string) error
	SendWelcomeEmail(to, name string) error
}

// AuthService owns registration, email verification and login.
type AuthService struct {
	repo          AuthRepository
	tokenManager  *TokenManager
	mailer        AuthMailer
	allowedDomain string
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput carries the login payload.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is a successful authentication.
type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// NewAuthService creates the service.
func NewAuthService(repo AuthRepository, tokenManager *TokenManager, mailer AuthMailer, allowedDomain string) *AuthService {
	return &AuthService{
		repo:          repo,
		tokenManager:  tokenManager,
		mailer:        mailer,
		allowedDomain: allowedDomain,
	}
}

// Register creates an unverified user and dispatches the activation email.
// The campus domain gate runs before anything is written.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateName(in.Name); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateInstitutionalEmail(in.Email, s.allowedDomain); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	if existing, err := s.repo.GetByEmail(ctx, email); err == nil {
		if !existing.IsVerified {
			return nil, apperror.New(apperror.ErrCodeConflict,
				"email already registered but not verified, check your inbox for the verification link")
		}
		return nil, apperror.New(apperror.ErrCodeConflict, "email already registered")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: hash password: %w", err)
	}

	token, err := newVerificationToken()
	if err != nil {
		return nil, err
	}
	expires := time.Now().Add(verificationTokenTTL)

	user := &models.User{
		Email:                    email,
		Name:                     strings.TrimSpace(in.Name),
		PasswordHash:             string(passHash),
		Role:                     models.RoleUser,
		IsVerified:               false,
		VerificationToken:        &token,
		VerificationTokenExpires: &expires,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, apperror.New(apperror.ErrCodeConflict, "email already registered")
		}
		return nil, err
	}

	s.dispatchMail(func() error {
		return s.mailer.SendVerificationEmail(user.Email, user.Name, token)
	})

	return user, nil
}

// BootstrapAdmin creates a verified admin account, or grants the admin role
// to the account already holding the email. Registration only ever produces
// regular users, so the first admin of a deployment comes through here.
func (s *AuthService) BootstrapAdmin(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateName(in.Name); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateInstitutionalEmail(in.Email, s.allowedDomain); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: string(passHash),
		Role:         models.RoleAdmin,
		IsVerified:   true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			// The account exists; promote it and keep its password.
			if err := s.repo.PromoteToAdmin(ctx, email); err != nil {
				return nil, err
			}
			return s.repo.GetByEmail(ctx, email)
		}
		return nil, err
	}

	return user, nil
}

// VerifyEmail consumes an activation token and marks the account verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "verification token is required")
	}

	user, err := s.repo.GetByVerificationToken(ctx, token, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.New(apperror.ErrCodeValidation, "invalid or expired verification link")
		}
		return nil, err
	}

	if err := s.repo.MarkVerified(ctx, user.ID); err != nil {
		return nil, err
	}
	user.IsVerified = true
	user.VerificationToken = nil
	user.VerificationTokenExpires = nil

	s.dispatchMail(func() error {
		return s.mailer.SendWelcomeEmail(user.Email, user.Name)
	})

	return user, nil
}

// ResendVerification rotates the token and sends a fresh activation email.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperror.ErrUserNotFound
		}
		return err
	}

	if user.IsVerified {
		return apperror.New(apperror.ErrCodeConflict, "email already verified")
	}

	token, err := newVerificationToken()
	if err != nil {
		return err
	}
	expires := time.Now().Add(verificationTokenTTL)

	if err := s.repo.SetVerificationToken(ctx, user.ID, token, expires); err != nil {
		return err
	}

	s.dispatchMail(func() error {
		return s.mailer.SendVerificationEmail(user.Email, user.Name, token)
	})

	return nil
}

// Login checks the credentials of a verified user and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "email and password are required")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.New(apperror.ErrCodeUnauthorized, "invalid email or password")
		}
		return nil, err
	}

	if !user.IsVerified {
		return nil, ErrNeedsVerification
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperror.New(apperror.ErrCodeUnauthorized, "invalid email or password")
	}

	token, exp, err := s.tokenManager.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("auth service: issue token: %w", err)
	}

	return &LoginResult{
		User:      user,
		Token:     token,
		ExpiresAt: exp,
	}, nil
}

// Me resolves the current user by id.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// dispatchMail runs a mail send in the background. Mail is best effort:
// failures are logged and never reach the caller.
func (s *AuthService) dispatchMail(send func() error) {
	if s.mailer == nil {
		return
	}
	goroutine.SafeGo(func() {
		if err := send(); err != nil && logger.Log != nil {
			logger.Log.Warnf("auth service: email send failed: %v", err)
		}
	})
}

// newVerificationToken produces a 32-byte random hex token.
func newVerificationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("auth service: generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
