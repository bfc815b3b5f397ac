package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"expensetracker/internal/auth"
	"expensetracker/internal/cache"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/model"
	"expensetracker/internal/repository"
)

const (
	bcryptCost = 10
	// maxPasswordBytes is bcrypt's input limit.
	maxPasswordBytes = 72
	// userCacheTTL bounds how long a cached profile can outlive a failed
	// cache write on update or delete.
	userCacheTTL = time.Minute
)

// deletedUser marks a deleted account in the profile cache.
var deletedUser = []byte("deleted")

// dummyHash is compared against when the email is unknown so that a failed
// login costs the same with or without a matching account.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password"), bcryptCost)

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User  *model.UserSummary
	Token string
}

// AuthService handles account operations. Every method that acts on an
// existing account takes the caller's id explicitly.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.UserSummary, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) (*model.UserSummary, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	cache      *cache.Client
}

// NewAuthService creates a new authentication service. cache may be nil.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, cache *cache.Client) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		cache:      cache,
	}
}

// NormalizeEmail trims and lower-cases an address. Emails are compared
// case-insensitively everywhere.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id.String())
}

// Register creates a new account with hashed password and signs a token for it.
func (s *authService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)
	if len(password) > maxPasswordBytes {
		return nil, apperrors.NewValidationError("password", "password must be at most 72 bytes")
	}

	// Check if account already exists
	_, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperrors.ErrEmailTaken
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("check account existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	return s.issue(user)
}

// Login authenticates an account. Unknown email and wrong password produce
// the same ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issue(user)
}

// GetByID returns the user's public view, served from cache when possible.
// The cache is only filled when the key is absent, so a summary read before a
// concurrent update or delete never replaces what that write stored.
func (s *authService) GetByID(ctx context.Context, id uuid.UUID) (*model.UserSummary, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		if bytes.Equal(data, deletedUser) {
			return nil, apperrors.ErrNotFound
		}
		var cached model.UserSummary
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	summary := user.Summary()
	if payload, err := json.Marshal(summary); err == nil {
		_ = s.cache.SetNX(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return summary, nil
}

// UpdateProfile changes name and email. The new email must not belong to another account.
func (s *authService) UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) (*model.UserSummary, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" {
		return nil, &apperrors.ValidationError{Fields: map[string]string{
			"name":  "name and email are required",
			"email": "name and email are required",
		}}
	}

	owner, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil && owner.ID != id:
		return nil, apperrors.ErrEmailTaken
	case err != nil && !errors.Is(err, apperrors.ErrNotFound):
		return nil, fmt.Errorf("check email owner: %w", err)
	}

	user, err := s.userRepo.UpdateProfile(ctx, id, name, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("update account: %w", err)
	}

	summary := user.Summary()
	if payload, err := json.Marshal(summary); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return summary, nil
}

// DeleteAccount removes the account. Owned expenses are left in place and
// already issued tokens stay valid until they expire.
func (s *authService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete account: %w", err)
	}

	_ = s.cache.Set(ctx, s.cacheKey(id), deletedUser, userCacheTTL)
	return nil
}

func (s *authService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.jwtService.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: user.Summary(), Token: token}, nil
}
