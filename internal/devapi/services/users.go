// Package services implements the dev API use cases on top of the
// repositories.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/pvisualizer/internal/devapi/auth"
	"github.com/dmitrijs2005/pvisualizer/internal/devapi/config"
	"github.com/dmitrijs2005/pvisualizer/internal/devapi/models"
	"github.com/dmitrijs2005/pvisualizer/internal/devapi/repositories/repomanager"
	"github.com/dmitrijs2005/pvisualizer/internal/devapi/repositories/users"
	"github.com/dmitrijs2005/pvisualizer/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrInternal      = errors.New("internal error")
)

// Profile holds the editable account fields shared by signup and update.
type Profile struct {
	FullName     string
	Email        string
	ProfileType  string
	Company      string
	Country      string
	FirmType     string
	MarketRegion string
}

type UserService struct {
	repos         repomanager.RepositoryManager
	jwtSecret     []byte
	tokenValidity time.Duration
	hashCost      int
	logger        logging.Logger
}

func NewUserService(m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		repos:         m,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		hashCost:      bcrypt.DefaultCost,
		logger:        logger.With("module", "users"),
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: invalid email %q", ErrValidation, email)
	}
	return email, nil
}

// Signup creates the account and returns a token for it.
func (s *UserService) Signup(ctx context.Context, p Profile, password string) (string, error) {
	email, err := normalizeEmail(p.Email)
	if err != nil {
		return "", err
	}
	if password == "" {
		return "", fmt.Errorf("%w: empty password", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("%w: hash password: %v", ErrValidation, err)
	}

	u := &models.User{ID: uuid.NewString(), Email: email, PasswordHash: hash}
	applyProfile(u, p)

	if err := s.repos.Users().Create(ctx, u); err != nil {
		if errors.Is(err, users.ErrAlreadyExists) {
			return "", ErrAlreadyExists
		}
		s.logger.Error(ctx, "create user", "error", err)
		return "", ErrInternal
	}

	s.logger.Info(ctx, "Registered", "user_id", u.ID)
	return s.issue(u.ID)
}

// Login checks the password and returns a fresh token. Unknown emails and
// wrong passwords both yield ErrUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.repos.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return "", ErrUnauthorized
		}
		s.logger.Error(ctx, "find user", "error", err)
		return "", ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return "", ErrUnauthorized
	}

	return s.issue(u.ID)
}

func (s *UserService) issue(userID string) (string, error) {
	token, err := auth.GenerateToken(userID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", ErrInternal
	}
	return token, nil
}

// Authenticate resolves a bearer token to a user ID.
func (s *UserService) Authenticate(token string) (string, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return userID, nil
}

// Get returns the user behind userID. A user deleted since the token was
// issued is ErrUnauthorized.
func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.repos.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		s.logger.Error(ctx, "get user", "error", err)
		return nil, ErrInternal
	}
	return u, nil
}

// UpdateProfile overwrites the non-empty fields of p.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, p Profile) error {
	if p.Email != "" {
		email, err := normalizeEmail(p.Email)
		if err != nil {
			return err
		}
		p.Email = email
	}

	err := s.repos.WithTx(ctx, func(ctx context.Context, repo users.Repository) error {
		u, err := repo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if p.Email != "" {
			u.Email = p.Email
		}
		applyProfile(u, p)
		return repo.Update(ctx, u)
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, users.ErrNotFound):
		return ErrUnauthorized
	case errors.Is(err, users.ErrAlreadyExists):
		return ErrAlreadyExists
	default:
		s.logger.Error(ctx, "update user", "error", err)
		return ErrInternal
	}
}

func applyProfile(u *models.User, p Profile) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&u.FullName, strings.TrimSpace(p.FullName))
	set(&u.ProfileType, p.ProfileType)
	set(&u.Company, p.Company)
	set(&u.Country, p.Country)
	set(&u.FirmType, p.FirmType)
	set(&u.MarketRegion, p.MarketRegion)
}
