// Package services contains application services for the Portfolio
// Visualizer client. This file defines the authentication service: login,
// signup, logout and profile management on top of the session guard.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pvisualizer/internal/client/api"
	"github.com/dmitrijs2005/pvisualizer/internal/client/models"
	"github.com/dmitrijs2005/pvisualizer/internal/client/session"
	"github.com/dmitrijs2005/pvisualizer/internal/logging"
)

var (
	// ErrLoginFailed means the API issued a token but it did not verify.
	ErrLoginFailed = errors.New("login failed")
)

// AuthClient is the part of the API client the auth service needs.
type AuthClient interface {
	Login(ctx context.Context, email, password string) (string, error)
	Signup(ctx context.Context, req models.SignupRequest) (string, error)
	Me(ctx context.Context, token string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, token string, upd models.ProfileUpdate) error
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - LoggedIn: verify the stored credential, if any.
//   - Login / Signup: obtain a token, hand it to the guard and verify it.
//   - Logout: drop the credential without a network call.
//   - Profile / UpdateProfile: protected; need a verified session.
type AuthService interface {
	LoggedIn(ctx context.Context) (bool, error)
	Login(ctx context.Context, email, password string) error
	Signup(ctx context.Context, account models.Account, password string) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, account models.Account) error
}

type authService struct {
	client AuthClient
	guard  *session.Guard
	logger logging.Logger
}

func NewAuthService(client AuthClient, guard *session.Guard, logger logging.Logger) AuthService {
	return &authService{client: client, guard: guard, logger: logger.With("service", "auth")}
}

func (a *authService) LoggedIn(ctx context.Context) (bool, error) {
	st, err := a.guard.Verify(ctx)
	if err != nil {
		return false, err
	}
	return st == session.Authenticated, nil
}

// Login authenticates against the API and opens a session with the
// returned token. A request failure leaves the stored credential alone.
func (a *authService) Login(ctx context.Context, email, password string) error {
	token, err := a.client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return a.open(ctx, token)
}

func (a *authService) Signup(ctx context.Context, account models.Account, password string) error {
	token, err := a.client.Signup(ctx, models.NewSignupRequest(account, password))
	if err != nil {
		return fmt.Errorf("signup: %w", err)
	}
	return a.open(ctx, token)
}

func (a *authService) open(ctx context.Context, token string) error {
	if err := a.guard.Acquire(ctx, token); err != nil {
		return err
	}
	st, err := a.guard.Verify(ctx)
	if err != nil {
		return err
	}
	if st != session.Authenticated {
		return ErrLoginFailed
	}
	a.logger.Info(ctx, "logged in")
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.guard.Release(ctx); err != nil {
		return err
	}
	a.logger.Info(ctx, "logged out")
	return nil
}

func (a *authService) Profile(ctx context.Context) (*models.Profile, error) {
	token, err := a.guard.Token(ctx)
	if err != nil {
		return nil, err
	}
	p, err := a.client.Me(ctx, token)
	if err != nil {
		return nil, dropOnUnauthorized(ctx, a.guard, a.logger, "get profile", err)
	}
	return p, nil
}

func (a *authService) UpdateProfile(ctx context.Context, account models.Account) error {
	token, err := a.guard.Token(ctx)
	if err != nil {
		return err
	}
	if err := a.client.UpdateProfile(ctx, token, models.NewProfileUpdate(account)); err != nil {
		return dropOnUnauthorized(ctx, a.guard, a.logger, "update profile", err)
	}
	return nil
}

// dropOnUnauthorized releases the session when the API no longer accepts
// the token and wraps err with op.
func dropOnUnauthorized(ctx context.Context, g *session.Guard, logger logging.Logger, op string, err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		logger.Info(ctx, "token rejected, releasing session", "op", op)
		_ = g.Release(ctx)
	}
	return fmt.Errorf("%s: %w", op, err)
}
