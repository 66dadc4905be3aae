// Package account implements registration, sign-in and sign-out
package account

//go:generate mockgen -destination=mock/mock_service.go -package=accountmock github.com/geocards/geocards-api/internal/orchestrators/account Service

import (
	"context"
	"log/slog"

	"github.com/geocards/geocards-api/internal/cards"
	"github.com/geocards/geocards-api/internal/entities"
	"github.com/geocards/geocards-api/internal/errors"
	"github.com/geocards/geocards-api/internal/identity"
	"github.com/geocards/geocards-api/internal/orchestrators/session"
	"github.com/geocards/geocards-api/internal/pkg/clock"
	"github.com/geocards/geocards-api/internal/repositories/profile"
)

// Service defines the interface for account operations
type Service interface {
	// Register creates an account and its profile with the starter items
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// Login signs in and records the sign-in time
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// Logout revokes the token and closes the session
	Logout(ctx context.Context, input *LogoutInput) (*LogoutOutput, error)

	// Authenticate verifies a token and makes sure its session is open
	Authenticate(ctx context.Context, input *AuthenticateInput) (*AuthenticateOutput, error)
}

// Config holds the dependencies for the account orchestrator
type Config struct {
	Identity    identity.Provider
	Sessions    session.Registry
	ProfileRepo profile.Repository
	Clock       clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Identity == nil {
		vb.RequiredField("Identity")
	}
	if c.Sessions == nil {
		vb.RequiredField("Sessions")
	}
	if c.ProfileRepo == nil {
		vb.RequiredField("ProfileRepo")
	}

	return vb.Build()
}

type orchestrator struct {
	identity    identity.Provider
	sessions    session.Registry
	profileRepo profile.Repository
	clock       clock.Clock
}

// NewOrchestrator creates a new account orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &orchestrator{
		identity:    cfg.Identity,
		sessions:    cfg.Sessions,
		profileRepo: cfg.ProfileRepo,
		clock:       c,
	}, nil
}

// Register creates the account, opens its session and writes the profile
func (o *orchestrator) Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("email", input.Email, vb)
	errors.ValidateRequired("password", input.Password, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	creds, err := o.identity.CreateAccount(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	sess, err := o.sessions.Open(creds.User)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open session")
	}

	p := o.initializeProfile(ctx, sess, creds.User.Email)

	slog.Info("Account registered",
		"user_id", creds.User.ID,
		"sync_pending", sess.SyncPending(),
	)

	return &RegisterOutput{
		Token:       creds.Token,
		ExpiresAt:   creds.ExpiresAt,
		User:        creds.User,
		Profile:     p,
		SyncPending: sess.SyncPending(),
	}, nil
}

// initializeProfile writes a fresh profile with the starter items. When the
// write fails the session keeps the profile locally and is marked diverged.
func (o *orchestrator) initializeProfile(ctx context.Context, sess *session.Session, email string) *entities.Profile {
	now := o.clock.Now().UnixMilli()
	p := &entities.Profile{
		Email:     email,
		Level:     1,
		CreatedAt: now,
		LastLogin: now,
		Inventory: cards.StarterItems(),
	}

	if _, err := o.profileRepo.Create(ctx, profile.CreateInput{UserID: sess.UserID(), Profile: p}); err != nil {
		sess.Inventory().ReplaceAll(p.Inventory)
		sess.SetProgress(session.Progress{Level: p.Level})
		sess.MarkDiverged(profile.UserPath(sess.UserID()), err)
	}
	return p
}

// Login signs in. A missing profile, left behind by a failed registration
// write, is recreated.
func (o *orchestrator) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("email", input.Email, vb)
	errors.ValidateRequired("password", input.Password, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	creds, err := o.identity.Login(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	sess, err := o.sessions.Open(creds.User)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open session")
	}

	var p *entities.Profile
	got, err := o.profileRepo.Get(ctx, profile.GetInput{UserID: creds.User.ID})
	switch {
	case errors.IsNotFound(err):
		slog.Warn("Profile missing at login, recreating", "user_id", creds.User.ID)
		p = o.initializeProfile(ctx, sess, creds.User.Email)
	case err != nil:
		sess.MarkDiverged(profile.UserPath(creds.User.ID), err)
	default:
		p = got.Profile
		p.LastLogin = o.clock.Now().UnixMilli()
		if _, err := o.profileRepo.TouchLastLogin(ctx, profile.TouchLastLoginInput{
			UserID: creds.User.ID,
			At:     p.LastLogin,
		}); err != nil {
			sess.MarkDiverged(profile.UserPath(creds.User.ID)+"/lastLogin", err)
		}
	}

	slog.Info("User signed in", "user_id", creds.User.ID)

	return &LoginOutput{
		Token:       creds.Token,
		ExpiresAt:   creds.ExpiresAt,
		User:        creds.User,
		Profile:     p,
		SyncPending: sess.SyncPending(),
	}, nil
}

// Logout revokes the token and closes the session
func (o *orchestrator) Logout(ctx context.Context, input *LogoutInput) (*LogoutOutput, error) {
	if input == nil || input.Token == "" {
		return nil, errors.Unauthenticated("token is required")
	}

	user, err := o.identity.Verify(ctx, input.Token)
	if err != nil {
		return nil, err
	}
	// the session closes on the provider's sign-out, which waits for the
	// user's last live token
	if err := o.identity.Logout(ctx, input.Token); err != nil {
		return nil, err
	}

	slog.Info("User signed out", "user_id", user.ID)
	return &LogoutOutput{UserID: user.ID}, nil
}

// Authenticate verifies the token and reopens a session lost to a restart
func (o *orchestrator) Authenticate(ctx context.Context, input *AuthenticateInput) (*AuthenticateOutput, error) {
	if input == nil || input.Token == "" {
		return nil, errors.Unauthenticated("token is required")
	}

	user, err := o.identity.Verify(ctx, input.Token)
	if err != nil {
		return nil, err
	}
	if _, err := o.sessions.Open(*user); err != nil {
		return nil, errors.Wrap(err, "failed to open session")
	}
	return &AuthenticateOutput{User: *user}, nil
}
