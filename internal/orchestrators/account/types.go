package account

import (
	"time"

	"github.com/geocards/geocards-api/internal/entities"
	"github.com/geocards/geocards-api/internal/identity"
)

// RegisterInput defines the request for creating an account
type RegisterInput struct {
	Email    string
	Password string
}

// RegisterOutput defines the response for creating an account
type RegisterOutput struct {
	Token       string
	ExpiresAt   time.Time
	User        identity.User
	Profile     *entities.Profile
	SyncPending bool
}

// LoginInput defines the request for signing in
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput defines the response for signing in
type LoginOutput struct {
	Token       string
	ExpiresAt   time.Time
	User        identity.User
	Profile     *entities.Profile
	SyncPending bool
}

// LogoutInput defines the request for signing out
type LogoutInput struct {
	Token string
}

// LogoutOutput defines the response for signing out
type LogoutOutput struct {
	UserID string
}

// AuthenticateInput carries a bearer token
type AuthenticateInput struct {
	Token string
}

// AuthenticateOutput identifies the caller
type AuthenticateOutput struct {
	User identity.User
}
