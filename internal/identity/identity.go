// Package identity issues and verifies player credentials. Provider is the
// contract the rest of the service consumes; Local is a self-hosted
// implementation backed by the document store.
package identity

//go:generate mockgen -destination=mock/mock_provider.go -package=identitymock github.com/geocards/geocards-api/internal/identity Provider

import (
	"context"
	"time"

	"github.com/geocards/geocards-api/internal/errors"
)

// User is a signed-in account
type User struct {
	ID    string
	Email string
}

// Session is an issued credential
type Session struct {
	Token     string
	User      User
	ExpiresAt time.Time
}

// StateChange reports a sign-in (User set) or sign-out (User nil)
type StateChange struct {
	UserID string
	User   *User
}

// Provider is the identity contract
type Provider interface {
	CreateAccount(ctx context.Context, email, password string) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, token string) error
	Verify(ctx context.Context, token string) (*User, error)
	OnStateChange(fn func(StateChange)) (cancel func())
}

// Provider error codes, attached to errors as the "auth_code" meta value
const (
	CodeEmailInUse    = "auth/email-already-in-use"
	CodeInvalidEmail  = "auth/invalid-email"
	CodeWeakPassword  = "auth/weak-password"
	CodeUserNotFound  = "auth/user-not-found"
	CodeWrongPassword = "auth/wrong-password"
	CodeInvalidToken  = "auth/invalid-token"

	metaAuthCode = "auth_code"
)

var messages = map[string]string{
	CodeEmailInUse:    "this email is already in use",
	CodeInvalidEmail:  "invalid email format",
	CodeWeakPassword:  "password is too weak (at least 6 characters)",
	CodeUserNotFound:  "user not found",
	CodeWrongPassword: "wrong password",
	CodeInvalidToken:  "session is invalid or expired, sign in again",
}

// Message returns the player-facing text for a provider error code
func Message(code string) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return "authentication failed"
}

// AuthCode returns the provider error code carried by err, if any
func AuthCode(err error) string {
	code, _ := errors.GetMeta(err)[metaAuthCode].(string)
	return code
}

func authError(code errors.Code, authCode string) *errors.Error {
	return errors.New(code, Message(authCode)).WithMeta(metaAuthCode, authCode)
}
