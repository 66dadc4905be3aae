package identity

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/geocards/geocards-api/internal/docstore"
	"github.com/geocards/geocards-api/internal/errors"
	"github.com/geocards/geocards-api/internal/pkg/clock"
	"github.com/geocards/geocards-api/internal/pkg/idgen"
)

const (
	// MinPasswordLength matches the original provider's weak-password rule
	MinPasswordLength = 6

	// DefaultTokenTTL is used when LocalConfig.TokenTTL is zero
	DefaultTokenTTL = 24 * time.Hour

	accountsPath = "accounts"
	issuer       = "geocards"
)

// LocalConfig holds the dependencies for the local provider
type LocalConfig struct {
	Store       docstore.Store
	Secret      []byte
	TokenTTL    time.Duration
	Clock       clock.Clock
	IDGenerator idgen.Generator

	// BcryptCost defaults to bcrypt.DefaultCost
	BcryptCost int
}

// Validate ensures all required dependencies are provided
func (c *LocalConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Store == nil {
		vb.RequiredField("Store")
	}
	if len(c.Secret) < 16 {
		vb.Field("Secret", "must be at least 16 bytes")
	}
	if c.TokenTTL < 0 {
		vb.Field("TokenTTL", "must not be negative")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.BcryptCost != 0 && (c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost) {
		vb.Fieldf("BcryptCost", "must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	return vb.Build()
}

type account struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	CreatedAt    int64  `json:"createdAt"`
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Local stores accounts under accounts/{emailKey} and issues HS256 JWTs
type Local struct {
	store  docstore.Store
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
	idGen  idgen.Generator
	cost   int

	createMu sync.Mutex

	mu        sync.Mutex
	revoked   map[string]time.Time
	live      map[string]map[string]time.Time // user id -> token id -> expiry
	listeners map[int]func(StateChange)
	nextID    int
}

// NewLocal creates a local provider
func NewLocal(cfg *LocalConfig) (*Local, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	return &Local{
		store:     cfg.Store,
		secret:    cfg.Secret,
		ttl:       ttl,
		clock:     cfg.Clock,
		idGen:     cfg.IDGenerator,
		cost:      cost,
		revoked:   make(map[string]time.Time),
		live:      make(map[string]map[string]time.Time),
		listeners: make(map[int]func(StateChange)),
	}, nil
}

var _ Provider = (*Local)(nil)

// CreateAccount registers email and signs the new user in
func (l *Local) CreateAccount(ctx context.Context, email, password string) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, authError(errors.CodeInvalidArgument, CodeWeakPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), l.cost)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	l.createMu.Lock()
	defer l.createMu.Unlock()

	path := accountPath(email)
	snap, err := l.store.Get(ctx, path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to look up account")
	}
	if snap.Exists() {
		return nil, authError(errors.CodeAlreadyExists, CodeEmailInUse)
	}

	acct := account{
		UID:          l.idGen.Generate(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    l.clock.Now().UnixMilli(),
	}
	if err := l.store.Set(ctx, path, acct); err != nil {
		return nil, errors.Wrap(err, "failed to store account")
	}

	slog.Info("Account created", "user_id", acct.UID)

	return l.signIn(acct)
}

// Login checks the password and issues a new session
func (l *Local) Login(ctx context.Context, email, password string) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	snap, err := l.store.Get(ctx, accountPath(email))
	if err != nil {
		return nil, errors.Wrap(err, "failed to look up account")
	}
	if !snap.Exists() {
		return nil, authError(errors.CodeNotFound, CodeUserNotFound)
	}

	var acct account
	if err := snap.Decode(&acct); err != nil {
		return nil, errors.Wrap(err, "corrupt account record")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return nil, authError(errors.CodeUnauthenticated, CodeWrongPassword)
	}

	return l.signIn(acct)
}

// Logout revokes token. The user is announced as signed out only once none
// of their tokens remain live.
func (l *Local) Logout(_ context.Context, token string) error {
	c, err := l.parse(token)
	if err != nil {
		return err
	}

	now := l.clock.Now()
	l.mu.Lock()
	for id, exp := range l.revoked {
		if now.After(exp) {
			delete(l.revoked, id)
		}
	}
	l.revoked[c.ID] = c.ExpiresAt.Time

	tokens := l.live[c.Subject]
	delete(tokens, c.ID)
	for id, exp := range tokens {
		if now.After(exp) {
			delete(tokens, id)
		}
	}
	signedOut := len(tokens) == 0
	if signedOut {
		delete(l.live, c.Subject)
	}
	l.mu.Unlock()

	if signedOut {
		l.emit(StateChange{UserID: c.Subject})
	}
	return nil
}

// Verify returns the user a live token belongs to. Tokens issued before a
// restart are tracked again from their first verification.
func (l *Local) Verify(_ context.Context, token string) (*User, error) {
	c, err := l.parse(token)
	if err != nil {
		return nil, err
	}
	l.track(c.Subject, c.ID, c.ExpiresAt.Time)
	return &User{ID: c.Subject, Email: c.Email}, nil
}

// OnStateChange registers fn for sign-in and sign-out notifications
func (l *Local) OnStateChange(fn func(StateChange)) func() {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.listeners[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.listeners, id)
		l.mu.Unlock()
	}
}

func (l *Local) signIn(acct account) (*Session, error) {
	now := l.clock.Now()
	expires := now.Add(l.ttl)
	tokenID := l.idGen.Generate()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: acct.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   acct.UID,
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString(l.secret)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign session token")
	}

	l.track(acct.UID, tokenID, expires)

	user := User{ID: acct.UID, Email: acct.Email}
	l.emit(StateChange{UserID: user.ID, User: &user})

	return &Session{Token: signed, User: user, ExpiresAt: expires}, nil
}

func (l *Local) track(userID, tokenID string, expires time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	tokens, ok := l.live[userID]
	if !ok {
		tokens = make(map[string]time.Time)
		l.live[userID] = tokens
	}
	tokens[tokenID] = expires
}

func (l *Local) parse(token string) (*claims, error) {
	if token == "" {
		return nil, authError(errors.CodeUnauthenticated, CodeInvalidToken)
	}

	c := &claims{}
	_, err := jwt.ParseWithClaims(token, c, func(*jwt.Token) (any, error) {
		return l.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(l.clock.Now),
	)
	if err != nil {
		return nil, authError(errors.CodeUnauthenticated, CodeInvalidToken)
	}

	l.mu.Lock()
	_, revoked := l.revoked[c.ID]
	l.mu.Unlock()
	if revoked {
		return nil, authError(errors.CodeUnauthenticated, CodeInvalidToken)
	}
	return c, nil
}

func (l *Local) emit(change StateChange) {
	l.mu.Lock()
	fns := make([]func(StateChange), 0, len(l.listeners))
	for _, fn := range l.listeners {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(change)
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", authError(errors.CodeInvalidArgument, CodeInvalidEmail)
	}
	return email, nil
}

// accountPath keys accounts by the base64url email so the key is a valid
// path segment
func accountPath(email string) string {
	return docstore.Join(accountsPath, base64.RawURLEncoding.EncodeToString([]byte(email)))
}
