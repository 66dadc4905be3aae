package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/geocards/geocards-api/internal/battle"
	"github.com/geocards/geocards-api/internal/collection"
	"github.com/geocards/geocards-api/internal/docstore"
	"github.com/geocards/geocards-api/internal/entities"
	"github.com/geocards/geocards-api/internal/errors"
	"github.com/geocards/geocards-api/internal/identity"
	"github.com/geocards/geocards-api/internal/pkg/idgen"
	cardsrepo "github.com/geocards/geocards-api/internal/repositories/cards"
	"github.com/geocards/geocards-api/internal/repositories/profile"
)

// Config holds the dependencies for the session manager
type Config struct {
	Store       docstore.Store
	Identity    identity.Provider
	Roller      dice.Roller
	Rewarder    battle.Rewarder
	IDGenerator idgen.Generator

	// EventBus is shared by every battle engine. A new bus is created when nil.
	EventBus events.EventBus

	Pacer           battle.Pacer
	OpponentDelay   time.Duration
	TurnReturnDelay time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Store == nil {
		vb.RequiredField("Store")
	}
	if c.Identity == nil {
		vb.RequiredField("Identity")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.Rewarder == nil {
		vb.RequiredField("Rewarder")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

// Manager opens a Session when a player signs in and closes it when they
// sign out
type Manager struct {
	cfg       Config
	bus       events.EventBus
	stopWatch func()

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a manager and starts listening for identity changes
func NewManager(cfg *Config) (*Manager, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	bus := cfg.EventBus
	if bus == nil {
		bus = events.NewBus()
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		cfg:      *cfg,
		bus:      bus,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[string]*Session),
	}
	m.stopWatch = cfg.Identity.OnStateChange(m.onStateChange)
	return m, nil
}

// Bus returns the event bus battle engines publish to
func (m *Manager) Bus() events.EventBus {
	return m.bus
}

func (m *Manager) onStateChange(change identity.StateChange) {
	if change.User == nil {
		m.CloseSession(change.UserID)
		return
	}
	if _, err := m.Open(*change.User); err != nil {
		slog.Error("Failed to open session",
			"user_id", change.UserID,
			"error", err,
		)
	}
}

// Open returns the user's session, creating it on first use
func (m *Manager) Open(user identity.User) (*Session, error) {
	if user.ID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx.Err() != nil {
		return nil, errors.Unavailable("session manager is closed")
	}
	if s, ok := m.sessions[user.ID]; ok {
		return s, nil
	}

	engine, err := battle.NewEngine(&battle.Config{
		ID:              user.ID,
		Roller:          m.cfg.Roller,
		Rewarder:        m.cfg.Rewarder,
		IDGenerator:     m.cfg.IDGenerator,
		EventBus:        m.bus,
		Pacer:           m.cfg.Pacer,
		OpponentDelay:   m.cfg.OpponentDelay,
		TurnReturnDelay: m.cfg.TurnReturnDelay,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create battle engine")
	}

	s := newSession(m.ctx, user.ID, user.Email, engine)
	if err := m.attach(s); err != nil {
		s.Close()
		return nil, err
	}

	m.sessions[user.ID] = s
	slog.Info("Session opened", "user_id", user.ID)
	return s, nil
}

// attach starts the mirrors that keep s in step with the document store
func (m *Manager) attach(s *Session) error {
	if err := collection.Mirror(s.ctx, m.cfg.Store, profile.InventoryPath(s.userID), s.inventory,
		collection.WithSnapshotHook(s.resync)); err != nil {
		return err
	}
	if err := collection.Mirror(s.ctx, m.cfg.Store, cardsrepo.Path, s.field,
		collection.WithSnapshotHook(s.resync)); err != nil {
		return err
	}

	userPath := profile.UserPath(s.userID)
	sub, err := m.cfg.Store.Subscribe(s.ctx, userPath, func(snap docstore.Snapshot) {
		var p entities.Profile
		if err := snap.Decode(&p); err != nil {
			slog.Warn("Skipping undecodable profile", "path", userPath, "error", err)
			return
		}
		if !snap.Exists() {
			return
		}
		s.SetProgress(Progress{Experience: p.Experience, Level: p.Level, Guild: p.Guild})
		s.resync(userPath)
	})
	if err != nil {
		return errors.Wrapf(err, "failed to subscribe to %s", userPath)
	}
	go func() {
		<-s.ctx.Done()
		sub.Cancel()
	}()

	return nil
}

// Get returns an open session
func (m *Manager) Get(userID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		return nil, errors.FailedPrecondition("no active session, sign in first").WithMeta("user_id", userID)
	}
	return s, nil
}

// CloseSession ends a user's session if one is open
func (m *Manager) CloseSession(userID string) {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()

	if ok {
		s.Close()
		slog.Info("Session closed", "user_id", userID)
	}
}

// Close ends every session and stops listening for identity changes
func (m *Manager) Close() {
	m.stopWatch()

	m.mu.Lock()
	m.cancel()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

// Registry is the session lookup orchestrators depend on
type Registry interface {
	Open(user identity.User) (*Session, error)
	Get(userID string) (*Session, error)
	CloseSession(userID string)
}

// Ensure Manager implements Registry
var _ Registry = (*Manager)(nil)
