// Package session holds the per-player state of a signed-in user: mirrored
// inventory and field collections, the last reported location, the battle
// engine and the set of writes that failed to reach the document store.
package session

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/geocards/geocards-api/internal/battle"
	"github.com/geocards/geocards-api/internal/collection"
	"github.com/geocards/geocards-api/internal/entities"
)

// Progress is the locally held experience, level and guild link
type Progress struct {
	Experience int
	Level      int
	Guild      string
}

// Session is one signed-in player's context. Closing it cancels its
// mirrors and battle timers.
type Session struct {
	userID string
	email  string

	ctx    context.Context
	cancel context.CancelFunc

	inventory *collection.Store[*entities.InventoryItem]
	field     *collection.Store[*entities.Card]
	engine    *battle.Engine

	mu       sync.Mutex
	progress Progress
	location *entities.Coordinate
	visible  []string
	diverged map[string]struct{}
}

func newSession(parent context.Context, userID, email string, engine *battle.Engine) *Session {
	ctx, cancel := context.WithCancel(parent)
	return &Session{
		userID:    userID,
		email:     email,
		ctx:       ctx,
		cancel:    cancel,
		inventory: collection.NewStore[*entities.InventoryItem](),
		field:     collection.NewStore[*entities.Card](),
		engine:    engine,
		progress:  Progress{Level: 1},
		diverged:  make(map[string]struct{}),
	}
}

// UserID returns the owning account id
func (s *Session) UserID() string { return s.userID }

// Email returns the owning account email
func (s *Session) Email() string { return s.email }

// Context is done once the session is closed
func (s *Session) Context() context.Context { return s.ctx }

// Inventory is the mirrored users/{uid}/inventory collection
func (s *Session) Inventory() *collection.Store[*entities.InventoryItem] { return s.inventory }

// Field is the mirrored cards collection
func (s *Session) Field() *collection.Store[*entities.Card] { return s.field }

// Battle returns the player's battle engine
func (s *Session) Battle() *battle.Engine { return s.engine }

// Progress returns the local experience, level and guild
func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// SetProgress replaces the local progress
func (s *Session) SetProgress(p Progress) {
	s.mu.Lock()
	s.progress = p
	s.mu.Unlock()
}

// UpdateProgress applies fn to the local progress under the session lock
// and returns the result
func (s *Session) UpdateProgress(fn func(*Progress)) Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.progress)
	return s.progress
}

// SetLocation records the last reported position and the cards visible there
func (s *Session) SetLocation(loc entities.Coordinate, visible []string) {
	s.mu.Lock()
	s.location = &loc
	s.visible = append([]string(nil), visible...)
	s.mu.Unlock()
}

// Location returns the last reported position
func (s *Session) Location() (entities.Coordinate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.location == nil {
		return entities.Coordinate{}, false
	}
	return *s.location, true
}

// Visible returns the card ids found near the last reported position
func (s *Session) Visible() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.visible...)
}

// MarkDiverged records a write that did not reach the document store
func (s *Session) MarkDiverged(path string, err error) {
	s.mu.Lock()
	s.diverged[path] = struct{}{}
	s.mu.Unlock()

	slog.Warn("Remote write failed, keeping local state",
		"user_id", s.userID,
		"path", path,
		"error", err,
	)
}

// SyncPending reports whether any local change has not been confirmed
func (s *Session) SyncPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.diverged) > 0
}

// DivergedPaths lists the unconfirmed write paths in order
func (s *Session) DivergedPaths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, 0, len(s.diverged))
	for p := range s.diverged {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// resync clears every diverged path at or below path. It runs after a
// subscription snapshot for path has replaced local state.
func (s *Session) resync(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for p := range s.diverged {
		if p == path || strings.HasPrefix(p, path+"/") {
			delete(s.diverged, p)
		}
	}
}

// Close cancels mirrors and pending battle actions
func (s *Session) Close() {
	s.cancel()
	s.engine.Close()
}
