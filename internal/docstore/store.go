// Package docstore is the path-addressed realtime document store the game
// persists to. Values are JSON trees; a path is a list of "/"-separated
// segments. Two backends exist: Memory for single-process use and tests,
// and Redis for shared deployments.
package docstore

//go:generate mockgen -destination=mock/mock_store.go -package=docstoremock github.com/geocards/geocards-api/internal/docstore Store

import (
	"context"
	"encoding/json"
	"sync"
)

// Store is the document store contract consumed by repositories
type Store interface {
	// Get reads the value at path. A missing value is not an error;
	// the snapshot reports Exists() == false.
	Get(ctx context.Context, path string) (Snapshot, error)

	// Set overwrites the value at path. A nil value deletes it and any
	// parent left empty.
	Set(ctx context.Context, path string, value any) error

	// Push stores value under a new time-ordered child key of path and
	// returns the key.
	Push(ctx context.Context, path string, value any) (string, error)

	// Subscribe calls listener with the current value at path and again
	// after every write at, above or below it.
	Subscribe(ctx context.Context, path string, listener Listener) (*Subscription, error)

	// Close releases backend resources and ends every subscription
	Close() error
}

// Listener receives the full value at the subscribed path
type Listener func(Snapshot)

// Snapshot is the value at a path at one point in time
type Snapshot struct {
	Path string
	Raw  json.RawMessage
}

// Key returns the last path segment
func (s Snapshot) Key() string {
	segs, err := SplitPath(s.Path)
	if err != nil || len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

// Exists reports whether a value was present
func (s Snapshot) Exists() bool {
	return len(s.Raw) > 0 && string(s.Raw) != "null"
}

// Decode unmarshals the value into v. Decoding a missing value leaves v
// untouched.
func (s Snapshot) Decode(v any) error {
	if !s.Exists() {
		return nil
	}
	return json.Unmarshal(s.Raw, v)
}

// Subscription is a live listener registration
type Subscription struct {
	once   sync.Once
	cancel func()
}

func newSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

// NewSubscription wraps a cancel function; used by Store fakes in tests
func NewSubscription(cancel func()) *Subscription {
	return newSubscription(cancel)
}

// Cancel stops deliveries. Safe to call more than once.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}
