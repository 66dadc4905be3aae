package docstore

import (
	"context"
	"sort"
	"sync"

	"github.com/geocards/geocards-api/internal/errors"
)

type memoryListener struct {
	path     string
	segs     []string
	listener Listener
	active   bool
}

type delivery struct {
	sub  *memoryListener
	snap Snapshot
}

// Memory is an in-process Store. Listeners run outside the tree lock,
// one at a time, in the order writes happened. A listener may write back
// into the store; that write is delivered after the current one.
type Memory struct {
	mu       sync.Mutex
	root     map[string]any
	subs     map[int]*memoryListener
	nextSub  int
	closed   bool
	queue    []delivery
	draining bool
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		root: make(map[string]any),
		subs: make(map[int]*memoryListener),
	}
}

var _ Store = (*Memory)(nil)

// Get reads the value at path
func (m *Memory) Get(_ context.Context, path string) (Snapshot, error) {
	segs, err := SplitPath(path)
	if err != nil {
		return Snapshot{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return Snapshot{}, errors.Unavailable("document store is closed")
	}
	return m.snapshotLocked(path, segs)
}

// Set overwrites the value at path
func (m *Memory) Set(_ context.Context, path string, value any) error {
	segs, err := SplitPath(path)
	if err != nil {
		return err
	}
	normalized, err := normalize(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return errors.Unavailable("document store is closed")
	}
	setAt(m.root, segs, normalized)
	if err := m.enqueueLocked(segs); err != nil {
		m.mu.Unlock()
		return err
	}
	m.mu.Unlock()

	m.drain()
	return nil
}

// Push stores value under a new child key of path
func (m *Memory) Push(ctx context.Context, path string, value any) (string, error) {
	if _, err := SplitPath(path); err != nil {
		return "", err
	}
	key, err := newPushKey()
	if err != nil {
		return "", err
	}
	if err := m.Set(ctx, Join(path, key), value); err != nil {
		return "", err
	}
	return key, nil
}

// Subscribe registers listener on path and delivers the current value
func (m *Memory) Subscribe(_ context.Context, path string, listener Listener) (*Subscription, error) {
	segs, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	if listener == nil {
		return nil, errors.InvalidArgument("listener is required")
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, errors.Unavailable("document store is closed")
	}
	id := m.nextSub
	m.nextSub++
	sub := &memoryListener{path: path, segs: segs, listener: listener, active: true}
	m.subs[id] = sub

	snap, err := m.snapshotLocked(path, segs)
	if err != nil {
		delete(m.subs, id)
		m.mu.Unlock()
		return nil, err
	}
	m.queue = append(m.queue, delivery{sub: sub, snap: snap})
	m.mu.Unlock()

	m.drain()

	return newSubscription(func() {
		m.mu.Lock()
		sub.active = false
		delete(m.subs, id)
		m.mu.Unlock()
	}), nil
}

// Close drops every subscription; later calls fail with Unavailable
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	for id, sub := range m.subs {
		sub.active = false
		delete(m.subs, id)
	}
	m.queue = nil
	return nil
}

func (m *Memory) snapshotLocked(path string, segs []string) (Snapshot, error) {
	raw, err := encode(getAt(m.root, segs))
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Path: path, Raw: raw}, nil
}

func (m *Memory) enqueueLocked(written []string) error {
	for _, id := range sortedSubIDs(m.subs) {
		sub := m.subs[id]
		if !related(written, sub.segs) {
			continue
		}
		snap, err := m.snapshotLocked(sub.path, sub.segs)
		if err != nil {
			return err
		}
		m.queue = append(m.queue, delivery{sub: sub, snap: snap})
	}
	return nil
}

// drain delivers queued snapshots unless another goroutine (or an outer
// frame of this one) is already doing so.
func (m *Memory) drain() {
	m.mu.Lock()
	if m.draining {
		m.mu.Unlock()
		return
	}
	m.draining = true

	for len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		if !next.sub.active {
			continue
		}
		m.mu.Unlock()
		next.sub.listener(next.snap)
		m.mu.Lock()
	}

	m.draining = false
	m.mu.Unlock()
}

func sortedSubIDs(subs map[int]*memoryListener) []int {
	ids := make([]int, 0, len(subs))
	for id := range subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
