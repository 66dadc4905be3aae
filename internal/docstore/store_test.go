package docstore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/geocards/geocards-api/internal/docstore"
	"github.com/geocards/geocards-api/internal/errors"
	"github.com/geocards/geocards-api/internal/redis"
)

// recorder collects snapshots delivered to a listener
type recorder struct {
	mu    sync.Mutex
	snaps []docstore.Snapshot
}

func (r *recorder) listen(s docstore.Snapshot) {
	r.mu.Lock()
	r.snaps = append(r.snaps, s)
	r.mu.Unlock()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func (r *recorder) last() docstore.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snaps) == 0 {
		return docstore.Snapshot{}
	}
	return r.snaps[len(r.snaps)-1]
}

// StoreTestSuite runs the same behavior checks against each backend
type StoreTestSuite struct {
	suite.Suite
	newStore func(t *testing.T) (docstore.Store, func())
	store    docstore.Store
	cleanup  func()
	ctx      context.Context
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, &StoreTestSuite{
		newStore: func(t *testing.T) (docstore.Store, func()) {
			m := docstore.NewMemory()
			return m, func() { _ = m.Close() }
		},
	})
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, &StoreTestSuite{
		newStore: func(t *testing.T) (docstore.Store, func()) {
			mr, err := miniredis.Run()
			require.NoError(t, err)
			client, err := redis.NewClient(mr.Addr(), nil)
			require.NoError(t, err)
			store, err := docstore.NewRedis(&docstore.RedisConfig{Client: client})
			require.NoError(t, err)
			return store, func() {
				_ = store.Close()
				_ = client.Close()
				mr.Close()
			}
		},
	})
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store, s.cleanup = s.newStore(s.T())
}

func (s *StoreTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *StoreTestSuite) eventually(cond func() bool) {
	s.Require().Eventually(cond, 2*time.Second, 10*time.Millisecond)
}

func (s *StoreTestSuite) TestSetAndGet() {
	s.Require().NoError(s.store.Set(s.ctx, "users/u1", map[string]any{
		"email": "a@example.com",
		"level": 1,
	}))

	snap, err := s.store.Get(s.ctx, "users/u1/email")
	s.Require().NoError(err)
	s.True(snap.Exists())
	s.Equal("email", snap.Key())

	var email string
	s.Require().NoError(snap.Decode(&email))
	s.Equal("a@example.com", email)

	var profile struct {
		Email string `json:"email"`
		Level int    `json:"level"`
	}
	snap, err = s.store.Get(s.ctx, "/users/u1/")
	s.Require().NoError(err)
	s.Require().NoError(snap.Decode(&profile))
	s.Equal(1, profile.Level)
}

func (s *StoreTestSuite) TestGetMissing() {
	snap, err := s.store.Get(s.ctx, "users/nobody")
	s.Require().NoError(err)
	s.False(snap.Exists())
}

func (s *StoreTestSuite) TestSetNilDeletesAndPrunes() {
	s.Require().NoError(s.store.Set(s.ctx, "guilds/g1/members/u1", map[string]any{"role": "leader"}))
	s.Require().NoError(s.store.Set(s.ctx, "guilds/g1/members/u1", nil))

	snap, err := s.store.Get(s.ctx, "guilds/g1")
	s.Require().NoError(err)
	s.False(snap.Exists())
}

func (s *StoreTestSuite) TestInvalidPaths() {
	for _, path := range []string{"", "/", "users//u1", "users/a.b", "chat/$x", "cards/[0]"} {
		s.Run(path, func() {
			err := s.store.Set(s.ctx, path, 1)
			s.True(errors.IsInvalidArgument(err), "path %q: %v", path, err)
		})
	}
}

func (s *StoreTestSuite) TestPushKeysAreOrdered() {
	var keys []string
	for i := 0; i < 5; i++ {
		key, err := s.store.Push(s.ctx, "chat/global", map[string]any{"text": i})
		s.Require().NoError(err)
		keys = append(keys, key)
	}

	for i := 1; i < len(keys); i++ {
		s.Less(keys[i-1], keys[i])
	}

	snap, err := s.store.Get(s.ctx, "chat/global")
	s.Require().NoError(err)
	var all map[string]map[string]int
	s.Require().NoError(snap.Decode(&all))
	s.Len(all, 5)
}

func (s *StoreTestSuite) TestSubscribeDeliversCurrentValue() {
	s.Require().NoError(s.store.Set(s.ctx, "cards/c1/power", 7))

	rec := &recorder{}
	sub, err := s.store.Subscribe(s.ctx, "cards", rec.listen)
	s.Require().NoError(err)
	defer sub.Cancel()

	s.eventually(func() bool { return rec.count() >= 1 })
	s.JSONEq(`{"c1":{"power":7}}`, string(rec.last().Raw))
}

func (s *StoreTestSuite) TestSubscribeSeesDescendantAndAncestorWrites() {
	rec := &recorder{}
	sub, err := s.store.Subscribe(s.ctx, "cards/c1", rec.listen)
	s.Require().NoError(err)
	defer sub.Cancel()
	s.eventually(func() bool { return rec.count() == 1 })

	s.Require().NoError(s.store.Set(s.ctx, "cards/c1/collected/u1", true))
	s.eventually(func() bool { return rec.count() == 2 })
	s.JSONEq(`{"collected":{"u1":true}}`, string(rec.last().Raw))

	s.Require().NoError(s.store.Set(s.ctx, "cards", map[string]any{"c1": map[string]any{"power": 2}}))
	s.eventually(func() bool { return rec.count() == 3 })
	s.JSONEq(`{"power":2}`, string(rec.last().Raw))

	s.Require().NoError(s.store.Set(s.ctx, "cards/c2/power", 9))
	s.Require().NoError(s.store.Set(s.ctx, "users/u1/level", 2))
	s.Require().NoError(s.store.Set(s.ctx, "cards/c1/power", 3))
	s.eventually(func() bool { return rec.count() == 4 })
	s.JSONEq(`{"power":3}`, string(rec.last().Raw))
}

func (s *StoreTestSuite) TestCancelStopsDeliveries() {
	rec := &recorder{}
	sub, err := s.store.Subscribe(s.ctx, "chat/global", rec.listen)
	s.Require().NoError(err)
	s.eventually(func() bool { return rec.count() == 1 })

	sub.Cancel()
	sub.Cancel()

	s.Require().NoError(s.store.Set(s.ctx, "chat/global/m1", "hi"))

	// a second subscriber proves the write was dispatched
	other := &recorder{}
	sub2, err := s.store.Subscribe(s.ctx, "chat/global", other.listen)
	s.Require().NoError(err)
	defer sub2.Cancel()
	s.eventually(func() bool { return other.count() >= 1 })

	s.Equal(1, rec.count())
}

func TestMemory_ListenerMayWriteBack(t *testing.T) {
	ctx := context.Background()
	m := docstore.NewMemory()
	defer func() { _ = m.Close() }()

	var seen []string
	_, err := m.Subscribe(ctx, "counter", func(snap docstore.Snapshot) {
		seen = append(seen, string(snap.Raw))
		var n int
		_ = snap.Decode(&n)
		if n == 1 {
			_ = m.Set(ctx, "counter", 2)
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := m.Set(ctx, "counter", 1); err != nil {
		t.Fatal(err)
	}

	if got, want := len(seen), 3; got != want {
		t.Fatalf("deliveries = %d, want %d (%v)", got, want, seen)
	}
	if seen[0] != "" || seen[1] != "1" || seen[2] != "2" {
		t.Fatalf("unexpected delivery order %v", seen)
	}
}

func TestMemory_ClosedStoreIsUnavailable(t *testing.T) {
	m := docstore.NewMemory()
	_ = m.Close()

	err := m.Set(context.Background(), "users/u1", 1)
	if !errors.IsUnavailable(err) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestNewRedis_RequiresClient(t *testing.T) {
	_, err := docstore.NewRedis(&docstore.RedisConfig{})
	if !errors.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
