package docstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"github.com/geocards/geocards-api/internal/errors"
	"github.com/geocards/geocards-api/internal/redis"
)

const (
	defaultKeyPrefix = "doc:"
	defaultChannel   = "doc:changes"
	refreshBuffer    = 64
)

// RedisConfig configures the Redis backend
type RedisConfig struct {
	Client    redis.Client
	KeyPrefix string
	Channel   string
}

// Validate ensures all required dependencies are provided
func (c *RedisConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Client == nil {
		vb.RequiredField("Client")
	}
	return vb.Build()
}

type redisListener struct {
	path     string
	segs     []string
	listener Listener
	active   bool
}

// Redis stores each top-level segment as one JSON value under
// KeyPrefix+segment. Writes run as WATCH/MULTI transactions and PUBLISH the
// written path; a single goroutine per Redis value receives those
// notifications and re-reads every affected subscription, so listeners of
// one store are called one at a time in notification order.
type Redis struct {
	client  redis.Client
	prefix  string
	channel string

	mu      sync.Mutex
	subs    map[int]*redisListener
	nextSub int
	started bool
	closed  bool
	pubsub  *goredis.PubSub
	refresh chan *redisListener
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewRedis creates a Redis-backed store. The change subscription is opened
// on the first Subscribe call.
func NewRedis(cfg *RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	channel := cfg.Channel
	if channel == "" {
		channel = defaultChannel
	}

	return &Redis{
		client:  cfg.Client,
		prefix:  prefix,
		channel: channel,
		subs:    make(map[int]*redisListener),
		refresh: make(chan *redisListener, refreshBuffer),
	}, nil
}

var _ Store = (*Redis)(nil)

func (r *Redis) key(root string) string {
	return r.prefix + root
}

// Get reads the value at path
func (r *Redis) Get(ctx context.Context, path string) (Snapshot, error) {
	segs, err := SplitPath(path)
	if err != nil {
		return Snapshot{}, err
	}

	subtree, err := r.readRoot(ctx, r.client, segs[0])
	if err != nil {
		return Snapshot{}, err
	}

	raw, err := encode(getAt(map[string]any{segs[0]: subtree}, segs))
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Path: path, Raw: raw}, nil
}

type getter interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
}

func (r *Redis) readRoot(ctx context.Context, g getter, root string) (any, error) {
	data, err := g.Get(ctx, r.key(root)).Bytes()
	if err != nil {
		if redis.IsNil(err) {
			return nil, nil
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read from document store")
	}

	var subtree any
	if err := json.Unmarshal(data, &subtree); err != nil {
		return nil, errors.Wrapf(err, "corrupt document at %s", root)
	}
	return subtree, nil
}

// Set overwrites the value at path inside a WATCH transaction. A write that
// races another writer on the same top-level segment returns Aborted.
func (r *Redis) Set(ctx context.Context, path string, value any) error {
	segs, err := SplitPath(path)
	if err != nil {
		return err
	}
	normalized, err := normalize(value)
	if err != nil {
		return err
	}

	key := r.key(segs[0])
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		subtree, err := r.readRoot(ctx, tx, segs[0])
		if err != nil {
			return err
		}

		root := make(map[string]any, 1)
		if subtree != nil {
			root[segs[0]] = subtree
		}
		setAt(root, segs, normalized)
		next, keep := root[segs[0]]

		var data []byte
		if keep {
			if data, err = json.Marshal(next); err != nil {
				return errors.Wrap(err, "failed to encode document")
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			if keep {
				pipe.Set(ctx, key, data, 0)
			} else {
				pipe.Del(ctx, key)
			}
			pipe.Publish(ctx, r.channel, Join(segs...))
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		return nil
	case redis.IsTxFailed(err):
		return errors.Aborted("concurrent write to "+path).WithMeta("path", path)
	case isCoded(err):
		return err
	default:
		return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to write to document store").WithMeta("path", path)
	}
}

func isCoded(err error) bool {
	var e *errors.Error
	return errors.As(err, &e)
}

// Push stores value under a new child key of path
func (r *Redis) Push(ctx context.Context, path string, value any) (string, error) {
	if _, err := SplitPath(path); err != nil {
		return "", err
	}
	key, err := newPushKey()
	if err != nil {
		return "", err
	}
	if err := r.Set(ctx, Join(path, key), value); err != nil {
		return "", err
	}
	return key, nil
}

// Subscribe registers listener on path. The current value is delivered
// from the dispatch goroutine shortly after Subscribe returns.
func (r *Redis) Subscribe(ctx context.Context, path string, listener Listener) (*Subscription, error) {
	segs, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	if listener == nil {
		return nil, errors.InvalidArgument("listener is required")
	}

	if err := r.start(ctx); err != nil {
		return nil, err
	}

	sub := &redisListener{path: path, segs: segs, listener: listener, active: true}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, errors.Unavailable("document store is closed")
	}
	id := r.nextSub
	r.nextSub++
	r.subs[id] = sub
	done := r.done
	r.mu.Unlock()

	select {
	case r.refresh <- sub:
	case <-done:
		return nil, errors.Unavailable("document store is closed")
	case <-ctx.Done():
		r.remove(id)
		return nil, errors.WrapWithCode(ctx.Err(), errors.CodeCanceled, "subscribe canceled")
	}

	return newSubscription(func() { r.remove(id) }), nil
}

func (r *Redis) remove(id int) {
	r.mu.Lock()
	if sub, ok := r.subs[id]; ok {
		sub.active = false
		delete(r.subs, id)
	}
	r.mu.Unlock()
}

func (r *Redis) start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return errors.Unavailable("document store is closed")
	}
	if r.started {
		return nil
	}

	ps := r.client.Subscribe(ctx, r.channel)
	// wait for the subscription confirmation so no write is missed
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to subscribe to document changes")
	}

	runCtx, cancel := context.WithCancel(context.Background())
	r.pubsub = ps
	r.cancel = cancel
	r.done = make(chan struct{})
	r.started = true

	go r.dispatch(runCtx, ps.Channel(), r.done)
	return nil
}

func (r *Redis) dispatch(ctx context.Context, msgs <-chan *goredis.Message, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case sub := <-r.refresh:
			r.deliver(ctx, sub)
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			written, err := SplitPath(msg.Payload)
			if err != nil {
				slog.Warn("Ignoring malformed change notification", "payload", msg.Payload)
				continue
			}
			for _, sub := range r.affected(written) {
				r.deliver(ctx, sub)
			}
		}
	}
}

func (r *Redis) affected(written []string) []*redisListener {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*redisListener, 0, len(r.subs))
	for _, id := range sortedRedisSubIDs(r.subs) {
		if sub := r.subs[id]; related(written, sub.segs) {
			out = append(out, sub)
		}
	}
	return out
}

func (r *Redis) deliver(ctx context.Context, sub *redisListener) {
	snap, err := r.Get(ctx, sub.path)
	if err != nil {
		slog.Warn("Failed to refresh subscription", "path", sub.path, "error", err)
		return
	}

	r.mu.Lock()
	active := sub.active
	r.mu.Unlock()
	if active {
		sub.listener(snap)
	}
}

// Close stops the dispatch goroutine and ends every subscription. It does
// not close the Redis client, which the caller owns.
func (r *Redis) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	for id, sub := range r.subs {
		sub.active = false
		delete(r.subs, id)
	}
	started, ps, cancel, done := r.started, r.pubsub, r.cancel, r.done
	r.mu.Unlock()

	if !started {
		return nil
	}
	cancel()
	err := ps.Close()
	<-done
	if err != nil {
		return errors.Wrap(err, "failed to close change subscription")
	}
	return nil
}

func sortedRedisSubIDs(subs map[int]*redisListener) []int {
	ids := make([]int, 0, len(subs))
	for id := range subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
