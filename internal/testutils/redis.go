// Package testutils provides shared test helpers: Redis-backed stores on
// miniredis and game fixtures.
package testutils

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/geocards/geocards-api/internal/docstore"
	"github.com/geocards/geocards-api/internal/redis"
)

// CreateTestRedisClient creates an in-memory Redis client for testing
func CreateTestRedisClient(t *testing.T) (redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client, err := redis.NewClient(mr.Addr(), nil)
	require.NoError(t, err, "failed to create redis client")
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

// CreateTestRedisStore creates a Redis document store on miniredis. The
// store is closed when the test ends.
func CreateTestRedisStore(t *testing.T) *docstore.Redis {
	client, _ := CreateTestRedisClient(t)

	store, err := docstore.NewRedis(&docstore.RedisConfig{Client: client})
	require.NoError(t, err, "failed to create redis store")
	t.Cleanup(func() { _ = store.Close() })

	return store
}
