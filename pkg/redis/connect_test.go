package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkstar12/newstoss/pkg/redis"
)

func TestConnect(t *testing.T) {
	t.Parallel()

	t.Run("connects and passes healthcheck", func(t *testing.T) {
		t.Parallel()
		srv := miniredis.RunT(t)

		client, err := redis.Connect(context.Background(), redis.Config{
			ConnectionURL: "redis://" + srv.Addr() + "/0",
			RetryAttempts: 1,
		})
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })

		assert.NoError(t, redis.Healthcheck(client)(context.Background()))
	})

	t.Run("empty url", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Connect(context.Background(), redis.Config{})
		assert.ErrorIs(t, err, redis.ErrEmptyConnectionURL)
	})

	t.Run("invalid url", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Connect(context.Background(), redis.Config{ConnectionURL: "http://nope"})
		assert.ErrorIs(t, err, redis.ErrFailedToParseRedisConnString)
	})

	t.Run("server gone", func(t *testing.T) {
		t.Parallel()
		srv := miniredis.RunT(t)
		addr := srv.Addr()
		srv.Close()

		_, err := redis.Connect(context.Background(), redis.Config{
			ConnectionURL: "redis://" + addr + "/0",
			RetryAttempts: 2,
			RetryInterval: 10 * time.Millisecond,
		})
		assert.ErrorIs(t, err, redis.ErrRedisNotReady)
	})
}
