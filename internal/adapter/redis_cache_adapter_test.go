package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"learnflow/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisCacheAdapter_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cacheAdapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	t.Run("returns the stored value", func(t *testing.T) {
		mock.ExpectGet("key1").SetVal("value1")

		val, err := cacheAdapter.Get(ctx, "key1")

		assert.NoError(t, err)
		assert.Equal(t, "value1", val)
	})

	t.Run("translates redis.Nil to ErrCacheMiss", func(t *testing.T) {
		mock.ExpectGet("missing").RedisNil()

		_, err := cacheAdapter.Get(ctx, "missing")

		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("propagates other errors", func(t *testing.T) {
		mock.ExpectGet("broken").SetErr(errors.New("connection refused"))

		_, err := cacheAdapter.Get(ctx, "broken")

		assert.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrCacheMiss)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_SetDelete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cacheAdapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	mock.ExpectSet("key1", "value1", time.Hour).SetVal("OK")
	assert.NoError(t, cacheAdapter.Set(ctx, "key1", "value1", time.Hour))

	mock.ExpectDel("key1").SetVal(1)
	assert.NoError(t, cacheAdapter.Delete(ctx, "key1"))

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, cacheAdapter.Ping(ctx))

	assert.NoError(t, mock.ExpectationsWereMet())
}
