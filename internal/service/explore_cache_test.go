package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"learnflow/internal/domain"
	"learnflow/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockDomainCache struct {
	mock.Mock
}

func (m *MockDomainCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockDomainCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockDomainCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockDomainCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var _ domain.Cache = (*MockDomainCache)(nil)

func TestExploreCacheService(t *testing.T) {
	ctx := context.Background()
	key := exploreCacheKey("photosynthesis", "17")

	t.Run("round trips a response", func(t *testing.T) {
		resp := &dto.ExploreResponse{
			Content:          "A\n\nB\n\nC",
			RelatedTopics:    []json.RawMessage{json.RawMessage(`"t1"`)},
			RelatedQuestions: []json.RawMessage{},
		}
		encoded, _ := json.Marshal(resp)

		mockCache := new(MockDomainCache)
		mockCache.On("Set", ctx, key, string(encoded), time.Hour).Return(nil)
		mockCache.On("Get", ctx, key).Return(string(encoded), nil)

		svc := NewExploreCacheService(mockCache, time.Hour)
		assert.NoError(t, svc.PutExploreToCache(ctx, key, resp))

		got, err := svc.GetExploreFromCache(ctx, key)
		assert.NoError(t, err)
		assert.Equal(t, resp, got)
		mockCache.AssertExpectations(t)
	})

	t.Run("miss returns nil without error", func(t *testing.T) {
		mockCache := new(MockDomainCache)
		mockCache.On("Get", ctx, key).Return("", domain.ErrCacheMiss)

		svc := NewExploreCacheService(mockCache, time.Hour)
		got, err := svc.GetExploreFromCache(ctx, key)

		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("corrupt entry behaves like a miss", func(t *testing.T) {
		mockCache := new(MockDomainCache)
		mockCache.On("Get", ctx, key).Return("{not json", nil)

		svc := NewExploreCacheService(mockCache, time.Hour)
		got, err := svc.GetExploreFromCache(ctx, key)

		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("backend errors are surfaced", func(t *testing.T) {
		backendErr := errors.New("connection refused")
		mockCache := new(MockDomainCache)
		mockCache.On("Get", ctx, key).Return("", backendErr)

		svc := NewExploreCacheService(mockCache, time.Hour)
		_, err := svc.GetExploreFromCache(ctx, key)

		assert.ErrorIs(t, err, backendErr)
	})
}

func TestExploreCacheKey(t *testing.T) {
	assert.Equal(t, exploreCacheKey("q", "17"), exploreCacheKey("q", "17"))
	assert.NotEqual(t, exploreCacheKey("q", "17"), exploreCacheKey("q", "18"))
	assert.NotEqual(t, exploreCacheKey("q", "17"), exploreCacheKey("other", "17"))
	// Empty age group still yields a well-formed key.
	assert.Contains(t, exploreCacheKey("q", ""), "default")
}
