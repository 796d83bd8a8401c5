package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"learnflow/internal/cache"
	"learnflow/internal/domain"
	"learnflow/internal/dto"
	"learnflow/internal/logger"

	"go.uber.org/zap"
)

// ExploreCacheService caches post-processed explore responses.
type ExploreCacheService interface {
	// GetExploreFromCache returns the cached response for key, or (nil, nil)
	// on a cache miss.
	GetExploreFromCache(ctx context.Context, key string) (*dto.ExploreResponse, error)

	// PutExploreToCache stores the response under key with the configured TTL.
	PutExploreToCache(ctx context.Context, key string, resp *dto.ExploreResponse) error
}

type exploreCacheServiceImpl struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewExploreCacheService creates a new ExploreCacheService backed by the
// given cache with the given TTL.
func NewExploreCacheService(c domain.Cache, ttl time.Duration) ExploreCacheService {
	return &exploreCacheServiceImpl{cache: c, ttl: ttl}
}

// exploreCacheKey builds the cache key for a query/age-group pair. The query
// is hashed because it is free text.
func exploreCacheKey(query, ageGroup string) string {
	if ageGroup == "" {
		ageGroup = "default"
	}
	return cache.GenerateCacheKey("content", "explore", hashString(query), ageGroup)
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func (s *exploreCacheServiceImpl) GetExploreFromCache(ctx context.Context, key string) (*dto.ExploreResponse, error) {
	val, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Debug("ExploreCacheService: cache miss", zap.String("cache_key", key))
			return nil, nil
		}
		return nil, err
	}

	var resp dto.ExploreResponse
	if err := json.Unmarshal([]byte(val), &resp); err != nil {
		// A corrupt entry behaves like a miss; it will be overwritten.
		logger.Get().Warn("ExploreCacheService: failed to decode cached entry",
			zap.Error(err), zap.String("cache_key", key))
		return nil, nil
	}
	return &resp, nil
}

func (s *exploreCacheServiceImpl) PutExploreToCache(ctx context.Context, key string, resp *dto.ExploreResponse) error {
	encoded, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, string(encoded), s.ttl)
}
