package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/giftledger/internal/domain"
	"github.com/iho/giftledger/internal/usecase"
)

// DefaultLocationTTL bounds how long a resolved location stays cached.
const DefaultLocationTTL = 10 * time.Minute

type cachedLocation struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// LocationCache decorates a usecase.LocationRepository with a read-through
// cache for lookups. Bulk imports resolve the same handful of locations for
// every row, so lookups by name or id are served from the cache.
type LocationCache struct {
	usecase.LocationRepository

	cache  usecase.Cache
	ttl    time.Duration
	logger zerolog.Logger
}

// NewLocationCache wraps repo. A non-positive ttl uses DefaultLocationTTL.
func NewLocationCache(repo usecase.LocationRepository, cache usecase.Cache, ttl time.Duration, logger zerolog.Logger) *LocationCache {
	if ttl <= 0 {
		ttl = DefaultLocationTTL
	}
	return &LocationCache{
		LocationRepository: repo,
		cache:              cache,
		ttl:                ttl,
		logger:             logger,
	}
}

// GetByID serves the location from cache when present.
func (c *LocationCache) GetByID(ctx context.Context, id string) (*domain.Location, error) {
	return c.lookup(ctx, "location:id:"+id, func() (*domain.Location, error) {
		return c.LocationRepository.GetByID(ctx, id)
	})
}

// FindByNameOrID serves the location from cache when present.
func (c *LocationCache) FindByNameOrID(ctx context.Context, ref string) (*domain.Location, error) {
	return c.lookup(ctx, "location:ref:"+ref, func() (*domain.Location, error) {
		return c.LocationRepository.FindByNameOrID(ctx, ref)
	})
}

func (c *LocationCache) lookup(ctx context.Context, key string, load func() (*domain.Location, error)) (*domain.Location, error) {
	raw, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		var cl cachedLocation
		if jsonErr := json.Unmarshal(raw, &cl); jsonErr == nil {
			return &domain.Location{ID: cl.ID, Name: cl.Name, CreatedAt: cl.CreatedAt}, nil
		}
		c.logger.Warn().Str("key", key).Msg("discarding corrupt cached location")
	case !errors.Is(err, usecase.ErrCacheMiss):
		c.logger.Warn().Err(err).Str("key", key).Msg("location cache unavailable")
	}

	// Misses are not cached, so a location created later resolves at once.
	loc, err := load()
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(cachedLocation{ID: loc.ID, Name: loc.Name, CreatedAt: loc.CreatedAt})
	if err == nil {
		if setErr := c.cache.Set(ctx, key, payload, c.ttl); setErr != nil {
			c.logger.Warn().Err(setErr).Str("key", key).Msg("caching location")
		}
	}

	return loc, nil
}
