package city

import (
	"context"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/FACorreiaa/go-city-counter/app/observability/metrics"
)

var _ CityRepository = (*CachedCityRepository)(nil)

const cityListKey = "city_names"

// CachedCityRepository keeps the last non-empty upstream list for a TTL.
// Concurrent misses share a single upstream call.
type CachedCityRepository struct {
	logger *slog.Logger
	next   CityRepository
	cache  *cache.Cache
	group  singleflight.Group
}

func NewCachedCityRepository(next CityRepository, ttl time.Duration, logger *slog.Logger) *CachedCityRepository {
	return &CachedCityRepository{
		logger: logger.With(slog.String("component", "CachedCityRepository")),
		next:   next,
		cache:  cache.New(ttl, 2*ttl),
	}
}

func (c *CachedCityRepository) FetchCityNames(ctx context.Context) []string {
	ctx, span := otel.Tracer("CityRepository").Start(ctx, "CachedFetchCityNames")
	defer span.End()

	if cached, found := c.cache.Get(cityListKey); found {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		metrics.Get().UpstreamCacheHitsTotal.Add(ctx, 1)
		return clone(cached.([]string))
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	// The shared fetch outlives any single caller's cancellation.
	fetchCtx := context.WithoutCancel(ctx)
	v, _, _ := c.group.Do(cityListKey, func() (interface{}, error) {
		names := c.next.FetchCityNames(fetchCtx)
		// Empty lists are not cached so an outage is not pinned for the TTL.
		if len(names) > 0 {
			c.cache.Set(cityListKey, names, cache.DefaultExpiration)
			c.logger.DebugContext(fetchCtx, "Cached upstream cities", slog.Int("count", len(names)))
		}
		return names, nil
	})
	return clone(v.([]string))
}

func clone(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}
