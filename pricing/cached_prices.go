package pricing

import (
	"context"
	"log/slog"

	"github.com/nhaugen/kraftpris-go/cache"
	"github.com/nhaugen/kraftpris-go/hours"
	"github.com/nhaugen/kraftpris-go/types"
)

// CachedPrices memoizes a day-ahead provider per date range, bounding the
// number of upstream calls. A live cache entry short-circuits the network
// call entirely; a miss fetches, stores and returns. Misses racing on the
// same range may fetch twice, which is harmless since the upstream value
// is deterministic within the freshness window.
type CachedPrices struct {
	logger   *slog.Logger
	provider types.DayAheadProvider
	cache    *cache.Cache[[]types.HourlyPrice]
}

func NewCachedPrices(logger *slog.Logger, provider types.DayAheadProvider, c *cache.Cache[[]types.HourlyPrice]) CachedPrices {
	return CachedPrices{logger: logger, provider: provider, cache: c}
}

func (cp CachedPrices) DayAheadPrices(ctx context.Context, rng hours.DayRange) ([]types.HourlyPrice, error) {
	key := rng.Key()
	if prices, found := cp.cache.Get(key); found {
		cp.logger.Debug("day-ahead prices served from cache", slog.String("range", rng.String()))
		return prices, nil
	}

	prices, err := cp.provider.DayAheadPrices(ctx, rng)
	if err != nil {
		return nil, err
	}

	cp.cache.Set(key, prices)
	cp.logger.Debug("day-ahead prices cached", slog.String("range", rng.String()), slog.Int("hours", len(prices)))

	return prices, nil
}
