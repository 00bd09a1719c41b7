package pricing

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/nhaugen/kraftpris-go/cache"
	"github.com/nhaugen/kraftpris-go/hours"
	"github.com/nhaugen/kraftpris-go/types"
)

func TestCachedPricesSingleUpstreamCallWithinTtl(t *testing.T) {
	now := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
	c := cache.New[[]types.HourlyPrice](600*time.Second, 1024, func() time.Time { return now })

	provider := &stubPrices{price: 0.05}
	cached := NewCachedPrices(slog.New(slog.NewTextHandler(io.Discard, nil)), provider, c)

	rng, _ := hours.ParseDayRange("20220806", "20220809")

	first, err := cached.DayAheadPrices(context.Background(), rng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := cached.DayAheadPrices(context.Background(), rng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider.calls != 1 {
		t.Errorf("expected exactly one upstream call, got %d", provider.calls)
	}
	if len(first) != len(second) {
		t.Errorf("cached result differs from fetched result")
	}
}

func TestCachedPricesRefetchesAfterTtl(t *testing.T) {
	now := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
	c := cache.New[[]types.HourlyPrice](600*time.Second, 1024, func() time.Time { return now })

	provider := &stubPrices{price: 0.05}
	cached := NewCachedPrices(slog.New(slog.NewTextHandler(io.Discard, nil)), provider, c)

	rng, _ := hours.ParseDayRange("20220806", "20220809")

	if _, err := cached.DayAheadPrices(context.Background(), rng); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now = now.Add(601 * time.Second)

	if _, err := cached.DayAheadPrices(context.Background(), rng); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.calls != 2 {
		t.Errorf("expected a fresh upstream call after TTL expiry, got %d calls", provider.calls)
	}
}

func TestCachedPricesDistinctRangesMissSeparately(t *testing.T) {
	now := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
	c := cache.New[[]types.HourlyPrice](600*time.Second, 1024, func() time.Time { return now })

	provider := &stubPrices{price: 0.05}
	cached := NewCachedPrices(slog.New(slog.NewTextHandler(io.Discard, nil)), provider, c)

	a, _ := hours.ParseDayRange("20220806", "20220809")
	b, _ := hours.ParseDayRange("20220806", "20220808")

	if _, err := cached.DayAheadPrices(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cached.DayAheadPrices(context.Background(), b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider.calls != 2 {
		t.Errorf("expected one upstream call per distinct range, got %d", provider.calls)
	}
}

func TestCachedPricesDoesNotCacheFailures(t *testing.T) {
	now := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
	c := cache.New[[]types.HourlyPrice](600*time.Second, 1024, func() time.Time { return now })

	provider := &stubPrices{err: types.ErrUpstreamUnavailable}
	cached := NewCachedPrices(slog.New(slog.NewTextHandler(io.Discard, nil)), provider, c)

	rng, _ := hours.ParseDayRange("20220806", "20220809")

	if _, err := cached.DayAheadPrices(context.Background(), rng); err == nil {
		t.Fatalf("expected error from failing provider")
	}
	if _, err := cached.DayAheadPrices(context.Background(), rng); err == nil {
		t.Fatalf("expected error from failing provider")
	}
	if provider.calls != 2 {
		t.Errorf("failures must not be cached, expected 2 upstream calls, got %d", provider.calls)
	}
}
