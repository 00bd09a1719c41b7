package pricing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nhaugen/kraftpris-go/convert"
	"github.com/nhaugen/kraftpris-go/hours"
	"github.com/nhaugen/kraftpris-go/types"
)

// Composer joins hourly day-ahead prices (EUR/kWh, provider time) with
// daily exchange rates into consumer price components in NOK/kWh.
type Composer struct {
	logger *slog.Logger
	prices types.DayAheadProvider
	rates  types.ExchangeRateProvider
}

func NewComposer(logger *slog.Logger, prices types.DayAheadProvider, rates types.ExchangeRateProvider) *Composer {
	return &Composer{logger: logger, prices: prices, rates: rates}
}

// Compose returns one PriceComponents record per hour in [rng.From,
// rng.To), strictly increasing and gap-free. Each hour is joined to the
// exchange rate of its own calendar date; the dense rate series
// guarantees a match, so a missing one is an internal defect and fails
// the whole request rather than dropping the hour. A price series that
// covers only part of the range (day-ahead prices are published around
// 13:00, before that the last day of a multi-day range has no data yet)
// fails the same way, never a partial result.
func (c *Composer) Compose(ctx context.Context, rng hours.DayRange, vatRate float64) ([]types.PriceComponents, error) {
	prices, rates, err := c.fetchBoth(ctx, rng)
	if err != nil {
		return nil, err
	}

	rateByDate := make(map[string]float64, len(rates))
	for _, r := range rates {
		rateByDate[r.Date] = r.Rate
	}

	if len(prices) != rng.Hours() {
		return nil, fmt.Errorf("%w: day-ahead series covers %d of %d hours in %s",
			types.ErrUpstreamUnavailable, len(prices), rng.Hours(), rng.String())
	}

	components := make([]types.PriceComponents, 0, len(prices))
	for _, p := range prices {
		when := hours.FromTime(p.Hour) // zone stripped here, naive from now on
		rate, found := rateByDate[when.Date]
		if !found {
			return nil, fmt.Errorf("no exchange rate for %s, dense daily series is broken", when.Date)
		}

		net := convert.RoundFloat64(p.Price*rate, 4)
		components = append(components, types.PriceComponents{
			When:       when,
			NetPrice:   net,
			Vat:        convert.RoundFloat64(net*vatRate, 4),
			NetworkFee: NetworkFee(int(when.Hour)),
		})
	}

	c.logger.Debug("composed price components",
		slog.String("range", rng.String()),
		slog.Int("hours", len(components)))

	return components, nil
}

// ComposeTotal collapses the components into a single gross price per
// hour. VAT and the grid fee are independently toggleable; VAT applies to
// the energy price only, never to the fee. Only NOK is implemented,
// including EUR as a known-unimplemented case.
func (c *Composer) ComposeTotal(ctx context.Context, rng hours.DayRange, currency string, includeVat bool, vatRate float64, includeFee bool) ([]types.GrossPrice, error) {
	if currency != "NOK" {
		return nil, fmt.Errorf("%w: %q", types.ErrUnsupportedCurrency, currency)
	}

	components, err := c.Compose(ctx, rng, vatRate)
	if err != nil {
		return nil, err
	}

	totals := make([]types.GrossPrice, len(components))
	for i, pc := range components {
		price := pc.NetPrice
		if includeVat {
			price += pc.Vat
		}
		if includeFee {
			price += pc.NetworkFee
		}
		totals[i] = types.GrossPrice{When: pc.When, Price: convert.RoundFloat64(price, 4)}
	}

	return totals, nil
}

// fetchBoth issues the two independent upstream fetches concurrently.
// The join only happens after both complete, so no ordering is needed.
func (c *Composer) fetchBoth(ctx context.Context, rng hours.DayRange) ([]types.HourlyPrice, []types.DailyRate, error) {
	type priceResult struct {
		prices []types.HourlyPrice
		err    error
	}

	priceCh := make(chan priceResult, 1)
	go func() {
		prices, err := c.prices.DayAheadPrices(ctx, rng)
		priceCh <- priceResult{prices, err}
	}()

	rates, ratesErr := c.rates.ExchangeRates(ctx, rng)
	pr := <-priceCh

	if pr.err != nil {
		return nil, nil, fmt.Errorf("fetching day-ahead prices: %w", pr.err)
	}
	if ratesErr != nil {
		return nil, nil, fmt.Errorf("fetching exchange rates: %w", ratesErr)
	}

	return pr.prices, rates, nil
}
