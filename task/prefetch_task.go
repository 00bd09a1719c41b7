package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/nhaugen/kraftpris-go/config"
	"github.com/nhaugen/kraftpris-go/hours"
	"github.com/nhaugen/kraftpris-go/pricing"
	"github.com/nhaugen/kraftpris-go/types"
)

// Subscriber receives the freshly composed day-ahead series after each
// prefetch run (websocket hub, MQTT feed).
type Subscriber func(components []types.PriceComponents)

// NewPrefetchTask warms the day-ahead cache for today through the day
// after tomorrow and pushes the composed series to subscribers. The
// upstreams only have prices that far ahead, so this keeps the common
// request path cache-hot.
func NewPrefetchTask(logger *slog.Logger, composer *pricing.Composer, subscribers []Subscriber, cnfg config.AppConfigPricing) func() {
	return func() {
		logger.Debug("running prefetch task...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		rng := hours.RangeFromToday(2)
		components, err := composer.Compose(ctx, rng, cnfg.GetVatRate())
		if err != nil {
			logger.Error("prefetch task error, composing prices", slog.Any("error", err))
			return
		}

		for _, subscriber := range subscribers {
			subscriber(components)
		}

		logger.Info("prefetch task done",
			slog.String("range", rng.String()),
			slog.Int("noOfHours", len(components)))
	}
}
