package www

import (
	"log/slog"
	"net/http"

	"github.com/nhaugen/kraftpris-go/config"
	"github.com/nhaugen/kraftpris-go/hours"
	"github.com/nhaugen/kraftpris-go/pricing"
	"github.com/nhaugen/kraftpris-go/slice"
	"github.com/nhaugen/kraftpris-go/types"
)

// Day-ahead prices are published through the day after tomorrow,
// exclusive end.
const dayAheadDays = 2

type totalRow struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

type splitRow struct {
	Date     string  `json:"date"`
	NetPrice float64 `json:"net_price"`
	Vat      float64 `json:"vat"`
	Nettleie float64 `json:"nettleie"`
}

func splitRows(components []types.PriceComponents) []splitRow {
	return slice.Map(components, func(pc types.PriceComponents) splitRow {
		return splitRow{
			Date:     pc.When.IsoString(),
			NetPrice: pc.NetPrice,
			Vat:      pc.Vat,
			Nettleie: pc.NetworkFee,
		}
	})
}

// NewDayAheadTodayHandler serves gross prices for today through the day
// after tomorrow. VAT and nettleie inclusion are independently
// toggleable query params, both default to true.
func NewDayAheadTodayHandler(logger *slog.Logger, composer *pricing.Composer, cnfg config.AppConfigPricing) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		includeVat := boolOrDefault(r.URL, "vat", true)
		includeFee := boolOrDefault(r.URL, "nettleie", true)
		currency := stringOrDefault(r.URL, "val", "NOK")

		totals, err := composer.ComposeTotal(r.Context(), hours.RangeFromToday(dayAheadDays),
			currency, includeVat, cnfg.GetVatRate(), includeFee)
		if err != nil {
			writeError(w, logger, err)
			return
		}

		writeJson(w, http.StatusOK, slice.Map(totals, func(gp types.GrossPrice) totalRow {
			return totalRow{Date: gp.When.IsoString(), Price: gp.Price}
		}))
	}
}

// NewDayAheadTodaySplitHandler serves the same range with net price,
// VAT and nettleie broken out per hour.
func NewDayAheadTodaySplitHandler(logger *slog.Logger, composer *pricing.Composer, cnfg config.AppConfigPricing) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		components, err := composer.Compose(r.Context(), hours.RangeFromToday(dayAheadDays), cnfg.GetVatRate())
		if err != nil {
			writeError(w, logger, err)
			return
		}

		writeJson(w, http.StatusOK, splitRows(components))
	}
}

// NewDayAheadPeriodSplitHandler serves the split for a caller-specified
// range: start_day and end_day as YYYYMMDD, end_day exclusive.
func NewDayAheadPeriodSplitHandler(logger *slog.Logger, composer *pricing.Composer, cnfg config.AppConfigPricing) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		rng, err := hours.ParseDayRange(r.URL.Query().Get("start_day"), r.URL.Query().Get("end_day"))
		if err != nil {
			writeError(w, logger, err)
			return
		}

		components, err := composer.Compose(r.Context(), rng, cnfg.GetVatRate())
		if err != nil {
			writeError(w, logger, err)
			return
		}

		writeJson(w, http.StatusOK, splitRows(components))
	}
}
