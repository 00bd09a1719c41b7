package norgesbank

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/nhaugen/kraftpris-go/hours"
	"github.com/nhaugen/kraftpris-go/types"
)

const (
	defaultBaseUrl = "https://data.norges-bank.no"
	// B = business day frequency, SP = spot rate
	ratePath = "/api/data/EXR/B.EUR.NOK.SP"
)

type NorgesBank struct {
	baseUrl string
	client  *http.Client
}

func New(baseUrl string) NorgesBank {
	if baseUrl == "" {
		baseUrl = defaultBaseUrl
	}
	return NorgesBank{
		baseUrl: baseUrl,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// ExchangeRates returns one EUR to NOK rate per calendar day in the range,
// To included. The bank only publishes business-day observations, so the
// series is densified: missing days carry the most recent prior
// observation forward, and leading gaps are back-filled from the first
// observation. If the range query fails the latest single observation is
// fetched instead and stretched across the whole range. Deliberately not
// cached, so longer ranges always see fresh rates.
func (nb NorgesBank) ExchangeRates(ctx context.Context, rng hours.DayRange) ([]types.DailyRate, error) {
	observed, primaryErr := nb.queryRange(ctx, rng)
	if primaryErr == nil {
		return densify(rng, observed), nil
	}

	rate, fallbackErr := nb.queryLatest(ctx)
	if fallbackErr != nil {
		return nil, fmt.Errorf("%w: exchange rate range query failed (%v) and latest-observation fallback failed (%v)",
			types.ErrUpstreamUnavailable, primaryErr, fallbackErr)
	}

	days := rng.Days()
	rates := make([]types.DailyRate, len(days))
	for i, day := range days {
		rates[i] = types.DailyRate{Date: day, Rate: rate}
	}
	return rates, nil
}

func (nb NorgesBank) queryRange(ctx context.Context, rng hours.DayRange) (map[string]float64, error) {
	days := rng.Days()
	url := fmt.Sprintf("%s%s?format=sdmx-json&startPeriod=%s&endPeriod=%s&locale=no",
		nb.baseUrl, ratePath, days[0], days[len(days)-1])

	doc, err := nb.query(ctx, url)
	if err != nil {
		return nil, err
	}

	observed := make(map[string]float64)
	periods := timePeriods(doc)
	for _, series := range doc.Data.DataSets[0].Series {
		for idx, values := range series.Observations {
			i, err := strconv.Atoi(idx)
			if err != nil || i >= len(periods) || len(values) == 0 {
				continue
			}
			rate, err := strconv.ParseFloat(values[0], 64)
			if err != nil {
				continue
			}
			observed[periods[i]] = rate
		}
	}

	if len(observed) == 0 {
		return nil, fmt.Errorf("range response contained no observations")
	}

	return observed, nil
}

func (nb NorgesBank) queryLatest(ctx context.Context) (float64, error) {
	url := fmt.Sprintf("%s%s?format=sdmx-json&lastNObservations=1&locale=no", nb.baseUrl, ratePath)

	doc, err := nb.query(ctx, url)
	if err != nil {
		return 0, err
	}

	for _, series := range doc.Data.DataSets[0].Series {
		for _, values := range series.Observations {
			if len(values) == 0 {
				continue
			}
			rate, err := strconv.ParseFloat(values[0], 64)
			if err != nil {
				return 0, fmt.Errorf("failed to parse latest observation: %w", err)
			}
			return rate, nil
		}
	}

	return 0, fmt.Errorf("latest-observation response contained no observations")
}

func (nb NorgesBank) query(ctx context.Context, url string) (*sdmxData, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := nb.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exchange rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var doc sdmxData
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(doc.Data.DataSets) == 0 {
		return nil, fmt.Errorf("response contained no data sets")
	}

	return &doc, nil
}

func timePeriods(doc *sdmxData) []string {
	for _, dim := range doc.Data.Structure.Dimensions.Observation {
		if dim.Id != "TIME_PERIOD" {
			continue
		}
		periods := make([]string, len(dim.Values))
		for i, v := range dim.Values {
			periods[i] = v.Id
		}
		return periods
	}
	return nil
}

// densify turns sparse business-day observations into one rate per
// calendar day: forward-fill from the most recent prior observation,
// back-fill any leading days from the first observation.
func densify(rng hours.DayRange, observed map[string]float64) []types.DailyRate {
	observedDays := make([]string, 0, len(observed))
	for day := range observed {
		observedDays = append(observedDays, day)
	}
	sort.Strings(observedDays)
	first := observed[observedDays[0]]

	days := rng.Days()
	rates := make([]types.DailyRate, len(days))
	last := first
	for i, day := range days {
		if rate, ok := observed[day]; ok {
			last = rate
		}
		rates[i] = types.DailyRate{Date: day, Rate: last}
	}

	return rates
}
