package entsoe

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/nhaugen/kraftpris-go/convert"
	"github.com/nhaugen/kraftpris-go/hours"
	"github.com/nhaugen/kraftpris-go/types"
)

const (
	defaultBaseUrl = "https://web-api.tp.entsoe.eu"
	periodLayout   = "200601021504"
	intervalLayout = "2006-01-02T15:04Z"
)

type Entsoe struct {
	baseUrl string
	token   string
	area    string
	client  *http.Client
}

// New creates a day-ahead price client for one bidding zone,
// e.g. "10YNO-2--------T" for NO2.
func New(baseUrl, token, area string) Entsoe {
	if baseUrl == "" {
		baseUrl = defaultBaseUrl
	}
	return Entsoe{
		baseUrl: baseUrl,
		token:   token,
		area:    area,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// DayAheadPrices fetches hourly day-ahead prices for [rng.From, rng.To)
// in EUR per kWh. Timestamps are zone-aware provider time.
func (e Entsoe) DayAheadPrices(ctx context.Context, rng hours.DayRange) ([]types.HourlyPrice, error) {
	q := url.Values{}
	q.Set("securityToken", e.token)
	q.Set("documentType", "A44")
	q.Set("in_Domain", e.area)
	q.Set("out_Domain", e.area)
	q.Set("periodStart", rng.From.UTC().Format(periodLayout))
	q.Set("periodEnd", rng.To.UTC().Format(periodLayout))

	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/api?%s", e.baseUrl, q.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching day-ahead prices: %v", types.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: day-ahead query returned status %d", types.ErrUpstreamUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading day-ahead response: %v", types.ErrUpstreamUnavailable, err)
	}

	var doc publicationMarketDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode day-ahead response: %w", err)
	}

	if len(doc.TimeSeries) == 0 {
		var ack acknowledgementMarketDocument
		if err := xml.Unmarshal(body, &ack); err == nil && ack.Reason.Text != "" {
			return nil, fmt.Errorf("%w: day-ahead query rejected: %s", types.ErrUpstreamUnavailable, ack.Reason.Text)
		}
		return nil, fmt.Errorf("%w: day-ahead response contained no time series", types.ErrUpstreamUnavailable)
	}

	prices := collectPrices(doc)

	// Clip to the requested range, the upstream interval is UTC-aligned
	// and can overhang the local-midnight boundaries.
	clipped := prices[:0]
	for _, p := range prices {
		if !p.Hour.Before(rng.From) && p.Hour.Before(rng.To) {
			clipped = append(clipped, p)
		}
	}

	// Hours are unique and sorted, so a full count means full coverage.
	// Anything less is an incomplete publication, not a usable result.
	if len(clipped) != rng.Hours() {
		return nil, fmt.Errorf("%w: day-ahead response covers %d of %d hours in %s",
			types.ErrUpstreamUnavailable, len(clipped), rng.Hours(), rng.String())
	}

	return clipped, nil
}

// collectPrices flattens all periods into one ascending hourly series.
// Curve type A03 omits a point when its price repeats the previous one,
// so gaps in position numbering are filled by carrying the price forward.
func collectPrices(doc publicationMarketDocument) []types.HourlyPrice {
	byHour := make(map[int64]types.HourlyPrice)

	for _, ts := range doc.TimeSeries {
		for _, period := range ts.Periods {
			if period.Resolution != "PT60M" {
				continue
			}
			start, err := time.Parse(intervalLayout, period.TimeInterval.Start)
			if err != nil {
				continue
			}
			end, err := time.Parse(intervalLayout, period.TimeInterval.End)
			if err != nil {
				continue
			}

			points := slices.Clone(period.Points)
			slices.SortFunc(points, func(a, b point) int { return a.Position - b.Position })

			hoursInPeriod := int(end.Sub(start) / time.Hour)
			next := 0
			var price float64
			for pos := 1; pos <= hoursInPeriod; pos++ {
				if next < len(points) && points[next].Position == pos {
					price = points[next].Price
					next++
				}
				hour := hours.LocationOslo(start.Add(time.Duration(pos-1) * time.Hour))
				if _, seen := byHour[hour.Unix()]; seen {
					continue
				}
				byHour[hour.Unix()] = types.HourlyPrice{
					Hour:  hour,
					Price: convert.RoundFloat64(convert.MWhToKWh(price), 4),
				}
			}
		}
	}

	prices := make([]types.HourlyPrice, 0, len(byHour))
	for _, p := range byHour {
		prices = append(prices, p)
	}
	slices.SortFunc(prices, func(a, b types.HourlyPrice) int { return a.Hour.Compare(b.Hour) })

	return prices
}
