package www

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nhaugen/kraftpris-go/config"
	"github.com/nhaugen/kraftpris-go/hours"
	"github.com/nhaugen/kraftpris-go/pricing"
	"github.com/nhaugen/kraftpris-go/types"
)

type stubPrices struct {
	price float64
	err   error
}

func (s stubPrices) DayAheadPrices(ctx context.Context, rng hours.DayRange) ([]types.HourlyPrice, error) {
	if s.err != nil {
		return nil, s.err
	}
	prices := make([]types.HourlyPrice, rng.Hours())
	for i := range prices {
		prices[i] = types.HourlyPrice{
			Hour:  rng.From.Add(time.Duration(i) * time.Hour),
			Price: s.price,
		}
	}
	return prices, nil
}

type stubRates struct {
	rate float64
	err  error
}

func (s stubRates) ExchangeRates(ctx context.Context, rng hours.DayRange) ([]types.DailyRate, error) {
	if s.err != nil {
		return nil, s.err
	}
	days := rng.Days()
	rates := make([]types.DailyRate, len(days))
	for i, day := range days {
		rates[i] = types.DailyRate{Date: day, Rate: s.rate}
	}
	return rates, nil
}

func testComposer(prices types.DayAheadProvider, rates types.ExchangeRateProvider) *pricing.Composer {
	return pricing.NewComposer(slog.New(slog.NewTextHandler(io.Discard, nil)), prices, rates)
}

func testPricingConfig() config.AppConfigPricing {
	return config.AppConfigPricing{}
}

func TestPeriodSplitHandler(t *testing.T) {
	handler := NewDayAheadPeriodSplitHandler(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		testComposer(stubPrices{price: 0.05}, stubRates{rate: 9.80}),
		testPricingConfig())

	req := httptest.NewRequest("GET", "/day_ahead_period_split?start_day=20220806&end_day=20220809", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}

	var rows []splitRow
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(rows) != 72 {
		t.Fatalf("expected 72 rows, got %d", len(rows))
	}
	if rows[0].Date != "2022-08-06T00:00:00" {
		t.Errorf("expected first row at 2022-08-06T00:00:00, got %q", rows[0].Date)
	}
	if rows[3].NetPrice != 0.49 || rows[3].Vat != 0.1225 || rows[3].Nettleie != 0.4251 {
		t.Errorf("unexpected components at hour 3: %+v", rows[3])
	}
}

func TestPeriodSplitHandlerMalformedDate(t *testing.T) {
	handler := NewDayAheadPeriodSplitHandler(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		testComposer(stubPrices{price: 0.05}, stubRates{rate: 9.80}),
		testPricingConfig())

	for _, query := range []string{
		"start_day=not-a-date&end_day=20220809",
		"start_day=20220806&end_day=never",
		"start_day=20220809&end_day=20220806",
		"",
	} {
		req := httptest.NewRequest("GET", "/day_ahead_period_split?"+query, nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("query %q: expected 400, got %d", query, rec.Code)
		}
		var body errorBody
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Error == "" {
			t.Errorf("query %q: expected a JSON error body, got %s", query, rec.Body.String())
		}
	}
}

func TestTodayHandlerGross(t *testing.T) {
	handler := NewDayAheadTodayHandler(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		testComposer(stubPrices{price: 0.05}, stubRates{rate: 9.80}),
		testPricingConfig())

	req := httptest.NewRequest("GET", "/day_ahead_today", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var rows []totalRow
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(rows) != hours.RangeFromToday(2).Hours() {
		t.Fatalf("expected one row per hour of the two-day range, got %d", len(rows))
	}
}

func TestTodayHandlerToggles(t *testing.T) {
	handler := NewDayAheadTodayHandler(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		testComposer(stubPrices{price: 0.05}, stubRates{rate: 9.80}),
		testPricingConfig())

	fetch := func(query string) []totalRow {
		req := httptest.NewRequest("GET", "/day_ahead_today?"+query, nil)
		rec := httptest.NewRecorder()
		handler(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("query %q: expected 200, got %d", query, rec.Code)
		}
		var rows []totalRow
		if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return rows
	}

	both := fetch("vat=true&nettleie=true")
	noVat := fetch("vat=false&nettleie=true")
	noFee := fetch("vat=true&nettleie=false")

	if !(both[0].Price > noVat[0].Price) {
		t.Errorf("dropping VAT should lower the gross price")
	}
	if !(both[0].Price > noFee[0].Price) {
		t.Errorf("dropping nettleie should lower the gross price")
	}
}

func TestTodayHandlerUnsupportedCurrency(t *testing.T) {
	handler := NewDayAheadTodayHandler(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		testComposer(stubPrices{price: 0.05}, stubRates{rate: 9.80}),
		testPricingConfig())

	for _, currency := range []string{"EUR", "USD"} {
		req := httptest.NewRequest("GET", "/day_ahead_today?val="+currency, nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("currency %q: expected 400, got %d", currency, rec.Code)
		}
	}
}

func TestSplitHandlerUpstreamFailure(t *testing.T) {
	handler := NewDayAheadTodaySplitHandler(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		testComposer(stubPrices{err: types.ErrUpstreamUnavailable}, stubRates{rate: 9.80}),
		testPricingConfig())

	req := httptest.NewRequest("GET", "/day_ahead_today_split", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502 for dead upstream, got %d", rec.Code)
	}
}

func TestApiKeyMiddleware(t *testing.T) {
	cnfg := &config.AppConfig{}
	cnfg.Api.ApiKey = "secret"

	server := StartServer(
		testComposer(stubPrices{price: 0.05}, stubRates{rate: 9.80}),
		nil,
		cnfg)

	tests := []struct {
		name     string
		header   string
		query    string
		expected int
	}{
		{"no key", "", "", http.StatusForbidden},
		{"wrong key", "nope", "", http.StatusForbidden},
		{"key in header", "secret", "", http.StatusOK},
		{"key in query", "", "secret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := "/day_ahead_today_split"
			if tt.query != "" {
				url += "?access_token=" + tt.query
			}
			req := httptest.NewRequest("GET", url, nil)
			if tt.header != "" {
				req.Header.Set("access_token", tt.header)
			}
			rec := httptest.NewRecorder()
			server.Handler().ServeHTTP(rec, req)

			if rec.Code != tt.expected {
				t.Errorf("expected %d, got %d: %s", tt.expected, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	handler := NewDayAheadTodaySplitHandler(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		testComposer(stubPrices{price: 0.05}, stubRates{rate: 9.80}),
		testPricingConfig())

	req := httptest.NewRequest("POST", "/day_ahead_today_split", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}
