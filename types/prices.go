package types

import (
	"context"
	"time"

	"github.com/nhaugen/kraftpris-go/hours"
)

// HourlyPrice is a day-ahead price for one delivery hour in EUR per kWh.
// Hour is still zone-aware at this stage (provider time), it gets
// normalized to naive wall-clock time when prices are composed.
type HourlyPrice struct {
	Hour  time.Time
	Price float64
}

// DailyRate is the EUR to NOK exchange rate for one calendar day
// (date format 2006-01-02). The series handed to the composer is dense,
// one entry per day with no gaps.
type DailyRate struct {
	Date string
	Rate float64
}

// PriceComponents is one fully resolved hour: net energy price, VAT on
// the energy price, and the grid fee (nettleie), all in NOK per kWh.
type PriceComponents struct {
	When       hours.DateHour
	NetPrice   float64
	Vat        float64
	NetworkFee float64
}

// GrossPrice is one hour's total consumer price in NOK per kWh.
type GrossPrice struct {
	When  hours.DateHour
	Price float64
}

type DayAheadProvider interface {
	DayAheadPrices(ctx context.Context, rng hours.DayRange) ([]HourlyPrice, error)
}

type ExchangeRateProvider interface {
	ExchangeRates(ctx context.Context, rng hours.DayRange) ([]DailyRate, error)
}
