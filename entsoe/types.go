package entsoe

// Subset of the ENTSO-E transparency platform's Publication_MarketDocument
// (documentType A44, day-ahead prices). Prices come as EUR/MWh.
type publicationMarketDocument struct {
	TimeSeries []timeSeries `xml:"TimeSeries"`
}

type timeSeries struct {
	CurrencyUnit     string   `xml:"currency_Unit.name"`
	PriceMeasureUnit string   `xml:"price_Measure_Unit.name"`
	Periods          []period `xml:"Period"`
}

type period struct {
	TimeInterval timeInterval `xml:"timeInterval"`
	Resolution   string       `xml:"resolution"`
	Points       []point      `xml:"Point"`
}

type timeInterval struct {
	Start string `xml:"start"`
	End   string `xml:"end"`
}

type point struct {
	Position int     `xml:"position"`
	Price    float64 `xml:"price.amount"`
}

// Returned instead of a publication document when the query is rejected
// or no data exists for the interval.
type acknowledgementMarketDocument struct {
	Reason struct {
		Code string `xml:"code"`
		Text string `xml:"text"`
	} `xml:"Reason"`
}
