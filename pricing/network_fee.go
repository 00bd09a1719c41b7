package pricing

// Grid fee (nettleie) in NOK per kWh, flat day/night split.
// Night tariff applies from 22:00 up to 06:00.
const (
	NetworkFeeDay   = 0.5251
	NetworkFeeNight = 0.4251
)

// NetworkFee maps an hour of day (0-23) to the grid fee rate.
// Pure and total, no state.
func NetworkFee(hour int) float64 {
	if hour < 6 || hour >= 22 {
		return NetworkFeeNight
	}
	return NetworkFeeDay
}

// NetworkFees applies the fee rule point-wise over a sequence of hours.
func NetworkFees(hoursOfDay []int) []float64 {
	fees := make([]float64, len(hoursOfDay))
	for i, h := range hoursOfDay {
		fees[i] = NetworkFee(h)
	}
	return fees
}
