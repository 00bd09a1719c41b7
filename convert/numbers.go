package convert

import (
	"math"
)

func RoundFloat64(number float64, decimals int) float64 {
	return math.Round(number*math.Pow10(decimals)) / math.Pow10(decimals)
}

func MWhToKWh(pricePerMWh float64) float64 {
	return pricePerMWh / 1e3
}
