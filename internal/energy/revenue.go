package energy

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultPricePerKWh is the tariff used when none is configured.
const DefaultPricePerKWh = 8.5

// EstimateDailyRevenue converts a power density and collector area into a
// daily yield: power·area/1000 kW over 24 hours at pricePerKWh. The price is
// used as given, so a zero tariff yields zero; callers resolve an unset
// price to DefaultPricePerKWh or the configured tariff.
func EstimateDailyRevenue(powerWattsPerSqm, areaSqm, pricePerKWh float64) float64 {
	if areaSqm <= 0 || math.IsNaN(areaSqm) || math.IsInf(areaSqm, 0) {
		return 0
	}
	powerKW := powerWattsPerSqm * areaSqm / 1000
	return powerKW * 24 * pricePerKWh
}

// ParseArea reads a user-entered area. Empty or non-numeric input is 0.
func ParseArea(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Round rounds v half away from zero to the given number of decimal places,
// on the decimal value v prints as rather than its binary approximation.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
