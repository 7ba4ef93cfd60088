package energy

import (
	"fmt"
	"math"

	"github.com/tidalpow/backend-go/internal/models"
)

const (
	SeawaterDensity = 1025.0 // kg/m³
	Gravity         = 9.81   // m/s²
	CollectorArea   = 1.0    // m²
	SecondsPerDay   = 86400.0
)

// Cycle is one complete high/low pair.
type Cycle struct {
	High models.TideEvent
	Low  models.TideEvent
}

// Range is the absolute tidal range of the cycle in metres.
func (c Cycle) Range() float64 {
	return math.Abs(c.High.Height - c.Low.Height)
}

// InvalidHeightError is returned when a tide height is NaN or infinite.
type InvalidHeightError struct {
	Slot   string
	Height float64
}

func (e *InvalidHeightError) Error() string {
	return fmt.Sprintf("invalid %s height: %v", e.Slot, e.Height)
}

// Cycles returns the complete pairs of a day: firstHigh with firstLow and
// secondHigh with secondLow.
func Cycles(day models.DailyTideRecord) []Cycle {
	var cycles []Cycle
	if day.FirstHigh != nil && day.FirstLow != nil {
		cycles = append(cycles, Cycle{High: *day.FirstHigh, Low: *day.FirstLow})
	}
	if day.SecondHigh != nil && day.SecondLow != nil {
		cycles = append(cycles, Cycle{High: *day.SecondHigh, Low: *day.SecondLow})
	}
	return cycles
}

// EnergyPerCycle is the potential energy in J/m² of one cycle with the
// given range: 0.5·ρ·g·A·range².
func EnergyPerCycle(rangeMeters float64) float64 {
	return 0.5 * SeawaterDensity * Gravity * CollectorArea * rangeMeters * rangeMeters
}

// DailyEnergy sums EnergyPerCycle over the complete cycles of day. A day
// without a complete cycle yields 0.
func DailyEnergy(day models.DailyTideRecord) (float64, error) {
	if err := checkHeights(day); err != nil {
		return 0, err
	}

	var total float64
	for _, c := range Cycles(day) {
		total += EnergyPerCycle(c.Range())
	}
	return total, nil
}

// Power is the mean power density in W/m² for a day's energy.
func Power(dailyEnergy float64) float64 {
	if dailyEnergy <= 0 {
		return 0
	}
	return dailyEnergy / SecondsPerDay
}

func checkHeights(day models.DailyTideRecord) error {
	slots := []struct {
		name  string
		event *models.TideEvent
	}{
		{"firstHigh", day.FirstHigh},
		{"firstLow", day.FirstLow},
		{"secondHigh", day.SecondHigh},
		{"secondLow", day.SecondLow},
	}
	for _, s := range slots {
		if s.event == nil {
			continue
		}
		if math.IsNaN(s.event.Height) || math.IsInf(s.event.Height, 0) {
			return &InvalidHeightError{Slot: s.name, Height: s.event.Height}
		}
	}
	return nil
}
