package tide

import (
	"sort"
	"time"

	"github.com/tidalpow/backend-go/internal/models"
)

// HoursPerDay is the length of the hourly series produced for a day.
const HoursPerDay = 24

// InterpolateHourly estimates the water height at each hour 0..23 of day
// (in day's location) by linear interpolation between the bracketing
// points. Hours outside the covered range take the nearest point's height.
// A single point yields a flat series.
func InterpolateHourly(points []models.TidePoint, day time.Time) ([]float64, error) {
	if len(points) == 0 {
		return nil, &InsufficientDataError{Have: 0, Need: 1}
	}

	sorted := make([]models.TidePoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	y, m, d := day.Date()
	location := day.Location()

	heights := make([]float64, HoursPerDay)
	for hour := 0; hour < HoursPerDay; hour++ {
		target := time.Date(y, m, d, hour, 0, 0, 0, location).UnixMilli()
		heights[hour] = interpolateAt(sorted, target)
	}
	return heights, nil
}

func interpolateAt(points []models.TidePoint, timestamp int64) float64 {
	// Find the two points that bracket the requested timestamp
	idx := sort.Search(len(points), func(i int) bool {
		return points[i].Timestamp >= timestamp
	})
	if idx <= 0 {
		return points[0].Height
	}
	if idx >= len(points) {
		return points[len(points)-1].Height
	}
	if points[idx].Timestamp == timestamp {
		return points[idx].Height
	}

	p1 := points[idx-1]
	p2 := points[idx]
	ratio := float64(timestamp-p1.Timestamp) / float64(p2.Timestamp-p1.Timestamp)
	return p1.Height + (p2.Height-p1.Height)*ratio
}
