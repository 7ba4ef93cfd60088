package tide

import (
	"time"

	"github.com/tidalpow/backend-go/internal/models"
)

// DayBounds returns [start, end) of the calendar day containing day, in
// location. End is the next local midnight, so DST days are 23 or 25 hours.
func DayBounds(day time.Time, location *time.Location) (time.Time, time.Time) {
	y, m, d := day.In(location).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, location)
	end := time.Date(y, m, d+1, 0, 0, 0, 0, location)
	return start, end
}

// FilterToDay keeps the items whose timestamp falls within the calendar day
// of day in location. Order is preserved.
func FilterToDay[T models.Timestamped](items []T, day time.Time, location *time.Location) []T {
	start, end := DayBounds(day, location)
	startMs, endMs := start.UnixMilli(), end.UnixMilli()

	var filtered []T
	for _, item := range items {
		ts := item.GetTimestamp()
		if ts >= startMs && ts < endMs {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// ClassifyDay splits a day's extremes into the first and second high and low.
// Extra extremes beyond the second of each kind are ignored.
func ClassifyDay(date string, events []models.TideEvent) models.DailyTideRecord {
	record := models.DailyTideRecord{Date: date}

	var highs, lows []models.TideEvent
	for _, e := range events {
		switch e.Type {
		case models.TideTypeHigh:
			highs = append(highs, e)
		case models.TideTypeLow:
			lows = append(lows, e)
		}
	}

	record.FirstHigh = eventAt(highs, 0)
	record.SecondHigh = eventAt(highs, 1)
	record.FirstLow = eventAt(lows, 0)
	record.SecondLow = eventAt(lows, 1)
	return record
}

func eventAt(events []models.TideEvent, i int) *models.TideEvent {
	if i >= len(events) {
		return nil
	}
	e := events[i]
	return &e
}
