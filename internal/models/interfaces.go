package models

import (
	"context"
	"time"
)

// StationDayFetcher retrieves the raw tide data for one station-day.
type StationDayFetcher interface {
	FetchStationDay(ctx context.Context, stationID string, date time.Time) (*StationDay, error)
}
