package models

import (
	"fmt"
	"time"
)

// StationDay is the raw upstream answer for one station and one calendar
// day. It is what the fetcher returns and what the caches store.
type StationDay struct {
	StationID   string      `json:"stationId" dynamodbav:"stationId"`
	Date        string      `json:"date" dynamodbav:"date"`
	Events      []TideEvent `json:"events" dynamodbav:"events"`
	Series      []TidePoint `json:"series" dynamodbav:"series"`
	LastUpdated int64       `json:"lastUpdated" dynamodbav:"lastUpdated"`
	TTL         int64       `json:"ttl" dynamodbav:"ttl"`
}

// Validate checks if a StationDay's fields are valid
func (r *StationDay) Validate() error {
	if r.StationID == "" {
		return fmt.Errorf("station ID is required")
	}

	if r.Date == "" {
		return fmt.Errorf("date is required")
	}

	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return fmt.Errorf("invalid date format: %s", r.Date)
	}

	for i, event := range r.Events {
		if err := event.Validate(); err != nil {
			return fmt.Errorf("invalid event at index %d: %w", i, err)
		}
	}

	for i, point := range r.Series {
		if err := point.Validate(); err != nil {
			return fmt.Errorf("invalid series point at index %d: %w", i, err)
		}
	}

	return nil
}
