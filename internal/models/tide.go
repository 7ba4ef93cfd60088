package models

import (
	"fmt"
	"math"
	"time"
)

// LocalTimeLayout is the wall-clock layout used for every LocalTime field.
const LocalTimeLayout = "2006-01-02T15:04:05"

// DateLayout is the calendar-day layout used for dates in records and keys.
const DateLayout = "2006-01-02"

type TideType string

const (
	TideTypeHigh TideType = "HIGH"
	TideTypeLow  TideType = "LOW"
)

// Validate reports whether the type is one of the known extremum kinds.
func (t TideType) Validate() error {
	switch t {
	case TideTypeHigh, TideTypeLow:
		return nil
	default:
		return fmt.Errorf("invalid tide type: %s", t)
	}
}

// TideEvent is a classified high or low water prediction.
type TideEvent struct {
	Type      TideType `json:"type" dynamodbav:"type"`
	Timestamp int64    `json:"timestamp" dynamodbav:"timestamp"`
	LocalTime string   `json:"localTime" dynamodbav:"localTime"`
	Height    float64  `json:"height" dynamodbav:"height"`
}

func (e TideEvent) GetTimestamp() int64 {
	return e.Timestamp
}

// Point drops the classification, so extremes can feed the interpolator.
func (e TideEvent) Point() TidePoint {
	return TidePoint{Timestamp: e.Timestamp, LocalTime: e.LocalTime, Height: e.Height}
}

// TidePoint is a single reading of the regular (raw) tide series.
type TidePoint struct {
	Timestamp int64   `json:"timestamp" dynamodbav:"timestamp"`
	LocalTime string  `json:"localTime" dynamodbav:"localTime"`
	Height    float64 `json:"height" dynamodbav:"height"`
}

func (p TidePoint) GetTimestamp() int64 {
	return p.Timestamp
}

// Timestamped is satisfied by anything carrying a Unix millisecond timestamp.
type Timestamped interface {
	GetTimestamp() int64
}

// Validate checks if a TidePoint's fields are valid
func (p *TidePoint) Validate() error {
	return validateReading(p.Timestamp, p.LocalTime, p.Height)
}

// Validate checks if a TideEvent's fields are valid
func (e *TideEvent) Validate() error {
	if err := e.Type.Validate(); err != nil {
		return err
	}
	return validateReading(e.Timestamp, e.LocalTime, e.Height)
}

func validateReading(timestamp int64, localTime string, height float64) error {
	if timestamp <= 0 {
		return fmt.Errorf("invalid timestamp: %d", timestamp)
	}

	if math.IsNaN(height) || math.IsInf(height, 0) {
		return fmt.Errorf("invalid height: %v", height)
	}

	if localTime != "" {
		t, err := time.Parse(LocalTimeLayout, localTime)
		if err != nil {
			return fmt.Errorf("invalid local time format: %s", localTime)
		}

		timeDiff := t.UnixMilli() - timestamp
		if timeDiff < 0 {
			timeDiff = -timeDiff
		}

		// must be within 24 hours of localtime
		if timeDiff > 1000*60*60*24 {
			return fmt.Errorf("local time does not match timestamp")
		}
	}

	return nil
}

// DailyTideRecord holds the extremes of one calendar day, split into the
// first and second semi-diurnal cycle. Missing slots are nil.
type DailyTideRecord struct {
	Date          string     `json:"date"`
	FirstHigh     *TideEvent `json:"firstHigh"`
	FirstLow      *TideEvent `json:"firstLow"`
	SecondHigh    *TideEvent `json:"secondHigh"`
	SecondLow     *TideEvent `json:"secondLow"`
	HourlyHeights []float64  `json:"hourlyHeights,omitempty"`
}

// HasData reports whether at least one extremum was observed for the day.
func (d *DailyTideRecord) HasData() bool {
	return d.FirstHigh != nil || d.FirstLow != nil || d.SecondHigh != nil || d.SecondLow != nil
}
