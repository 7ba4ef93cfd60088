package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTideTypeValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		tideType  TideType
		wantValid bool
	}{
		{
			name:      "valid high",
			tideType:  TideTypeHigh,
			wantValid: true,
		},
		{
			name:      "valid low",
			tideType:  TideTypeLow,
			wantValid: true,
		},
		{
			name:      "invalid type",
			tideType:  TideType("RISING"),
			wantValid: false,
		},
		{
			name:      "empty type",
			tideType:  TideType(""),
			wantValid: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)
			event := TideEvent{
				Type:      tt.tideType,
				Timestamp: ts.UnixMilli(),
				LocalTime: ts.Format(LocalTimeLayout),
				Height:    2.0,
			}

			err := event.Validate()
			if tt.wantValid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "invalid tide type")
			}
		})
	}
}

func TestTidePointValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		timestamp int64
		localTime string
		height    float64
		wantErr   bool
	}{
		{
			name:      "valid point",
			timestamp: 1704067200000, // 2024-01-01 00:00:00 UTC
			localTime: "2024-01-01T00:00:00",
			height:    1.2,
		},
		{
			name:      "invalid time format",
			timestamp: 1704067200000,
			localTime: "2024-01-01",
			wantErr:   true,
		},
		{
			name:      "mismatched timestamp and local time",
			timestamp: 1704067200000,
			localTime: "2025-01-01T00:00:00",
			wantErr:   true,
		},
		{
			name:      "negative timestamp",
			timestamp: -1,
			localTime: "2024-01-01T00:00:00",
			wantErr:   true,
		},
		{
			name:      "NaN height",
			timestamp: 1704067200000,
			height:    math.NaN(),
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			point := TidePoint{
				Timestamp: tt.timestamp,
				LocalTime: tt.localTime,
				Height:    tt.height,
			}

			err := point.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestStationDayValidation(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)
	validEvent := TideEvent{Type: TideTypeHigh, Timestamp: ts.UnixMilli(), Height: 2.1}

	tests := []struct {
		name    string
		record  StationDay
		wantErr string
	}{
		{
			name:   "valid record",
			record: StationDay{StationID: "Okha", Date: "2024-01-01", Events: []TideEvent{validEvent}},
		},
		{
			name:    "missing station",
			record:  StationDay{Date: "2024-01-01"},
			wantErr: "station ID is required",
		},
		{
			name:    "bad date",
			record:  StationDay{StationID: "Okha", Date: "01/01/2024"},
			wantErr: "invalid date format",
		},
		{
			name: "bad event",
			record: StationDay{StationID: "Okha", Date: "2024-01-01", Events: []TideEvent{
				{Type: "X", Timestamp: ts.UnixMilli()},
			}},
			wantErr: "invalid event at index 0",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.record.Validate()
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDailyTideRecordHasData(t *testing.T) {
	t.Parallel()

	assert.False(t, (&DailyTideRecord{Date: "2024-01-01"}).HasData())
	assert.True(t, (&DailyTideRecord{Date: "2024-01-01", SecondLow: &TideEvent{Type: TideTypeLow}}).HasData())
}

func TestReportFindStation(t *testing.T) {
	t.Parallel()

	report := Report{Stations: []StationRecord{
		{Station: "Okha", StationID: "Okha", PowerRank: 1},
		{Station: "Kochi", StationID: "Kochi", PowerRank: 2},
	}}

	found := report.FindStation("Kochi")
	if assert.NotNil(t, found) {
		assert.Equal(t, 2, found.PowerRank)
	}
	assert.Nil(t, report.FindStation("Atlantis"))
}

func TestStationRecordToday(t *testing.T) {
	t.Parallel()

	record := StationRecord{DailyData: []StationEnergyRecord{
		{Date: "2024-01-01", PowerWattsPerSqm: 0.1},
		{Date: "2024-01-02", PowerWattsPerSqm: 0.2},
	}}

	today := record.Today("2024-01-02")
	if assert.NotNil(t, today) {
		assert.Equal(t, 0.2, today.PowerWattsPerSqm)
	}
	assert.Nil(t, record.Today("2024-01-03"))
}
