package models

import "time"

// Station identifies an upstream tide station and the region it is listed under.
type Station struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Region string `json:"region" yaml:"region"`
}

// StationEnergyRecord is one station-day row of the published dataset.
// Absent extremes are null rather than a sentinel string.
type StationEnergyRecord struct {
	Date                    string    `json:"date"`
	FirstHighTime           *string   `json:"firstHighTime"`
	FirstHighHeight         *float64  `json:"firstHighHeight"`
	FirstLowTime            *string   `json:"firstLowTime"`
	FirstLowHeight          *float64  `json:"firstLowHeight"`
	SecondHighTime          *string   `json:"secondHighTime"`
	SecondHighHeight        *float64  `json:"secondHighHeight"`
	SecondLowTime           *string   `json:"secondLowTime"`
	SecondLowHeight         *float64  `json:"secondLowHeight"`
	DailyEnergyJoulesPerSqm float64   `json:"dailyEnergyJoulesPerSqm"`
	PowerWattsPerSqm        float64   `json:"powerWattsPerSqm"`
	HourlyHeights           []float64 `json:"hourlyHeights,omitempty"`
}

// StationRecord is the ranked per-station entry of a report.
type StationRecord struct {
	Station                string                `json:"station"`
	StationID              string                `json:"stationId"`
	Region                 string                `json:"region"`
	PowerRank              int                   `json:"powerRank"`
	TodaysPowerWattsPerSqm float64               `json:"todaysPowerWattsPerSqm"`
	DailyData              []StationEnergyRecord `json:"dailyData"`
	MissingDates           []string              `json:"missingDates,omitempty"`
}

// Today returns the entry for the given date, if the station has one.
func (s *StationRecord) Today(date string) *StationEnergyRecord {
	for i := range s.DailyData {
		if s.DailyData[i].Date == date {
			return &s.DailyData[i]
		}
	}
	return nil
}

// Report is the complete dataset produced by one generation run. It fully
// replaces the previous run's output.
type Report struct {
	RunID         string          `json:"runId"`
	GeneratedAt   time.Time       `json:"generatedAt"`
	ReferenceDate string          `json:"referenceDate"`
	Timezone      string          `json:"timezone"`
	Stations      []StationRecord `json:"stations"`
}

// FindStation looks a station up by display name or upstream ID.
func (r *Report) FindStation(name string) *StationRecord {
	for i := range r.Stations {
		if r.Stations[i].Station == name || r.Stations[i].StationID == name {
			return &r.Stations[i]
		}
	}
	return nil
}
