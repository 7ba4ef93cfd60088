package dashboard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tidalpow/backend-go/internal/cache"
	"github.com/tidalpow/backend-go/internal/energy"
	"github.com/tidalpow/backend-go/internal/models"
	"github.com/tidalpow/backend-go/internal/storage"
)

type Options struct {
	Location        *time.Location
	ForecastEntries int
	PageSize        int
	PricePerKWh     float64
}

// Service answers dashboard, ranking and revenue queries from the latest
// stored report.
type Service struct {
	store       storage.Store
	reportCache *cache.ReportCache
	opts        Options
}

// NewService creates the service. reportCache may be nil, in which case
// every call loads from the store.
func NewService(store storage.Store, reportCache *cache.ReportCache, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.ForecastEntries <= 0 {
		opts.ForecastEntries = 5
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	if opts.PricePerKWh <= 0 {
		opts.PricePerKWh = energy.DefaultPricePerKWh
	}
	return &Service{
		store:       store,
		reportCache: reportCache,
		opts:        opts,
	}
}

// Report returns the latest report, through the snapshot cache.
func (s *Service) Report(ctx context.Context) (*models.Report, error) {
	if s.reportCache != nil {
		if report := s.reportCache.Get(); report != nil {
			return report, nil
		}
	}

	report, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("no report published yet: %w", ErrDataUnavailable)
		}
		return nil, fmt.Errorf("loading report: %w", err)
	}

	if s.reportCache != nil {
		s.reportCache.Set(report)
	}
	log.Debug().Str("run_id", report.RunID).Int("stations", len(report.Stations)).Msg("Loaded report")
	return report, nil
}

type RankingEntry struct {
	PowerRank              int     `json:"powerRank"`
	Station                string  `json:"station"`
	StationID              string  `json:"stationId"`
	Region                 string  `json:"region"`
	TodaysPowerWattsPerSqm float64 `json:"todaysPowerWattsPerSqm"`
}

type RankingPage struct {
	Page          int            `json:"page"`
	PageSize      int            `json:"pageSize"`
	TotalPages    int            `json:"totalPages"`
	TotalStations int            `json:"totalStations"`
	ReferenceDate string         `json:"referenceDate"`
	GeneratedAt   time.Time      `json:"generatedAt"`
	Stations      []RankingEntry `json:"stations"`
}

// Ranking returns one page of stations in rank order. Pages start at 1.
func (s *Service) Ranking(ctx context.Context, page int) (*RankingPage, error) {
	if page < 1 {
		return nil, newInvalidInput("page must be at least 1, got %d", page)
	}

	report, err := s.Report(ctx)
	if err != nil {
		return nil, err
	}

	total := len(report.Stations)
	totalPages := (total + s.opts.PageSize - 1) / s.opts.PageSize
	if totalPages > 0 && page > totalPages {
		return nil, newInvalidInput("page %d is beyond the last page %d", page, totalPages)
	}

	result := &RankingPage{
		Page:          page,
		PageSize:      s.opts.PageSize,
		TotalPages:    totalPages,
		TotalStations: total,
		ReferenceDate: report.ReferenceDate,
		GeneratedAt:   report.GeneratedAt,
		Stations:      []RankingEntry{},
	}

	start := (page - 1) * s.opts.PageSize
	end := start + s.opts.PageSize
	if end > total {
		end = total
	}
	for _, st := range report.Stations[start:end] {
		result.Stations = append(result.Stations, RankingEntry{
			PowerRank:              st.PowerRank,
			Station:                st.Station,
			StationID:              st.StationID,
			Region:                 st.Region,
			TodaysPowerWattsPerSqm: st.TodaysPowerWattsPerSqm,
		})
	}
	return result, nil
}

type ForecastEntry struct {
	Date                string  `json:"date"`
	PowerWattsPerSqm    float64 `json:"powerWattsPerSqm"`
	DailyEnergyKJPerSqm float64 `json:"dailyEnergyKJPerSqm"`
}

type Dashboard struct {
	Station                string          `json:"station"`
	StationID              string          `json:"stationId"`
	Region                 string          `json:"region"`
	PowerRank              int             `json:"powerRank"`
	Date                   string          `json:"date"`
	Hour                   int             `json:"hour"`
	CurrentHeight          float64         `json:"currentHeight"`
	NextHourHeight         float64         `json:"nextHourHeight"`
	TodaysPowerWattsPerSqm float64         `json:"todaysPowerWattsPerSqm"`
	TodaysEnergyKJPerSqm   float64         `json:"todaysEnergyKJPerSqm"`
	HourlyHeights          []float64       `json:"hourlyHeights"`
	Forecast               []ForecastEntry `json:"forecast"`
}

// Dashboard renders one station at instant now. The current and next hour
// are read in the configured timezone; the next hour wraps to 0 after 23.
func (s *Service) Dashboard(ctx context.Context, station string, now time.Time) (*Dashboard, error) {
	_, st, err := s.findStation(ctx, station)
	if err != nil {
		return nil, err
	}

	local := now.In(s.opts.Location)
	date := local.Format(models.DateLayout)

	today := st.Today(date)
	if today == nil || len(today.HourlyHeights) != 24 {
		return nil, fmt.Errorf("%s on %s: %w", st.Station, date, ErrDataUnavailable)
	}

	hour := local.Hour()
	d := &Dashboard{
		Station:                st.Station,
		StationID:              st.StationID,
		Region:                 st.Region,
		PowerRank:              st.PowerRank,
		Date:                   date,
		Hour:                   hour,
		CurrentHeight:          today.HourlyHeights[hour],
		NextHourHeight:         today.HourlyHeights[(hour+1)%24],
		TodaysPowerWattsPerSqm: today.PowerWattsPerSqm,
		TodaysEnergyKJPerSqm:   toKJ(today.DailyEnergyJoulesPerSqm),
		HourlyHeights:          today.HourlyHeights,
		Forecast:               []ForecastEntry{},
	}

	for _, day := range st.DailyData {
		if day.Date < date {
			continue
		}
		if len(d.Forecast) == s.opts.ForecastEntries {
			break
		}
		d.Forecast = append(d.Forecast, ForecastEntry{
			Date:                day.Date,
			PowerWattsPerSqm:    day.PowerWattsPerSqm,
			DailyEnergyKJPerSqm: toKJ(day.DailyEnergyJoulesPerSqm),
		})
	}
	return d, nil
}

type RevenueEstimate struct {
	Station          string  `json:"station"`
	Date             string  `json:"date"`
	PowerWattsPerSqm float64 `json:"powerWattsPerSqm"`
	AreaSqm          float64 `json:"areaSqm"`
	PricePerKWh      float64 `json:"pricePerKWh"`
	DailyRevenue     float64 `json:"dailyRevenue"`
}

// Revenue estimates the daily yield of a plant of areaSqm at the station,
// using today's power from the latest report. A zero price uses the
// configured tariff.
func (s *Service) Revenue(ctx context.Context, station string, areaSqm, pricePerKWh float64) (*RevenueEstimate, error) {
	if areaSqm < 0 || math.IsNaN(areaSqm) {
		return nil, newInvalidInput("area must not be negative")
	}
	if pricePerKWh < 0 {
		return nil, newInvalidInput("price must not be negative")
	}
	if pricePerKWh == 0 {
		pricePerKWh = s.opts.PricePerKWh
	}

	report, st, err := s.findStation(ctx, station)
	if err != nil {
		return nil, err
	}

	revenue := energy.EstimateDailyRevenue(st.TodaysPowerWattsPerSqm, areaSqm, pricePerKWh)
	return &RevenueEstimate{
		Station:          st.Station,
		Date:             report.ReferenceDate,
		PowerWattsPerSqm: st.TodaysPowerWattsPerSqm,
		AreaSqm:          areaSqm,
		PricePerKWh:      pricePerKWh,
		DailyRevenue:     energy.Round(revenue, 2),
	}, nil
}

func (s *Service) findStation(ctx context.Context, station string) (*models.Report, *models.StationRecord, error) {
	report, err := s.Report(ctx)
	if err != nil {
		return nil, nil, err
	}
	st := report.FindStation(station)
	if st == nil {
		return nil, nil, fmt.Errorf("%s: %w", station, ErrStationNotFound)
	}
	return report, st, nil
}

func toKJ(joules float64) float64 {
	return energy.Round(joules/1000, 2)
}
