package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/tidalpow/backend-go/internal/energy"
	"github.com/tidalpow/backend-go/internal/metrics"
	"github.com/tidalpow/backend-go/internal/models"
	"github.com/tidalpow/backend-go/internal/tide"
)

const (
	DefaultConcurrency  = 8
	DefaultFetchTimeout = 20 * time.Second
)

// Builder runs the aggregation over a set of stations and a day window.
type Builder struct {
	fetcher      models.StationDayFetcher
	location     *time.Location
	concurrency  int
	fetchTimeout time.Duration
	metrics      *metrics.Metrics
	now          func() time.Time
	newRunID     func() string
}

type Option func(*Builder)

func WithConcurrency(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

func WithFetchTimeout(d time.Duration) Option {
	return func(b *Builder) {
		if d > 0 {
			b.fetchTimeout = d
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Builder) {
		b.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

func WithRunIDGenerator(gen func() string) Option {
	return func(b *Builder) {
		b.newRunID = gen
	}
}

func NewBuilder(fetcher models.StationDayFetcher, location *time.Location, opts ...Option) *Builder {
	if location == nil {
		location = time.UTC
	}
	b := &Builder{
		fetcher:      fetcher,
		location:     location,
		concurrency:  DefaultConcurrency,
		fetchTimeout: DefaultFetchTimeout,
		now:          time.Now,
		newRunID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// dayResult is the outcome of one station-day; a nil record means the day
// had no usable data.
type dayResult struct {
	date   string
	record *models.StationEnergyRecord
}

// Build fetches every station-day of the window, computes energy and power,
// and ranks the stations by today's power. Station-day failures are logged
// and skipped; only a cancelled ctx or an invalid window fails the build.
func (b *Builder) Build(ctx context.Context, stations []models.Station, window Window, reference time.Time) (*models.Report, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}

	started := b.now()
	runID := b.newRunID()
	logger := log.With().Str("run_id", runID).Logger()

	y, m, d := reference.In(b.location).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, b.location)
	offsets := window.Offsets()

	logger.Info().
		Int("stations", len(stations)).
		Int("days", len(offsets)).
		Str("reference_date", today.Format(models.DateLayout)).
		Msg("Building station report")

	slots := make([][]dayResult, len(stations))
	for i := range slots {
		slots[i] = make([]dayResult, len(offsets))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for si, st := range stations {
		for oi, offset := range offsets {
			si, st, oi, offset := si, st, oi, offset
			date := time.Date(y, m, d+offset, 0, 0, 0, 0, b.location)
			slots[si][oi].date = date.Format(models.DateLayout)

			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				record, err := b.buildStationDay(gctx, logger, st, date, offset)
				if err != nil {
					return err
				}
				slots[si][oi].record = record
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("building report: %w", err)
	}

	records := make([]models.StationRecord, 0, len(stations))
	for si, st := range stations {
		rec, ok := assembleStation(st, slots[si], today.Format(models.DateLayout))
		if !ok {
			b.metrics.StationDropped()
			logger.Info().
				Str("station_id", st.ID).
				Str("region", st.Region).
				Msg("No usable tide data for station, leaving it out")
			continue
		}
		records = append(records, rec)
	}

	Rank(records)

	elapsed := b.now().Sub(started)
	b.metrics.ReportBuilt(elapsed, len(records))
	logger.Info().
		Int("ranked", len(records)).
		Int("dropped", len(stations)-len(records)).
		Dur("elapsed", elapsed).
		Msg("Station report built")

	return &models.Report{
		RunID:         runID,
		GeneratedAt:   b.now().UTC(),
		ReferenceDate: today.Format(models.DateLayout),
		Timezone:      b.location.String(),
		Stations:      records,
	}, nil
}

// buildStationDay returns (nil, nil) for a skipped day. An error is only
// returned when the parent context is done.
func (b *Builder) buildStationDay(ctx context.Context, logger zerolog.Logger, st models.Station, date time.Time, offset int) (*models.StationEnergyRecord, error) {
	dateStr := date.Format(models.DateLayout)
	dayLog := logger.With().
		Str("station_id", st.ID).
		Str("region", st.Region).
		Str("date", dateStr).
		Int("offset", offset).
		Logger()

	fetchCtx, cancel := context.WithTimeout(ctx, b.fetchTimeout)
	day, err := b.fetcher.FetchStationDay(fetchCtx, st.ID, date)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		b.metrics.FetchFailed()
		dayLog.Warn().Err(err).Msg("Skipping station-day, fetch failed")
		return nil, nil
	}

	record, err := b.computeDay(day, date, offset == 0, dayLog)
	if err != nil {
		b.metrics.FetchFailed()
		dayLog.Warn().Err(err).Msg("Skipping station-day, malformed tide data")
		return nil, nil
	}

	b.metrics.FetchSucceeded()
	return record, nil
}

func (b *Builder) computeDay(day *models.StationDay, date time.Time, isToday bool, logger zerolog.Logger) (*models.StationEnergyRecord, error) {
	events := tide.FilterToDay(day.Events, date, b.location)

	daily := tide.ClassifyDay(date.Format(models.DateLayout), events)
	dailyEnergy, err := energy.DailyEnergy(daily)
	if err != nil {
		return nil, err
	}
	if len(energy.Cycles(daily)) == 0 {
		b.metrics.IncompleteCycle()
		logger.Warn().Int("extremes", len(events)).Msg("No complete high/low cycle, energy is zero")
	}

	record := toEnergyRecord(daily, dailyEnergy)

	if isToday {
		points := tide.FilterToDay(day.Series, date, b.location)
		if len(points) == 0 {
			points = make([]models.TidePoint, 0, len(events))
			for _, e := range events {
				points = append(points, e.Point())
			}
		}
		hourly, err := tide.InterpolateHourly(points, date)
		if err != nil {
			logger.Warn().Err(err).Msg("Unable to interpolate hourly heights")
		} else {
			record.HourlyHeights = hourly
		}
	}

	return record, nil
}

func toEnergyRecord(daily models.DailyTideRecord, dailyEnergy float64) *models.StationEnergyRecord {
	record := &models.StationEnergyRecord{
		Date:                    daily.Date,
		DailyEnergyJoulesPerSqm: energy.Round(dailyEnergy, 2),
		PowerWattsPerSqm:        energy.Round(energy.Power(dailyEnergy), 3),
	}
	record.FirstHighTime, record.FirstHighHeight = eventFields(daily.FirstHigh)
	record.FirstLowTime, record.FirstLowHeight = eventFields(daily.FirstLow)
	record.SecondHighTime, record.SecondHighHeight = eventFields(daily.SecondHigh)
	record.SecondLowTime, record.SecondLowHeight = eventFields(daily.SecondLow)
	return record
}

func eventFields(e *models.TideEvent) (*string, *float64) {
	if e == nil {
		return nil, nil
	}
	localTime, height := e.LocalTime, e.Height
	return &localTime, &height
}

// assembleStation collects the usable days of a station in date order. It
// reports false when no day was usable.
func assembleStation(st models.Station, days []dayResult, today string) (models.StationRecord, bool) {
	rec := models.StationRecord{
		Station:   st.Name,
		StationID: st.ID,
		Region:    st.Region,
	}
	for _, d := range days {
		if d.record == nil {
			rec.MissingDates = append(rec.MissingDates, d.date)
			continue
		}
		rec.DailyData = append(rec.DailyData, *d.record)
		if d.date == today {
			rec.TodaysPowerWattsPerSqm = d.record.PowerWattsPerSqm
		}
	}
	if len(rec.DailyData) == 0 {
		return models.StationRecord{}, false
	}
	return rec, true
}
