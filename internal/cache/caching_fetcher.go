package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tidalpow/backend-go/internal/models"
)

// CachingFetcher serves station-days from the cache and falls back to the
// wrapped fetcher on a miss. Cache errors are logged and never fail a fetch.
type CachingFetcher struct {
	next     models.StationDayFetcher
	cache    *CacheService
	location *time.Location

	deferWrites bool
	mu          sync.Mutex
	pending     []models.StationDay
}

type FetcherOption func(*CachingFetcher)

// WithDeferredWrites keeps fetched station-days in the LRU only and holds
// them for Flush, which writes them to DynamoDB as one batch.
func WithDeferredWrites() FetcherOption {
	return func(f *CachingFetcher) {
		f.deferWrites = true
	}
}

var _ models.StationDayFetcher = (*CachingFetcher)(nil)

func NewCachingFetcher(next models.StationDayFetcher, cache *CacheService, location *time.Location, opts ...FetcherOption) *CachingFetcher {
	if location == nil {
		location = time.UTC
	}
	f := &CachingFetcher{
		next:     next,
		cache:    cache,
		location: location,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *CachingFetcher) FetchStationDay(ctx context.Context, stationID string, date time.Time) (*models.StationDay, error) {
	dateStr := date.In(f.location).Format(models.DateLayout)

	cached, err := f.cache.GetStationDay(ctx, stationID, dateStr)
	if err != nil {
		log.Warn().Err(err).Str("station_id", stationID).Str("date", dateStr).Msg("Station-day cache lookup failed")
	} else if cached != nil {
		log.Trace().Str("station_id", stationID).Str("date", dateStr).Msg("Station-day cache HIT")
		return cached, nil
	}

	day, err := f.next.FetchStationDay(ctx, stationID, date)
	if err != nil {
		return nil, err
	}

	if f.deferWrites {
		f.cache.addToLRU(getCacheKey(day.StationID, day.Date), day)
		f.mu.Lock()
		f.pending = append(f.pending, *day)
		f.mu.Unlock()
		return day, nil
	}

	if err := f.cache.SaveStationDay(ctx, *day); err != nil {
		log.Warn().Err(err).Str("station_id", stationID).Str("date", dateStr).Msg("Failed to cache station-day")
	}
	return day, nil
}

// Flush writes the station-days held since the last flush. It returns the
// number written; on error the records are dropped, not retried.
func (f *CachingFetcher) Flush(ctx context.Context) (int, error) {
	f.mu.Lock()
	pending := f.pending
	f.pending = nil
	f.mu.Unlock()

	if len(pending) == 0 {
		return 0, nil
	}
	if err := f.cache.SaveStationDaysBatch(ctx, pending); err != nil {
		return 0, err
	}
	return len(pending), nil
}
