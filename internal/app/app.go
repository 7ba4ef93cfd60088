// Package app wires configuration into the pipeline and the read side.
// Binaries call into it so the Lambda and CLI entrypoints assemble the same
// components.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tidalpow/backend-go/internal/cache"
	"github.com/tidalpow/backend-go/internal/config"
	"github.com/tidalpow/backend-go/internal/dashboard"
	"github.com/tidalpow/backend-go/internal/metrics"
	"github.com/tidalpow/backend-go/internal/models"
	"github.com/tidalpow/backend-go/internal/report"
	"github.com/tidalpow/backend-go/internal/station"
	"github.com/tidalpow/backend-go/internal/storage"
	"github.com/tidalpow/backend-go/internal/tide"
	"github.com/tidalpow/backend-go/pkg/http/client"
)

// Dependencies can override what the wiring would otherwise build from
// configuration. Nil fields are built.
type Dependencies struct {
	HTTPClient client.Interface
	Store      storage.Store
	Dynamo     cache.DynamoDBClient
	S3         storage.S3Client
	Metrics    *metrics.Metrics
}

// Generator runs one report generation: build for every catalogue station,
// then publish.
type Generator struct {
	cfg     *config.Config
	catalog *station.Catalog
	builder *report.Builder
	store   storage.Store
	now     func() time.Time
	// flush persists station-days the caching fetcher held back.
	flush func(ctx context.Context) (int, error)
}

func NewGenerator(ctx context.Context, cfg *config.Config, cacheCfg *config.CacheConfig, deps Dependencies) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	catalog, err := station.LoadCatalog(cfg.StationCatalog)
	if err != nil {
		return nil, err
	}

	httpClient := deps.HTTPClient
	if httpClient == nil {
		httpClient = client.New(client.Options{
			BaseURL: cfg.TideAPIBaseURL,
			Timeout: cfg.HTTPTimeout,
			Headers: map[string]string{"Authorization": cfg.TideAPIKey},
		})
	}

	var fetcher models.StationDayFetcher = tide.NewFetcher(httpClient, location)
	var flush func(ctx context.Context) (int, error)
	if cacheCfg != nil && (cacheCfg.EnableLRUCache || cacheCfg.EnableDynamoCache) {
		cacheService, err := newCacheService(ctx, cacheCfg, deps)
		if err != nil {
			return nil, err
		}
		cachingFetcher := cache.NewCachingFetcher(fetcher, cacheService, location, cache.WithDeferredWrites())
		fetcher, flush = cachingFetcher, cachingFetcher.Flush
	}

	store, err := NewStore(ctx, cfg, deps)
	if err != nil {
		return nil, err
	}

	builder := report.NewBuilder(fetcher, location,
		report.WithConcurrency(cfg.FetchConcurrency),
		report.WithFetchTimeout(cfg.FetchTimeout),
		report.WithMetrics(deps.Metrics),
	)

	return &Generator{
		cfg:     cfg,
		catalog: catalog,
		builder: builder,
		store:   store,
		now:     time.Now,
		flush:   flush,
	}, nil
}

// Run builds a report for the configured window around now and saves it,
// replacing the previous one. Only a failed save or a cancelled context
// fails the run.
func (g *Generator) Run(ctx context.Context) (*models.Report, error) {
	window := report.NewWindow(g.cfg.ReportDaysBack, g.cfg.ReportDays)

	rep, err := g.builder.Build(ctx, g.catalog.Stations(), window, g.now())
	if err != nil {
		return nil, fmt.Errorf("building report: %w", err)
	}

	if err := g.store.Save(ctx, rep); err != nil {
		return nil, fmt.Errorf("saving report: %w", err)
	}

	if g.flush != nil {
		written, err := g.flush(ctx)
		if err != nil {
			log.Warn().Err(err).Str("run_id", rep.RunID).Msg("Failed to persist fetched station-days")
		} else {
			log.Debug().Int("station_days", written).Msg("Persisted fetched station-days")
		}
	}

	log.Info().
		Str("run_id", rep.RunID).
		Str("reference_date", rep.ReferenceDate).
		Int("stations", len(rep.Stations)).
		Msg("Report published")
	return rep, nil
}

// NewStore selects the S3 store when a bucket is configured and the local
// file store otherwise.
func NewStore(ctx context.Context, cfg *config.Config, deps Dependencies) (storage.Store, error) {
	if deps.Store != nil {
		return deps.Store, nil
	}
	if cfg.ReportBucket == "" {
		return storage.NewFileStore(cfg.ReportOutputPath), nil
	}

	s3Client := deps.S3
	if s3Client == nil {
		c, err := storage.NewS3Client(ctx)
		if err != nil {
			return nil, err
		}
		s3Client = c
	}
	return storage.NewS3Store(s3Client, cfg.ReportBucket, storage.DefaultReportKey), nil
}

// NewDashboardService builds the read side over the configured store.
func NewDashboardService(ctx context.Context, cfg *config.Config, cacheCfg *config.CacheConfig, deps Dependencies) (*dashboard.Service, error) {
	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	store, err := NewStore(ctx, cfg, deps)
	if err != nil {
		return nil, err
	}

	var reportCache *cache.ReportCache
	if cacheCfg != nil && cacheCfg.ReportTTLMinutes > 0 {
		reportCache = cache.NewReportCache(cacheCfg.GetReportTTL())
	}

	return dashboard.NewService(store, reportCache, dashboard.Options{
		Location:        location,
		ForecastEntries: cfg.ForecastEntries,
		PageSize:        cfg.RankingPageSize,
		PricePerKWh:     cfg.PricePerKWh,
	}), nil
}

func newCacheService(ctx context.Context, cacheCfg *config.CacheConfig, deps Dependencies) (*cache.CacheService, error) {
	var dynamoCache *cache.DynamoStationDayCache
	if cacheCfg.EnableDynamoCache {
		dynamoClient := deps.Dynamo
		if dynamoClient == nil {
			c, err := cache.NewDynamoClient(ctx, cacheCfg.DynamoEndpoint)
			if err != nil {
				return nil, fmt.Errorf("creating DynamoDB client: %w", err)
			}
			dynamoClient = c
		}
		dynamoCache = cache.NewDynamoStationDayCache(dynamoClient, cacheCfg)
	}

	return cache.NewCacheService(cacheCfg, dynamoCache, deps.Metrics)
}
