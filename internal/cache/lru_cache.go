package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tidalpow/backend-go/internal/config"
	"github.com/tidalpow/backend-go/internal/metrics"
	"github.com/tidalpow/backend-go/internal/models"
)

// LRUCacheEntry wraps the cached data with metadata
type LRUCacheEntry struct {
	Data      *models.StationDay
	ExpiresAt time.Time
}

// CacheService provides a two-layer cache of station-days: an in-process LRU
// in front of DynamoDB. Either layer may be disabled.
type CacheService struct {
	lru         *lru.Cache[string, *LRUCacheEntry]
	dynamoCache *DynamoStationDayCache
	ttl         time.Duration
	clock       clock
	metrics     *metrics.Metrics

	lruHits      atomic.Uint64
	lruMisses    atomic.Uint64
	dynamoHits   atomic.Uint64
	dynamoMisses atomic.Uint64
}

// NewCacheService creates the service. dynamoCache may be nil.
func NewCacheService(cfg *config.CacheConfig, dynamoCache *DynamoStationDayCache, m *metrics.Metrics) (*CacheService, error) {
	svc := &CacheService{
		ttl:     cfg.GetLRUTTL(),
		clock:   realClock{},
		metrics: m,
	}

	if cfg.EnableLRUCache {
		lruCache, err := lru.New[string, *LRUCacheEntry](cfg.StationDayLRUSize)
		if err != nil {
			return nil, fmt.Errorf("creating LRU cache: %w", err)
		}
		svc.lru = lruCache
	}
	if cfg.EnableDynamoCache {
		svc.dynamoCache = dynamoCache
	}

	return svc, nil
}

// getCacheKey generates a unique cache key for a station and date
func getCacheKey(stationID, date string) string {
	return fmt.Sprintf("%s:%s", stationID, date)
}

// GetStationDay tries the LRU first, then DynamoDB. A DynamoDB hit is
// promoted into the LRU. (nil, nil) is a miss.
func (c *CacheService) GetStationDay(ctx context.Context, stationID, date string) (*models.StationDay, error) {
	key := getCacheKey(stationID, date)

	if c.lru != nil {
		if entry, ok := c.lru.Get(key); ok {
			if c.clock.Now().Before(entry.ExpiresAt) {
				c.lruHits.Add(1)
				c.metrics.CacheHit("lru")
				return entry.Data, nil
			}
			c.lru.Remove(key)
		}
		c.lruMisses.Add(1)
	}

	if c.dynamoCache == nil {
		return nil, nil
	}

	record, err := c.dynamoCache.GetStationDay(ctx, stationID, date)
	if err != nil {
		return nil, fmt.Errorf("getting station-day from DynamoDB: %w", err)
	}

	if record != nil {
		c.dynamoHits.Add(1)
		c.metrics.CacheHit("dynamo")
		c.addToLRU(key, record)
		return record, nil
	}
	c.dynamoMisses.Add(1)

	return nil, nil
}

// SaveStationDay saves to both layers.
func (c *CacheService) SaveStationDay(ctx context.Context, record models.StationDay) error {
	c.addToLRU(getCacheKey(record.StationID, record.Date), &record)

	if c.dynamoCache == nil {
		return nil
	}
	if err := c.dynamoCache.SaveStationDay(ctx, record); err != nil {
		return fmt.Errorf("saving station-day to DynamoDB: %w", err)
	}
	return nil
}

// SaveStationDaysBatch saves multiple station-days to both layers
func (c *CacheService) SaveStationDaysBatch(ctx context.Context, records []models.StationDay) error {
	for _, record := range records {
		recordCopy := record
		c.addToLRU(getCacheKey(record.StationID, record.Date), &recordCopy)
	}

	if c.dynamoCache == nil {
		return nil
	}
	if err := c.dynamoCache.SaveStationDaysBatch(ctx, records); err != nil {
		return fmt.Errorf("saving station-day batch to DynamoDB: %w", err)
	}
	return nil
}

func (c *CacheService) addToLRU(key string, record *models.StationDay) {
	if c.lru == nil {
		return
	}
	c.lru.Add(key, &LRUCacheEntry{
		Data:      record,
		ExpiresAt: c.clock.Now().Add(c.ttl),
	})
}

// GetCacheStats returns statistics about cache hits and misses
func (c *CacheService) GetCacheStats() map[string]uint64 {
	return map[string]uint64{
		"lru_hits":      c.lruHits.Load(),
		"lru_misses":    c.lruMisses.Load(),
		"dynamo_hits":   c.dynamoHits.Load(),
		"dynamo_misses": c.dynamoMisses.Load(),
	}
}

// Clear removes all entries from the LRU cache
func (c *CacheService) Clear() {
	if c.lru != nil {
		c.lru.Purge()
	}
}
