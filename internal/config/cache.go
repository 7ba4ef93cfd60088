package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds all cache-related configuration
type CacheConfig struct {
	// LRU cache in front of the upstream fetcher
	StationDayLRUSize       int
	StationDayLRUTTLMinutes int

	// DynamoDB cache settings
	DynamoTableName string
	DynamoTTLDays   int
	DynamoEndpoint  string

	// Report snapshot cache used by the read side
	ReportTTLMinutes int

	// Batch processing settings
	BatchSize       int
	MaxBatchRetries int

	EnableLRUCache    bool
	EnableDynamoCache bool
}

const (
	defaultStationDayLRUSize    = 1000
	defaultStationDayTTLMinutes = 60
	defaultDynamoTableName      = "tidalpow-station-days"
	defaultDynamoTTLDays        = 2
	defaultReportTTLMinutes     = 5
	defaultBatchSize            = 25
	defaultMaxBatchRetries      = 3
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		StationDayLRUSize:       getEnvInt("CACHE_LRU_SIZE", defaultStationDayLRUSize),
		StationDayLRUTTLMinutes: getEnvInt("CACHE_LRU_TTL_MINUTES", defaultStationDayTTLMinutes),
		DynamoTableName:         getEnvOrDefault("CACHE_DYNAMO_TABLE", defaultDynamoTableName),
		DynamoTTLDays:           getEnvInt("CACHE_DYNAMO_TTL_DAYS", defaultDynamoTTLDays),
		DynamoEndpoint:          os.Getenv("DYNAMODB_ENDPOINT"),
		ReportTTLMinutes:        getEnvInt("CACHE_REPORT_TTL_MINUTES", defaultReportTTLMinutes),
		BatchSize:               getEnvInt("CACHE_BATCH_SIZE", defaultBatchSize),
		MaxBatchRetries:         getEnvInt("CACHE_MAX_BATCH_RETRIES", defaultMaxBatchRetries),
		EnableLRUCache:          getEnvBool("CACHE_ENABLE_LRU", true),
		EnableDynamoCache:       getEnvBool("CACHE_ENABLE_DYNAMO", true),
	}

	log.Debug().
		Int("StationDayLRUSize", config.StationDayLRUSize).
		Int("StationDayLRUTTLMinutes", config.StationDayLRUTTLMinutes).
		Str("DynamoTableName", config.DynamoTableName).
		Int("DynamoTTLDays", config.DynamoTTLDays).
		Int("ReportTTLMinutes", config.ReportTTLMinutes).
		Int("BatchSize", config.BatchSize).
		Int("MaxBatchRetries", config.MaxBatchRetries).
		Bool("EnableLRUCache", config.EnableLRUCache).
		Bool("EnableDynamoCache", config.EnableDynamoCache).
		Msg("Cache configuration loaded")

	return config
}

func (c *CacheConfig) GetLRUTTL() time.Duration {
	return time.Duration(c.StationDayLRUTTLMinutes) * time.Minute
}

func (c *CacheConfig) GetDynamoTTL() time.Duration {
	return time.Duration(c.DynamoTTLDays) * 24 * time.Hour
}

func (c *CacheConfig) GetReportTTL() time.Duration {
	return time.Duration(c.ReportTTLMinutes) * time.Minute
}

// Helper functions to get environment variables with defaults
func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
