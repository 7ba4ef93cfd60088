package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTideAPIBaseURL = "https://gemini.incois.gov.in/incoisapi/rest/"
	DefaultTimezone       = "Asia/Kolkata"
)

type Config struct {
	Environment string
	LogLevel    zerolog.Level
	HTTPTimeout time.Duration

	TideAPIBaseURL string
	TideAPIKey     string
	// Timezone is the reference zone for day boundaries and "current hour".
	Timezone string

	ReportDays       int
	ReportDaysBack   int
	FetchConcurrency int
	FetchTimeout     time.Duration

	ReportOutputPath string
	ReportBucket     string
	StationCatalog   string

	PricePerKWh     float64
	ForecastEntries int
	RankingPageSize int
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithHTTPTimeout allows setting the HTTP timeout
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HTTPTimeout = timeout
	}
}

// WithTideAPI sets the upstream base URL and API key. An empty base URL
// keeps the default.
func WithTideAPI(baseURL, apiKey string) Option {
	return func(c *Config) {
		if baseURL != "" {
			c.TideAPIBaseURL = baseURL
		}
		c.TideAPIKey = apiKey
	}
}

func WithTimezone(tz string) Option {
	return func(c *Config) {
		if tz != "" {
			c.Timezone = tz
		}
	}
}

// WithReportWindow sets how many days ahead (including today) and how many
// days back a report covers.
func WithReportWindow(days, daysBack int) Option {
	return func(c *Config) {
		c.ReportDays = days
		c.ReportDaysBack = daysBack
	}
}

func WithFetchConcurrency(n int) Option {
	return func(c *Config) {
		c.FetchConcurrency = n
	}
}

func WithFetchTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.FetchTimeout = timeout
	}
}

// WithOutput chooses where reports are written: an S3 bucket when bucket is
// set, otherwise the local path.
func WithOutput(path, bucket string) Option {
	return func(c *Config) {
		if path != "" {
			c.ReportOutputPath = path
		}
		c.ReportBucket = bucket
	}
}

func WithStationCatalog(path string) Option {
	return func(c *Config) {
		c.StationCatalog = path
	}
}

func WithPricePerKWh(price float64) Option {
	return func(c *Config) {
		c.PricePerKWh = price
	}
}

func WithDashboard(forecastEntries, rankingPageSize int) Option {
	return func(c *Config) {
		c.ForecastEntries = forecastEntries
		c.RankingPageSize = rankingPageSize
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:      "production",
		LogLevel:         zerolog.InfoLevel,
		HTTPTimeout:      10 * time.Second,
		TideAPIBaseURL:   DefaultTideAPIBaseURL,
		Timezone:         DefaultTimezone,
		ReportDays:       7,
		ReportDaysBack:   2,
		FetchConcurrency: 8,
		FetchTimeout:     20 * time.Second,
		ReportOutputPath: "stations.json",
		PricePerKWh:      8.5,
		ForecastEntries:  5,
		RankingPageSize:  10,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.ReportDays < 1 {
		return fmt.Errorf("REPORT_DAYS must be at least 1, got %d", c.ReportDays)
	}
	if c.ReportDaysBack < 0 {
		return fmt.Errorf("REPORT_DAYS_BACK must not be negative, got %d", c.ReportDaysBack)
	}
	if c.FetchConcurrency < 1 {
		return fmt.Errorf("FETCH_CONCURRENCY must be at least 1, got %d", c.FetchConcurrency)
	}
	if c.PricePerKWh < 0 {
		return fmt.Errorf("PRICE_PER_KWH must not be negative, got %v", c.PricePerKWh)
	}
	if c.RankingPageSize < 1 {
		return fmt.Errorf("RANKING_PAGE_SIZE must be at least 1, got %d", c.RankingPageSize)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the reference timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	// Setup console logger for development environments
	if c.Environment == "local" || c.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	return New(
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithHTTPTimeout(getDurationEnvOrDefault("HTTP_TIMEOUT", 10*time.Second)),
		WithTideAPI(os.Getenv("TIDE_API_BASE_URL"), os.Getenv("TIDE_API_KEY")),
		WithTimezone(os.Getenv("TIDE_TIMEZONE")),
		WithReportWindow(getEnvInt("REPORT_DAYS", 7), getEnvInt("REPORT_DAYS_BACK", 2)),
		WithFetchConcurrency(getEnvInt("FETCH_CONCURRENCY", 8)),
		WithFetchTimeout(getDurationEnvOrDefault("FETCH_TIMEOUT", 20*time.Second)),
		WithOutput(os.Getenv("REPORT_OUTPUT_PATH"), os.Getenv("REPORT_BUCKET")),
		WithStationCatalog(os.Getenv("STATION_CATALOG")),
		WithPricePerKWh(getEnvFloat("PRICE_PER_KWH", 8.5)),
		WithDashboard(getEnvInt("FORECAST_ENTRIES", 5), getEnvInt("RANKING_PAGE_SIZE", 10)),
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
		log.Warn().Str("key", key).Msg("Invalid number in environment variable, using default")
	}
	return defaultVal
}
