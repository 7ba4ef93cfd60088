package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tidalpow/backend-go/internal/config"
)

// Configuration keys. Each also reads the upper-cased environment variable
// of the same name, so the CLI and the Lambdas share one set of settings.
const (
	keyEnv              = "env"
	keyLogLevel         = "log_level"
	keyHTTPTimeout      = "http_timeout"
	keyTideAPIBaseURL   = "tide_api_base_url"
	keyTideAPIKey       = "tide_api_key"
	keyTimezone         = "tide_timezone"
	keyReportDays       = "report_days"
	keyReportDaysBack   = "report_days_back"
	keyFetchConcurrency = "fetch_concurrency"
	keyFetchTimeout     = "fetch_timeout"
	keyOutputPath       = "report_output_path"
	keyBucket           = "report_bucket"
	keyStationCatalog   = "station_catalog"
	keyPricePerKWh      = "price_per_kwh"
	keyForecastEntries  = "forecast_entries"
	keyRankingPageSize  = "ranking_page_size"
	keyServerAddr       = "server_addr"
)

// NewRootCmd builds the tidalpow command tree.
func NewRootCmd() *cobra.Command {
	var cfgFile string
	v := viper.New()

	root := &cobra.Command{
		Use:   "tidalpow",
		Short: "Rank coastal tide stations by tidal power potential",
		Long: `Fetches tide predictions for the station catalogue, computes daily
tidal energy and power per square metre, ranks the stations and publishes
the dataset consumed by the dashboard.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tidalpow.yaml)")
	root.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")
	cobra.CheckErr(v.BindPFlag(keyLogLevel, root.PersistentFlags().Lookup("log-level")))

	root.AddCommand(
		newGenerateCmd(v),
		newServeCmd(v),
		newRevenueCmd(v),
		newStationsCmd(v),
	)
	return root
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig(v *viper.Viper, cfgFile string) error {
	setDefaults(v)
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	v.AddConfigPath(home)
	v.SetConfigType("yaml")
	v.SetConfigName(".tidalpow")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := config.New()
	v.SetDefault(keyEnv, "local")
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyHTTPTimeout, d.HTTPTimeout)
	v.SetDefault(keyTideAPIBaseURL, d.TideAPIBaseURL)
	v.SetDefault(keyTimezone, d.Timezone)
	v.SetDefault(keyReportDays, d.ReportDays)
	v.SetDefault(keyReportDaysBack, d.ReportDaysBack)
	v.SetDefault(keyFetchConcurrency, d.FetchConcurrency)
	v.SetDefault(keyFetchTimeout, d.FetchTimeout)
	v.SetDefault(keyOutputPath, d.ReportOutputPath)
	v.SetDefault(keyPricePerKWh, d.PricePerKWh)
	v.SetDefault(keyForecastEntries, d.ForecastEntries)
	v.SetDefault(keyRankingPageSize, d.RankingPageSize)
	v.SetDefault(keyServerAddr, ":8080")
}

// loadConfig turns the resolved viper settings into a Config and sets up
// logging from it.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	cfg := config.New(
		config.WithEnvironment(v.GetString(keyEnv)),
		config.WithLogLevel(strings.ToLower(v.GetString(keyLogLevel))),
		config.WithHTTPTimeout(v.GetDuration(keyHTTPTimeout)),
		config.WithTideAPI(v.GetString(keyTideAPIBaseURL), v.GetString(keyTideAPIKey)),
		config.WithTimezone(v.GetString(keyTimezone)),
		config.WithReportWindow(v.GetInt(keyReportDays), v.GetInt(keyReportDaysBack)),
		config.WithFetchConcurrency(v.GetInt(keyFetchConcurrency)),
		config.WithFetchTimeout(v.GetDuration(keyFetchTimeout)),
		config.WithOutput(v.GetString(keyOutputPath), v.GetString(keyBucket)),
		config.WithStationCatalog(v.GetString(keyStationCatalog)),
		config.WithPricePerKWh(v.GetFloat64(keyPricePerKWh)),
		config.WithDashboard(v.GetInt(keyForecastEntries), v.GetInt(keyRankingPageSize)),
	)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.InitializeLogging()
	return cfg, nil
}

// cacheConfig is the shared cache configuration, except that the DynamoDB
// layer stays off on a workstation unless CACHE_ENABLE_DYNAMO asks for it.
func cacheConfig() *config.CacheConfig {
	cfg := config.GetCacheConfig()
	if _, set := os.LookupEnv("CACHE_ENABLE_DYNAMO"); !set {
		cfg.EnableDynamoCache = false
	}
	return cfg
}
