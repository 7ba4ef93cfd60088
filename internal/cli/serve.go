package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tidalpow/backend-go/internal/app"
	"github.com/tidalpow/backend-go/internal/metrics"
	"github.com/tidalpow/backend-go/internal/server"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	var refresh time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rankings, dashboards and revenue estimates over HTTP",
		Long: `Serves the latest published report over HTTP. With --refresh the
server also regenerates the report on that interval.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			cacheCfg := cacheConfig()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			m := metrics.New(reg)

			service, err := app.NewDashboardService(cmd.Context(), cfg, cacheCfg, app.Dependencies{})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if refresh > 0 {
				gen, err := app.NewGenerator(ctx, cfg, cacheCfg, app.Dependencies{Metrics: m})
				if err != nil {
					return err
				}
				go refreshLoop(ctx, gen, refresh)
			}

			srv := server.New(service, server.Options{
				Addr:     v.GetString(keyServerAddr),
				Gatherer: reg,
			})
			return srv.Run(ctx)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")
	cmd.Flags().DurationVar(&refresh, "refresh", 0, "regenerate the report on this interval; 0 disables")
	cobra.CheckErr(v.BindPFlag(keyServerAddr, cmd.Flags().Lookup("addr")))
	return cmd
}

func refreshLoop(ctx context.Context, gen *app.Generator, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		if _, err := gen.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("Scheduled report generation failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
