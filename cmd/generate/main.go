package main

import (
	"context"
	"os"
	"sync"
	_ "time/tzdata"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/tidalpow/backend-go/internal/app"
	"github.com/tidalpow/backend-go/internal/config"
	"github.com/tidalpow/backend-go/internal/metrics"
)

// Runner runs one report generation.
type Runner interface {
	Run(ctx context.Context) error
}

var (
	lambdaStart = lambda.Start // Allow mocking of lambda.Start in tests
	runner      Runner
	setupErr    error
	setupOnce   sync.Once
)

type generatorRunner struct {
	gen *app.Generator
}

func (r generatorRunner) Run(ctx context.Context) error {
	_, err := r.gen.Run(ctx)
	return err
}

func setup(ctx context.Context) {
	setupOnce.Do(func() {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()

		gen, err := app.NewGenerator(ctx, cfg, config.GetCacheConfig(), app.Dependencies{
			Metrics: metrics.New(prometheus.DefaultRegisterer),
		})
		if err != nil {
			setupErr = err
			return
		}
		runner = generatorRunner{gen: gen}
	})
}

// handleScheduledEvent runs one generation per scheduler tick. A failed run
// is returned so the invocation is marked failed and retried.
func handleScheduledEvent(ctx context.Context, event events.CloudWatchEvent) error {
	log.Info().Str("event_id", event.ID).Str("source", event.Source).Msg("Starting report generation")
	if setupErr != nil {
		return setupErr
	}
	if err := runner.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Report generation failed")
		return err
	}
	return nil
}

func main() {
	setup(context.Background())

	if os.Getenv("RUN_MODE") == "local" {
		if err := handleScheduledEvent(context.Background(), events.CloudWatchEvent{Source: "local"}); err != nil {
			log.Fatal().Err(err).Msg("Generation failed")
		}
		return
	}

	lambdaStart(handleScheduledEvent)
}
