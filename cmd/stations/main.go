package main

import (
	"context"
	"net/http"
	"sync"
	_ "time/tzdata"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/tidalpow/backend-go/internal/api"
	"github.com/tidalpow/backend-go/internal/app"
	"github.com/tidalpow/backend-go/internal/config"
	"github.com/tidalpow/backend-go/internal/handler"
)

var (
	lambdaStart     = lambda.Start // Allow mocking of lambda.Start in tests
	stationsHandler *handler.StationsHandler
	setupOnce       sync.Once
)

func setup(ctx context.Context) {
	setupOnce.Do(func() {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()

		service, err := app.NewDashboardService(ctx, cfg, config.GetCacheConfig(), app.Dependencies{})
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize dashboard service")
			return
		}
		stationsHandler = handler.NewStationsHandler(service)
	})
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	log.Info().Interface("params", request.QueryStringParameters).Msg("Handling Lambda request")
	if stationsHandler == nil {
		return api.Error("Service not initialized", http.StatusInternalServerError)
	}
	return stationsHandler.HandleRequest(ctx, request)
}

func main() {
	setup(context.Background())
	lambdaStart(handleRequest)
}
