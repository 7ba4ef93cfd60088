package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/tidalpow/backend-go/internal/api"
	"github.com/tidalpow/backend-go/internal/dashboard"
	"github.com/tidalpow/backend-go/internal/energy"
)

// DashboardService is the read side the handler serves from.
type DashboardService interface {
	Ranking(ctx context.Context, page int) (*dashboard.RankingPage, error)
	Dashboard(ctx context.Context, station string, now time.Time) (*dashboard.Dashboard, error)
	Revenue(ctx context.Context, station string, areaSqm, pricePerKWh float64) (*dashboard.RevenueEstimate, error)
}

type StationsHandler struct {
	service DashboardService
	now     func() time.Time
}

func NewStationsHandler(service DashboardService) *StationsHandler {
	return &StationsHandler{
		service: service,
		now:     time.Now,
	}
}

// HandleRequest routes on query parameters: station and area give a revenue
// estimate, station alone gives the dashboard, anything else a ranking page.
// An area that does not parse as a non-negative number counts as 0.
func (h *StationsHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters

	station, hasStation := params["station"]
	if hasStation && station == "" {
		return api.Error("station must not be empty", http.StatusBadRequest)
	}

	if hasStation {
		if raw, hasArea := params["area"]; hasArea {
			return h.revenue(ctx, station, energy.ParseArea(raw), params)
		}
		return h.dashboard(ctx, station)
	}

	page, err := api.ParsePage(params)
	if err != nil {
		return api.FromError(err)
	}
	result, err := h.service.Ranking(ctx, page)
	if err != nil {
		return h.fail(err, "ranking")
	}
	return api.Success(api.NewRankingResponse(result))
}

func (h *StationsHandler) dashboard(ctx context.Context, station string) (events.APIGatewayProxyResponse, error) {
	d, err := h.service.Dashboard(ctx, station, h.now())
	if err != nil {
		return h.fail(err, "dashboard")
	}
	return api.Success(api.NewDashboardResponse(d))
}

func (h *StationsHandler) revenue(ctx context.Context, station string, area float64, params map[string]string) (events.APIGatewayProxyResponse, error) {
	price, _, err := api.ParseFloat(params, "price")
	if err != nil {
		return api.FromError(err)
	}
	estimate, err := h.service.Revenue(ctx, station, area, price)
	if err != nil {
		return h.fail(err, "revenue")
	}
	return api.Success(api.NewRevenueResponse(estimate))
}

func (h *StationsHandler) fail(err error, query string) (events.APIGatewayProxyResponse, error) {
	status, _ := api.StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("query", query).Msg("Request failed")
	} else {
		log.Debug().Err(err).Str("query", query).Int("status", status).Msg("Request rejected")
	}
	return api.FromError(err)
}
