package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/tidalpow/backend-go/internal/dashboard"
)

type APIResponse struct {
	ResponseType string `json:"responseType"`
}

func (r APIResponse) GetResponseType() string {
	return r.ResponseType
}

type RankingResponse struct {
	APIResponse
	*dashboard.RankingPage
}

type DashboardResponse struct {
	APIResponse
	*dashboard.Dashboard
}

type RevenueResponse struct {
	APIResponse
	*dashboard.RevenueEstimate
}

type ErrorResponse struct {
	APIResponse
	Error string `json:"error"`
}

func NewRankingResponse(page *dashboard.RankingPage) *RankingResponse {
	return &RankingResponse{
		APIResponse: APIResponse{ResponseType: "ranking"},
		RankingPage: page,
	}
}

func NewDashboardResponse(d *dashboard.Dashboard) *DashboardResponse {
	return &DashboardResponse{
		APIResponse: APIResponse{ResponseType: "dashboard"},
		Dashboard:   d,
	}
}

func NewRevenueResponse(r *dashboard.RevenueEstimate) *RevenueResponse {
	return &RevenueResponse{
		APIResponse:     APIResponse{ResponseType: "revenue"},
		RevenueEstimate: r,
	}
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		APIResponse: APIResponse{ResponseType: "error"},
		Error:       message,
	}
}

// Response helpers
func Success(body interface{}) (events.APIGatewayProxyResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Error("Internal Server Error", http.StatusInternalServerError)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    headers(),
		Body:       string(jsonBody),
	}, nil
}

func Error(message string, statusCode int) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(NewErrorResponse(message))

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    headers(),
		Body:       string(body),
	}, nil
}

// FromError maps a dashboard error onto an error response.
func FromError(err error) (events.APIGatewayProxyResponse, error) {
	status, message := StatusFor(err)
	return Error(message, status)
}

// StatusFor returns the HTTP status and client-facing message for err.
// Errors outside the dashboard taxonomy are reported as 500 without detail.
func StatusFor(err error) (int, string) {
	var invalid *dashboard.InvalidInputError
	var param InvalidParameterError
	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest, invalid.Message
	case errors.As(err, &param):
		return http.StatusBadRequest, param.Error()
	case errors.Is(err, dashboard.ErrStationNotFound):
		return http.StatusNotFound, "Station not found"
	case errors.Is(err, dashboard.ErrDataUnavailable):
		return http.StatusServiceUnavailable, "Data unavailable for this station"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

func headers() map[string]string {
	return map[string]string{
		"Content-Type":                "application/json",
		"Access-Control-Allow-Origin": "*",
	}
}
