package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidalpow/backend-go/internal/dashboard"
	"github.com/tidalpow/backend-go/internal/metrics"
)

type stubService struct {
	lastStation string
	lastArea    float64
	lastPrice   float64
}

func (s *stubService) Ranking(_ context.Context, page int) (*dashboard.RankingPage, error) {
	if page > 2 {
		return nil, &dashboard.InvalidInputError{Message: fmt.Sprintf("page %d is beyond the last page 2", page)}
	}
	return &dashboard.RankingPage{
		Page:       page,
		TotalPages: 2,
		Stations:   []dashboard.RankingEntry{{PowerRank: 1, Station: "Okha", TodaysPowerWattsPerSqm: 10}},
	}, nil
}

func (s *stubService) Dashboard(_ context.Context, station string, _ time.Time) (*dashboard.Dashboard, error) {
	s.lastStation = station
	switch station {
	case "Okha", "Calcutta Kidderpore":
		return &dashboard.Dashboard{Station: station, CurrentHeight: 1.4, NextHourHeight: 1.5}, nil
	case "Kochi":
		return nil, fmt.Errorf("%s: %w", station, dashboard.ErrDataUnavailable)
	default:
		return nil, fmt.Errorf("%s: %w", station, dashboard.ErrStationNotFound)
	}
}

func (s *stubService) Revenue(_ context.Context, station string, area, price float64) (*dashboard.RevenueEstimate, error) {
	s.lastStation, s.lastArea, s.lastPrice = station, area, price
	return &dashboard.RevenueEstimate{Station: station, AreaSqm: area, DailyRevenue: 204}, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *stubService, *prometheus.Registry) {
	t.Helper()
	svc := &stubService{}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.StationDropped()

	s := New(svc, Options{Gatherer: reg})
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return ts, svc, reg
}

func getJSON(t *testing.T, url string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestRoutes(t *testing.T) {
	ts, _, _ := newTestServer(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantKey    string
		wantValue  interface{}
	}{
		{name: "health", path: "/healthz", wantStatus: http.StatusOK, wantKey: "status", wantValue: "ok"},
		{name: "ranking first page", path: "/stations", wantStatus: http.StatusOK, wantKey: "page", wantValue: 1.0},
		{name: "ranking second page", path: "/stations?page=2", wantStatus: http.StatusOK, wantKey: "page", wantValue: 2.0},
		{name: "ranking beyond last page", path: "/stations?page=3", wantStatus: http.StatusBadRequest, wantKey: "error", wantValue: "page 3 is beyond the last page 2"},
		{name: "ranking bad page", path: "/stations?page=x", wantStatus: http.StatusBadRequest, wantKey: "responseType", wantValue: "error"},
		{name: "dashboard", path: "/stations/Okha", wantStatus: http.StatusOK, wantKey: "currentHeight", wantValue: 1.4},
		{name: "dashboard unknown station", path: "/stations/Atlantis", wantStatus: http.StatusNotFound, wantKey: "error", wantValue: "Station not found"},
		{name: "dashboard without data", path: "/stations/Kochi", wantStatus: http.StatusServiceUnavailable, wantKey: "error", wantValue: "Data unavailable for this station"},
		{name: "revenue", path: "/stations/Okha/revenue?area=100", wantStatus: http.StatusOK, wantKey: "dailyRevenue", wantValue: 204.0},
		{name: "revenue without area", path: "/stations/Okha/revenue", wantStatus: http.StatusOK, wantKey: "areaSqm", wantValue: 0.0},
		{name: "revenue non-numeric area", path: "/stations/Okha/revenue?area=lots", wantStatus: http.StatusOK, wantKey: "areaSqm", wantValue: 0.0},
		{name: "revenue negative area", path: "/stations/Okha/revenue?area=-1", wantStatus: http.StatusOK, wantKey: "areaSqm", wantValue: 0.0},
		{name: "revenue bad price", path: "/stations/Okha/revenue?area=1&price=cheap", wantStatus: http.StatusBadRequest, wantKey: "responseType", wantValue: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := getJSON(t, ts.URL+tt.path)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantValue, body[tt.wantKey])
		})
	}
}

func TestEscapedStationName(t *testing.T) {
	ts, svc, _ := newTestServer(t)

	status, body := getJSON(t, ts.URL+"/stations/Calcutta%20Kidderpore")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Calcutta Kidderpore", body["station"])
	assert.Equal(t, "Calcutta Kidderpore", svc.lastStation)
}

func TestRevenueParameters(t *testing.T) {
	ts, svc, _ := newTestServer(t)

	status, _ := getJSON(t, ts.URL+"/stations/Okha/revenue?area=12.5&price=6")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Okha", svc.lastStation)
	assert.Equal(t, 12.5, svc.lastArea)
	assert.Equal(t, 6.0, svc.lastPrice)
}

func TestMethodNotAllowed(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/stations", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "tidalpow_stations_dropped_total 1")
}

func TestRunStopsOnCancel(t *testing.T) {
	s := New(&stubService{}, Options{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
}
