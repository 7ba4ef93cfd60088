package tide

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidalpow/backend-go/internal/models"
	"github.com/tidalpow/backend-go/pkg/http/client"
)

const testAPIKey = "test-key"

func newTestFetcher(t *testing.T, handler http.HandlerFunc) *Fetcher {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	httpClient := client.New(client.Options{
		BaseURL: srv.URL + "/",
		Timeout: 5 * time.Second,
		Headers: map[string]string{"Authorization": testAPIKey},
	})
	return NewFetcher(httpClient, time.UTC)
}

func TestFetchStationDay(t *testing.T) {
	var calls int32

	fetcher := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, testAPIKey, r.Header.Get("Authorization"))
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("date"))

		switch {
		case strings.HasPrefix(r.URL.Path, "/tidal/Okha"):
			_, _ = w.Write([]byte(`{"data":[
				{"t":"2024-01-01 01:00:00","v":"1.10"},
				{"t":"2024-01-01 00:00:00","v":"1.00"}
			]}`))
		case strings.HasPrefix(r.URL.Path, "/high-low/Okha"):
			_, _ = w.Write([]byte(`{"predictions":[
				{"t":"2024-01-01 12:10","v":"0.45","type":"L"},
				{"t":"2024-01-01 06:05","v":2.01,"type":"H"},
				{"t":"2024-01-01 09:00","v":"1.1","type":"X"}
			]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	day, err := fetcher.FetchStationDay(context.Background(), "Okha", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	assert.Equal(t, "Okha", day.StationID)
	assert.Equal(t, "2024-01-01", day.Date)

	require.Len(t, day.Series, 2)
	assert.Equal(t, 1.0, day.Series[0].Height, "series must be sorted")
	assert.Equal(t, "2024-01-01T00:00:00", day.Series[0].LocalTime)

	require.Len(t, day.Events, 2, "unclassified readings are skipped")
	assert.Equal(t, models.TideTypeHigh, day.Events[0].Type)
	assert.Equal(t, 2.01, day.Events[0].Height)
	assert.Equal(t, models.TideTypeLow, day.Events[1].Type)
}

func TestFetchStationDayFailures(t *testing.T) {
	tests := []struct {
		name       string
		series     string
		highLow    string
		status     int
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "non-success status",
			series:     `{"data":[]}`,
			status:     http.StatusInternalServerError,
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "unexpected status",
		},
		{
			name:    "missing data array",
			series:  `{"rows":[]}`,
			highLow: `{"predictions":[]}`,
			wantMsg: "missing data array",
		},
		{
			name:    "missing predictions array",
			series:  `{"data":[]}`,
			highLow: `{}`,
			wantMsg: "missing predictions array",
		},
		{
			name:    "malformed height",
			series:  `{"data":[{"t":"2024-01-01 00:00","v":"abc"}]}`,
			highLow: `{"predictions":[]}`,
			wantMsg: "decoding response",
		},
		{
			name:    "malformed time",
			series:  `{"data":[]}`,
			highLow: `{"predictions":[{"t":"yesterday","v":"1","type":"H"}]}`,
			wantMsg: "malformed prediction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
				if strings.HasPrefix(r.URL.Path, "/tidal/") {
					_, _ = w.Write([]byte(tt.series))
					return
				}
				if tt.status != 0 {
					w.WriteHeader(tt.status)
					return
				}
				_, _ = w.Write([]byte(tt.highLow))
			})

			day, err := fetcher.FetchStationDay(context.Background(), "Okha", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
			require.Error(t, err)
			assert.Nil(t, day)

			var apiErr *UpstreamAPIError
			require.True(t, errors.As(err, &apiErr))
			assert.Contains(t, err.Error(), tt.wantMsg)
			if tt.wantStatus != 0 {
				assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			}
		})
	}
}

func TestFetchStationDayEmptyResponses(t *testing.T) {
	tests := []struct {
		name      string
		series    string
		highLow   string
		wantNoErr bool
	}{
		{name: "both empty", series: `{"data":[]}`, highLow: `{"predictions":[]}`},
		{
			name:      "series only",
			series:    `{"data":[{"t":"2024-01-01 00:00:00","v":"1.0"}]}`,
			highLow:   `{"predictions":[]}`,
			wantNoErr: true,
		},
		{
			name:      "extremes only",
			series:    `{"data":[]}`,
			highLow:   `{"predictions":[{"t":"2024-01-01 06:00","v":"2.0","type":"H"}]}`,
			wantNoErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
				if strings.HasPrefix(r.URL.Path, "/tidal/") {
					_, _ = w.Write([]byte(tt.series))
					return
				}
				_, _ = w.Write([]byte(tt.highLow))
			})

			day, err := fetcher.FetchStationDay(context.Background(), "Okha", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
			if tt.wantNoErr {
				require.NoError(t, err)
				assert.NotNil(t, day)
				return
			}
			assert.ErrorIs(t, err, ErrNoData)
			assert.Nil(t, day)
		})
	}
}

func TestFetchStationDayTransportError(t *testing.T) {
	httpClient := &client.Client{
		GetFunc: func(_ context.Context, _ string) (*client.Response, error) {
			return nil, errors.New("connection refused")
		},
	}
	fetcher := NewFetcher(httpClient, nil)

	_, err := fetcher.FetchStationDay(context.Background(), "Okha", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFetchStationDayEscapesStation(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	httpClient := &client.Client{
		GetFunc: func(_ context.Context, path string) (*client.Response, error) {
			mu.Lock()
			paths = append(paths, path)
			mu.Unlock()
			if strings.HasPrefix(path, "tidal/") {
				return &client.Response{StatusCode: http.StatusOK, Body: []byte(`{"data":[]}`)}, nil
			}
			return &client.Response{StatusCode: http.StatusOK, Body: []byte(`{"predictions":[]}`)}, nil
		},
	}
	fetcher := NewFetcher(httpClient, time.UTC)

	_, err := fetcher.FetchStationDay(context.Background(), "Calcutta Kidderpore", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"tidal/Calcutta%20Kidderpore?date=2024-01-01",
		"high-low/Calcutta%20Kidderpore?date=2024-01-01",
	}, paths)
}

func TestParseUpstreamTime(t *testing.T) {
	t.Parallel()

	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	want := time.Date(2024, 1, 1, 6, 30, 0, 0, ist).UnixMilli()
	for _, s := range []string{"2024-01-01 06:30:00", "2024-01-01 06:30", "2024-01-01T06:30:00", "2024-01-01T01:00:00Z"} {
		got, err := parseUpstreamTime(s, ist)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}
}
