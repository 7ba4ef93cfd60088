package tide

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/tidalpow/backend-go/internal/models"
	"github.com/tidalpow/backend-go/pkg/http/client"
)

const (
	seriesEndpoint  = "tidal"
	highLowEndpoint = "high-low"
)

// Fetcher retrieves station-day tide data from the upstream prediction API.
type Fetcher struct {
	httpClient client.Interface
	location   *time.Location
}

var _ models.StationDayFetcher = (*Fetcher)(nil)

// NewFetcher creates a fetcher. Upstream timestamps without a zone and the
// requested date are interpreted in location.
func NewFetcher(httpClient client.Interface, location *time.Location) *Fetcher {
	if location == nil {
		location = time.UTC
	}
	return &Fetcher{
		httpClient: httpClient,
		location:   location,
	}
}

// FetchStationDay issues the regular-series and high/low requests
// concurrently and returns once both succeed. The first failure cancels the
// other request. ErrNoData is returned when both answers are empty.
func (f *Fetcher) FetchStationDay(ctx context.Context, stationID string, date time.Time) (*models.StationDay, error) {
	dateStr := date.In(f.location).Format(models.DateLayout)

	var series []models.TidePoint
	var events []models.TideEvent

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		series, err = f.fetchSeries(gctx, stationID, dateStr)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = f.fetchExtremes(gctx, stationID, dateStr)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetching %s on %s: %w", stationID, dateStr, err)
	}
	if len(series) == 0 && len(events) == 0 {
		return nil, fmt.Errorf("fetching %s on %s: %w", stationID, dateStr, ErrNoData)
	}

	return &models.StationDay{
		StationID:   stationID,
		Date:        dateStr,
		Events:      events,
		Series:      series,
		LastUpdated: time.Now().Unix(),
	}, nil
}

func (f *Fetcher) fetchSeries(ctx context.Context, stationID, date string) ([]models.TidePoint, error) {
	var resp seriesResponse
	if err := f.getJSON(ctx, seriesEndpoint, stationID, date, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, NewUpstreamAPIError(seriesEndpoint, "unexpected data structure: missing data array", nil)
	}

	points := make([]models.TidePoint, 0, len(resp.Data))
	for _, r := range resp.Data {
		timestamp, err := parseUpstreamTime(r.Time, f.location)
		if err != nil {
			return nil, NewUpstreamAPIError(seriesEndpoint, "malformed reading", err)
		}
		points = append(points, models.TidePoint{
			Timestamp: timestamp,
			LocalTime: formatLocalTime(timestamp, f.location),
			Height:    float64(r.Height),
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp < points[j].Timestamp
	})
	return points, nil
}

func (f *Fetcher) fetchExtremes(ctx context.Context, stationID, date string) ([]models.TideEvent, error) {
	var resp highLowResponse
	if err := f.getJSON(ctx, highLowEndpoint, stationID, date, &resp); err != nil {
		return nil, err
	}
	if resp.Predictions == nil {
		return nil, NewUpstreamAPIError(highLowEndpoint, "unexpected data structure: missing predictions array", nil)
	}

	events := make([]models.TideEvent, 0, len(resp.Predictions))
	for _, r := range resp.Predictions {
		tideType, ok := parseTideType(r.Type)
		if !ok {
			log.Debug().Str("station_id", stationID).Str("date", date).Msg("Skipping unclassified high/low reading")
			continue
		}

		timestamp, err := parseUpstreamTime(r.Time, f.location)
		if err != nil {
			return nil, NewUpstreamAPIError(highLowEndpoint, "malformed prediction", err)
		}

		events = append(events, models.TideEvent{
			Type:      tideType,
			Timestamp: timestamp,
			LocalTime: formatLocalTime(timestamp, f.location),
			Height:    float64(r.Height),
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp < events[j].Timestamp
	})
	return events, nil
}

func (f *Fetcher) getJSON(ctx context.Context, endpoint, stationID, date string, out interface{}) error {
	path := fmt.Sprintf("%s/%s?%s", endpoint, url.PathEscape(stationID), url.Values{"date": {date}}.Encode())

	resp, err := f.httpClient.Get(ctx, path)
	if err != nil {
		return NewUpstreamAPIError(endpoint, "request failed", err)
	}

	log.Debug().
		Str("station_id", stationID).
		Str("date", date).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Msg("Fetched from tide API")

	if !resp.OK() {
		apiErr := NewUpstreamAPIError(endpoint, "unexpected status", nil)
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return NewUpstreamAPIError(endpoint, "decoding response", err)
	}
	return nil
}

func parseTideType(raw *string) (models.TideType, bool) {
	if raw == nil {
		return "", false
	}
	switch strings.ToUpper(strings.TrimSpace(*raw)) {
	case "H", "HIGH", "HW":
		return models.TideTypeHigh, true
	case "L", "LOW", "LW":
		return models.TideTypeLow, true
	default:
		return "", false
	}
}
