package tide

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tidalpow/backend-go/internal/models"
)

// upstreamReading is one entry of either the regular series (`data`) or the
// high/low predictions (`predictions`).
type upstreamReading struct {
	Time   string      `json:"t"`
	Height heightValue `json:"v"`
	Type   *string     `json:"type,omitempty"` // H for high, L for low
}

type seriesResponse struct {
	Data []upstreamReading `json:"data"`
}

type highLowResponse struct {
	Predictions []upstreamReading `json:"predictions"`
}

// heightValue accepts heights encoded either as a JSON string or a number.
type heightValue float64

func (h *heightValue) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	raw = strings.Trim(raw, `"`)
	if raw == "" || raw == "null" {
		return fmt.Errorf("empty height")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("parsing height %s: %w", raw, err)
	}
	*h = heightValue(v)
	return nil
}

var _ json.Unmarshaler = (*heightValue)(nil)

var upstreamTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// parseUpstreamTime parses a reading timestamp. Zone-less values are wall
// clock times in the reference location.
func parseUpstreamTime(timeStr string, location *time.Location) (int64, error) {
	if t, err := time.Parse(time.RFC3339, timeStr); err == nil {
		return t.UnixMilli(), nil
	}
	for _, layout := range upstreamTimeLayouts {
		if t, err := time.ParseInLocation(layout, timeStr, location); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("parsing time %s: unrecognised layout", timeStr)
}

func formatLocalTime(timestamp int64, location *time.Location) string {
	return time.UnixMilli(timestamp).In(location).Format(models.LocalTimeLayout)
}
