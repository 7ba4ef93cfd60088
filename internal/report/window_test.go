package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tidalpow/backend-go/internal/models"
)

func TestWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		window  Window
		wantLen int
		wantErr bool
	}{
		{name: "default", window: DefaultWindow(), wantLen: 9},
		{name: "from config", window: NewWindow(2, 7), wantLen: 9},
		{name: "today only", window: NewWindow(0, 1), wantLen: 1},
		{name: "reversed", window: Window{From: 3, To: 1}, wantErr: true},
		{name: "future only", window: Window{From: 1, To: 3}, wantErr: true},
		{name: "past only", window: Window{From: -3, To: -1}, wantErr: true},
		{name: "too long", window: Window{From: -20, To: 20}, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.window.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Len(t, tt.window.Offsets(), tt.wantLen)
		})
	}
}

func TestRank(t *testing.T) {
	t.Parallel()

	records := []models.StationRecord{
		{Station: "A", TodaysPowerWattsPerSqm: 5.0},
		{Station: "B", TodaysPowerWattsPerSqm: 7.0},
		{Station: "C", TodaysPowerWattsPerSqm: 7.0},
		{Station: "D", TodaysPowerWattsPerSqm: 0},
	}
	Rank(records)

	names := make([]string, 0, len(records))
	for i, r := range records {
		names = append(names, r.Station)
		assert.Equal(t, i+1, r.PowerRank)
	}
	assert.Equal(t, []string{"B", "C", "A", "D"}, names)
}
