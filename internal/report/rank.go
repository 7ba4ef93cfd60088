package report

import (
	"sort"

	"github.com/tidalpow/backend-go/internal/models"
)

// Rank orders records by today's power, highest first, and assigns ranks
// 1..n in that order. Equal powers keep their input order.
func Rank(records []models.StationRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].TodaysPowerWattsPerSqm > records[j].TodaysPowerWattsPerSqm
	})
	for i := range records {
		records[i].PowerRank = i + 1
	}
}
