package cache

import (
	"sync"
	"time"

	"github.com/tidalpow/backend-go/internal/models"
)

// ReportCache holds the most recently loaded report for a fixed TTL so the
// read side does not hit the store on every request.
type ReportCache struct {
	report   *models.Report
	loadedAt time.Time
	ttl      time.Duration
	clock    clock
	mu       sync.RWMutex
}

func NewReportCache(ttl time.Duration) *ReportCache {
	return &ReportCache{
		ttl:   ttl,
		clock: realClock{},
	}
}

// Get returns the cached report, or nil if none is cached or it expired.
func (c *ReportCache) Get() *models.Report {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.report == nil || c.isExpired() {
		return nil
	}
	return c.report
}

func (c *ReportCache) Set(report *models.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.report = report
	c.loadedAt = c.clock.Now()
}

func (c *ReportCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.report = nil
}

func (c *ReportCache) isExpired() bool {
	return c.clock.Now().Sub(c.loadedAt) >= c.ttl
}
