package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for report generation and the
// station-day cache. A nil *Metrics is valid and records nothing.
type Metrics struct {
	StationDaysFetched prometheus.Counter
	FetchFailures      prometheus.Counter
	IncompleteCycles   prometheus.Counter
	StationsDropped    prometheus.Counter
	BuildDuration      prometheus.Histogram
	StationsRanked     prometheus.Gauge

	CacheHits *prometheus.CounterVec // labels: layer=lru|dynamo|report
}

// New creates the instruments and registers them on reg. A nil reg creates
// unregistered instruments, which is what tests usually want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StationDaysFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tidalpow_station_days_fetched_total",
			Help: "Station-days fetched successfully",
		}),
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tidalpow_fetch_failures_total",
			Help: "Station-days skipped because the fetch failed or timed out",
		}),
		IncompleteCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tidalpow_incomplete_cycles_total",
			Help: "Days included with no complete high/low cycle",
		}),
		StationsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tidalpow_stations_dropped_total",
			Help: "Stations left out of a report for lack of usable days",
		}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tidalpow_report_build_duration_seconds",
			Help:    "Wall time of a full report build",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		StationsRanked: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tidalpow_stations_ranked",
			Help: "Stations in the latest report",
		}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tidalpow_cache_hits_total",
			Help: "Cache hits by layer",
		}, []string{"layer"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.StationDaysFetched,
			m.FetchFailures,
			m.IncompleteCycles,
			m.StationsDropped,
			m.BuildDuration,
			m.StationsRanked,
			m.CacheHits,
		)
	}
	return m
}

func (m *Metrics) FetchSucceeded() {
	if m == nil {
		return
	}
	m.StationDaysFetched.Inc()
}

func (m *Metrics) FetchFailed() {
	if m == nil {
		return
	}
	m.FetchFailures.Inc()
}

func (m *Metrics) IncompleteCycle() {
	if m == nil {
		return
	}
	m.IncompleteCycles.Inc()
}

func (m *Metrics) StationDropped() {
	if m == nil {
		return
	}
	m.StationsDropped.Inc()
}

// ReportBuilt records the duration and size of a finished build.
func (m *Metrics) ReportBuilt(elapsed time.Duration, ranked int) {
	if m == nil {
		return
	}
	m.BuildDuration.Observe(elapsed.Seconds())
	m.StationsRanked.Set(float64(ranked))
}

func (m *Metrics) CacheHit(layer string) {
	if m == nil {
		return
	}
	m.CacheHits.WithLabelValues(layer).Inc()
}
