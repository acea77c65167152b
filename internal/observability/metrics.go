package observability

import (
	"sync"
	"time"
)

// RouteStats aggregates the traffic of one method and route pattern.
type RouteStats struct {
	Requests     int64            `json:"requests"`
	ByStatus     map[int]int64    `json:"byStatus"`
	Errors       map[string]int64 `json:"errors,omitempty"`
	TotalLatency time.Duration    `json:"-"`
	MaxLatency   time.Duration    `json:"-"`
	AvgLatencyMS float64          `json:"avgLatencyMs"`
	MaxLatencyMS float64          `json:"maxLatencyMs"`
}

// Metrics keeps in-process request counters, exposed on /health/metrics.
// A nil *Metrics discards everything.
type Metrics struct {
	mu     sync.Mutex
	routes map[string]*RouteStats
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{routes: make(map[string]*RouteStats)}
}

// RecordRequest counts a finished request.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := m.route(method + " " + route)
	stats.Requests++
	stats.ByStatus[status]++
	stats.TotalLatency += duration
	if duration > stats.MaxLatency {
		stats.MaxLatency = duration
	}
}

// RecordError counts an error response by its error code.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := m.route(method + " " + route)
	if stats.Errors == nil {
		stats.Errors = map[string]int64{}
	}
	stats.Errors[code]++
}

// Snapshot returns a copy of the counters keyed by "METHOD route".
func (m *Metrics) Snapshot() map[string]RouteStats {
	out := map[string]RouteStats{}
	if m == nil {
		return out
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, stats := range m.routes {
		cp := RouteStats{
			Requests:     stats.Requests,
			ByStatus:     make(map[int]int64, len(stats.ByStatus)),
			TotalLatency: stats.TotalLatency,
			MaxLatency:   stats.MaxLatency,
			MaxLatencyMS: float64(stats.MaxLatency) / float64(time.Millisecond),
		}
		for status, n := range stats.ByStatus {
			cp.ByStatus[status] = n
		}
		if len(stats.Errors) > 0 {
			cp.Errors = make(map[string]int64, len(stats.Errors))
			for code, n := range stats.Errors {
				cp.Errors[code] = n
			}
		}
		if stats.Requests > 0 {
			cp.AvgLatencyMS = float64(stats.TotalLatency) / float64(stats.Requests) / float64(time.Millisecond)
		}
		out[key] = cp
	}
	return out
}

func (m *Metrics) route(key string) *RouteStats {
	stats, ok := m.routes[key]
	if !ok {
		stats = &RouteStats{ByStatus: map[int]int64{}}
		m.routes[key] = stats
	}
	return stats
}
