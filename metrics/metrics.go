// Package metrics collects server counters and exposes them in Prometheus
// text format.
package metrics

import (
	"fmt"
	"net/http"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Metrics tracks HTTP and repository counters for one server process
type Metrics struct {
	mu sync.RWMutex

	// HTTP metrics, keyed by "method:status" and "method:route"
	httpRequests map[string]int64
	httpDuration map[string]float64
	httpInFlight int64

	// Repository metrics
	repositoryCount int64
	commitsTotal    int64
	dropsTotal      int64
	syncsTotal      int64

	startTime time.Time
}

// New creates an empty metrics registry
func New() *Metrics {
	return &Metrics{
		httpRequests: make(map[string]int64),
		httpDuration: make(map[string]float64),
		startTime:    time.Now(),
	}
}

// RecordHTTPRequest records one completed HTTP request
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.httpRequests[method+":"+strconv.Itoa(status)]++
	m.httpDuration[method+":"+route] += duration.Seconds()
}

// IncHTTPInFlight increments in-flight HTTP requests
func (m *Metrics) IncHTTPInFlight() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.httpInFlight++
}

// DecHTTPInFlight decrements in-flight HTTP requests
func (m *Metrics) DecHTTPInFlight() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.httpInFlight--
}

// SetRepositoryCount sets the current repository count
func (m *Metrics) SetRepositoryCount(count int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.repositoryCount = count
}

// IncCommits counts one created commit
func (m *Metrics) IncCommits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commitsTotal++
}

// IncDrops counts one dropped commit
func (m *Metrics) IncDrops() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropsTotal++
}

// IncSyncs counts one synchronize operation
func (m *Metrics) IncSyncs() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncsTotal++
}

// GinMiddleware records request counts and latency per route
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.IncHTTPInFlight()

		c.Next()

		m.DecHTTPInFlight()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// Handler returns a gin handler serving the text exposition format
func (m *Metrics) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		c.String(http.StatusOK, m.render())
	}
}

// render generates the Prometheus-formatted metrics text
func (m *Metrics) render() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var b strings.Builder

	b.WriteString("# HELP minigit_http_requests_total The total number of HTTP requests\n")
	b.WriteString("# TYPE minigit_http_requests_total counter\n")
	for _, key := range sortedKeys(m.httpRequests) {
		method, status := splitKey(key)
		fmt.Fprintf(&b, "minigit_http_requests_total{method=%q,status=%q} %d\n", method, status, m.httpRequests[key])
	}

	b.WriteString("\n# HELP minigit_http_request_duration_seconds The total time spent on HTTP requests\n")
	b.WriteString("# TYPE minigit_http_request_duration_seconds counter\n")
	durationKeys := make([]string, 0, len(m.httpDuration))
	for key := range m.httpDuration {
		durationKeys = append(durationKeys, key)
	}
	sort.Strings(durationKeys)
	for _, key := range durationKeys {
		method, route := splitKey(key)
		fmt.Fprintf(&b, "minigit_http_request_duration_seconds{method=%q,route=%q} %s\n",
			method, route, formatFloat(m.httpDuration[key]))
	}

	b.WriteString("\n# HELP minigit_http_requests_in_flight The current number of in-flight HTTP requests\n")
	b.WriteString("# TYPE minigit_http_requests_in_flight gauge\n")
	fmt.Fprintf(&b, "minigit_http_requests_in_flight %d\n", m.httpInFlight)

	b.WriteString("\n# HELP minigit_repositories_total The current number of repositories\n")
	b.WriteString("# TYPE minigit_repositories_total gauge\n")
	fmt.Fprintf(&b, "minigit_repositories_total %d\n", m.repositoryCount)

	b.WriteString("\n# HELP minigit_commits_total The total number of commits created\n")
	b.WriteString("# TYPE minigit_commits_total counter\n")
	fmt.Fprintf(&b, "minigit_commits_total %d\n", m.commitsTotal)

	b.WriteString("\n# HELP minigit_drops_total The total number of commits dropped\n")
	b.WriteString("# TYPE minigit_drops_total counter\n")
	fmt.Fprintf(&b, "minigit_drops_total %d\n", m.dropsTotal)

	b.WriteString("\n# HELP minigit_syncs_total The total number of synchronize operations\n")
	b.WriteString("# TYPE minigit_syncs_total counter\n")
	fmt.Fprintf(&b, "minigit_syncs_total %d\n", m.syncsTotal)

	b.WriteString("\n# HELP minigit_uptime_seconds The uptime of the server in seconds\n")
	b.WriteString("# TYPE minigit_uptime_seconds counter\n")
	fmt.Fprintf(&b, "minigit_uptime_seconds %s\n", formatFloat(time.Since(m.startTime).Seconds()))

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	b.WriteString("\n# HELP go_memstats_alloc_bytes Number of bytes allocated and still in use\n")
	b.WriteString("# TYPE go_memstats_alloc_bytes gauge\n")
	fmt.Fprintf(&b, "go_memstats_alloc_bytes %d\n", memStats.Alloc)

	b.WriteString("\n# HELP go_goroutines Number of goroutines that currently exist\n")
	b.WriteString("# TYPE go_goroutines gauge\n")
	fmt.Fprintf(&b, "go_goroutines %d\n", runtime.NumGoroutine())

	return b.String()
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func splitKey(key string) (string, string) {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i], key[i+1:]
	}
	return key, ""
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}
