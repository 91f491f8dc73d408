package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHTTPRequest(t *testing.T) {
	m := New()

	m.RecordHTTPRequest("GET", "/api/v1/repos", http.StatusOK, 50*time.Millisecond)
	m.RecordHTTPRequest("GET", "/api/v1/repos", http.StatusOK, 25*time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/v1/repos", http.StatusCreated, time.Millisecond)

	out := m.render()
	assert.Contains(t, out, `minigit_http_requests_total{method="GET",status="200"} 2`)
	assert.Contains(t, out, `minigit_http_requests_total{method="POST",status="201"} 1`)
	assert.Contains(t, out, `minigit_http_request_duration_seconds{method="GET",route="/api/v1/repos"} 0.075000`)
}

func TestRepositoryCounters(t *testing.T) {
	m := New()

	m.SetRepositoryCount(3)
	m.IncCommits()
	m.IncCommits()
	m.IncDrops()
	m.IncSyncs()

	out := m.render()
	assert.Contains(t, out, "minigit_repositories_total 3")
	assert.Contains(t, out, "minigit_commits_total 2")
	assert.Contains(t, out, "minigit_drops_total 1")
	assert.Contains(t, out, "minigit_syncs_total 1")
}

func TestInFlight(t *testing.T) {
	m := New()

	m.IncHTTPInFlight()
	m.IncHTTPInFlight()
	m.DecHTTPInFlight()

	assert.Contains(t, m.render(), "minigit_http_requests_in_flight 1")
}

func TestHandlerAndMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	router := gin.New()
	router.Use(m.GinMiddleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", m.Handler())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `minigit_http_requests_total{method="GET",status="200"} 1`)
	assert.Contains(t, body, `route="/ping"`)
	assert.Contains(t, body, "go_goroutines")
	assert.Equal(t, "text/plain; version=0.0.4; charset=utf-8", w.Header().Get("Content-Type"))
}
