package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntries(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()
	var entries []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry LogEntry
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestLogLevelString(t *testing.T) {
	testCases := []struct {
		level LogLevel
		want  string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{FatalLevel, "FATAL"},
		{LogLevel(42), "UNKNOWN"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, tc.level.String())
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("debug"))
	assert.Equal(t, WarnLevel, ParseLevel("WARNING"))
	assert.Equal(t, ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, InfoLevel, ParseLevel("nonsense"))
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: WarnLevel, Output: &buf})

	logger.Debug("dropped")
	logger.Info("dropped too")
	logger.Warn("kept")
	logger.Error("kept as well")

	entries := decodeEntries(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "WARN", entries[0].Level)
	assert.Equal(t, "kept", entries[0].Message)
	assert.Equal(t, "ERROR", entries[1].Level)
}

func TestLoggerFieldsAndComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: InfoLevel, Output: &buf, Component: "api"})

	logger.WithFields(map[string]interface{}{
		"repo":  "repo1",
		"count": 3,
	}).Info("commit created")

	entries := decodeEntries(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "api", entries[0].Component)
	assert.Equal(t, "repo1", entries[0].Fields["repo"])
	assert.Equal(t, float64(3), entries[0].Fields["count"])
}

func TestLoggerWithFieldDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: InfoLevel, Output: &buf})

	child := logger.WithField("repo", "repo1")
	logger.Info("no fields")
	child.Info("with field")

	entries := decodeEntries(t, &buf)
	require.Len(t, entries, 2)
	assert.Nil(t, entries[0].Fields)
	assert.Equal(t, "repo1", entries[1].Fields["repo"])
}

func TestErrorWithErrIncludesCaller(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: InfoLevel, Output: &buf})

	logger.ErrorWithErr("operation failed", errors.New("boom"))

	entries := decodeEntries(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].Error)
	assert.Contains(t, entries[0].Caller, "logger_test.go:")
}

func TestGinLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := NewLogger(Config{Level: InfoLevel, Output: &buf, Component: "api"})

	router := gin.New()
	router.Use(GinLogger(logger))
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	entries := decodeEntries(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "GET", entries[0].HTTPMethod)
	assert.Equal(t, "/ping", entries[0].HTTPPath)
	assert.Equal(t, http.StatusOK, entries[0].HTTPStatus)
	assert.NotEmpty(t, entries[0].RequestID)
}
