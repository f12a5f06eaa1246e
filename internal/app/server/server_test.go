package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrhrm/internal/platform/config"
	"qrhrm/internal/platform/metrics"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func testRouter(t *testing.T, ping error) http.Handler {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))
	cfg := config.Config{
		JWTSecret:          "secret",
		FrontendDir:        dir,
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 100,
		MetricsEnabled:     true,
	}
	return NewRouter(cfg, fakePinger{err: ping}, metrics.New())
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestProbes(t *testing.T) {
	h := testRouter(t, nil)
	assert.Equal(t, http.StatusOK, get(h, "/healthz").Code)
	assert.Equal(t, "ready", get(h, "/readyz").Body.String())

	down := testRouter(t, errors.New("down"))
	assert.Equal(t, http.StatusServiceUnavailable, get(down, "/readyz").Code)
}

func TestMetricsSnapshot(t *testing.T) {
	h := testRouter(t, nil)
	get(h, "/healthz")
	rec := get(h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "requests")
}

func TestSPAFallback(t *testing.T) {
	h := testRouter(t, nil)

	rec := get(h, "/app.js")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "console.log")

	rec = get(h, "/admin/attendance")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "app")

	assert.Equal(t, http.StatusNotFound, get(h, "/api/unknown").Code)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "WARN", parseLevel(" Warning ").String())
	assert.Equal(t, "INFO", parseLevel("").String())
}
