package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a2eg/a2eg-backend/internal/config"
	"github.com/a2eg/a2eg-backend/internal/database"
	"github.com/a2eg/a2eg-backend/internal/metrics"
)

type staticHandle struct {
	names []string
	err   error
}

func (s staticHandle) Name() string { return "app" }

func (s staticHandle) ListCollectionNames(context.Context) ([]string, error) {
	return s.names, s.err
}

func newTestConfig(t *testing.T, frontendURL string) *config.Config {
	t.Helper()
	for _, key := range []string{"PORT", "FRONTEND_URL", "CACHE_ENABLED", "METRICS_ENABLED", "METRICS_PATH", "LOG_LEVEL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	if frontendURL != "" {
		t.Setenv("FRONTEND_URL", frontendURL)
	}
	cfg, err := config.Parse()
	require.NoError(t, err)
	return cfg
}

func newTestServer(t *testing.T, frontendURL string, db database.Provider) *echo.Echo {
	t.Helper()
	return New(newTestConfig(t, frontendURL), Deps{DB: db, Metrics: metrics.NewCollector()})
}

func do(e *echo.Echo, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestFixedRoutes(t *testing.T) {
	e := newTestServer(t, "", nil)

	testCases := []struct {
		target string
		want   string
	}{
		{"/", `{"message":"Hello from FastAPI Backend!"}`},
		{"/api/hello", `{"message":"Hello from the backend API!"}`},
		{"/healthz", `{"status":"ok"}`},
		{"/?pretty", `{"message":"Hello from FastAPI Backend!"}`},
		{"/api/hello?name=bob&pretty=1", `{"message":"Hello from the backend API!"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.target, func(t *testing.T) {
			rec := do(e, http.MethodGet, tc.target, http.Header{"Accept": {"text/html"}, "X-Whatever": {"1"}})

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.want, strings.TrimSpace(rec.Body.String()))
			assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON))
			assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
		})
	}
}

func TestRoutesAreGetOnly(t *testing.T) {
	e := newTestServer(t, "", nil)

	for _, target := range []string{"/", "/api/hello", "/healthz", "/test"} {
		rec := do(e, http.MethodPost, target, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, target)
	}
	assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, "/nope", nil).Code)
}

func TestDiagnosticWithoutCollaborator(t *testing.T) {
	e := newTestServer(t, "", database.ProviderFunc(func(context.Context) (database.Handle, error) {
		return nil, database.ErrUnavailable
	}))

	rec := do(e, http.MethodGet, "/test", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Database module not found", body["database"])
	assert.Equal(t, []any{}, body["collections"])
	assert.Len(t, body, 6)

	metricsRec := do(e, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, metricsRec.Code)
	assert.Contains(t, metricsRec.Body.String(), `a2eg_diagnostic_probes_total{outcome="unavailable"} 1`)
}

func TestDiagnosticListErrorStays200(t *testing.T) {
	e := newTestServer(t, "", database.ProviderFunc(func(context.Context) (database.Handle, error) {
		return staticHandle{err: errors.New("disk full on node 7 during metadata scan operation")}, nil
	}))

	rec := do(e, http.MethodGet, "/test", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Connected but Error: disk full on node 7 during metadata scan operation", body["database"])
	assert.Equal(t, "Connected", body["connection_status"])
}

func TestCORSRestrictedToFrontendURL(t *testing.T) {
	e := newTestServer(t, "https://example.com", nil)

	allowed := do(e, http.MethodGet, "/api/hello", http.Header{"Origin": {"https://example.com"}})
	assert.Equal(t, "https://example.com", allowed.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", allowed.Header().Get(echo.HeaderAccessControlAllowCredentials))

	denied := do(e, http.MethodGet, "/api/hello", http.Header{"Origin": {"https://evil.test"}})
	assert.Equal(t, http.StatusOK, denied.Code)
	assert.Empty(t, denied.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestCORSAllowsAnyOriginWhenUnset(t *testing.T) {
	e := newTestServer(t, "", nil)

	rec := do(e, http.MethodGet, "/", http.Header{"Origin": {"https://anything.test"}})
	assert.Equal(t, "https://anything.test", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
}

func TestCORSPreflight(t *testing.T) {
	e := newTestServer(t, "https://example.com", nil)

	rec := do(e, http.MethodOptions, "/api/hello", http.Header{
		"Origin":                         {"https://example.com"},
		"Access-Control-Request-Method":  {"GET"},
		"Access-Control-Request-Headers": {"X-Custom-Header, Authorization"},
	})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://example.com", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "X-Custom-Header, Authorization", rec.Header().Get(echo.HeaderAccessControlAllowHeaders))
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods), http.MethodDelete)
}

func TestMetricsCanBeDisabled(t *testing.T) {
	cfg := newTestConfig(t, "")
	cfg.Metrics.Enabled = false
	e := New(cfg, Deps{Metrics: metrics.NewCollector()})

	assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, "/metrics", nil).Code)
}
