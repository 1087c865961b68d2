package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Middleware(t *testing.T) {
	m := NewMetrics()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/loan/application/:id", func(c echo.Context) error {
		if c.Param("id") == "missing" {
			return echo.NewHTTPError(http.StatusNotFound, "Application not found")
		}
		return c.JSON(http.StatusOK, map[string]bool{"success": true})
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	for _, p := range []string{"/loan/application/a", "/loan/application/b", "/loan/application/missing"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/loan/application/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/loan/application/:id", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "kamikaya_http_requests_total")
	assert.NotContains(t, body, `route="/metrics"`)
}

func TestMetrics_LifecycleCounters(t *testing.T) {
	m := NewMetrics()
	m.ApplicationSubmitted()
	m.ApplicationSubmitted()
	m.StatusUpdated("approved")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitioned.WithLabelValues("approved")))

	n, err := testutil.GatherAndCount(m.Registry(), "kamikaya_applications_status_updates_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMetrics_UnmatchedRoute(t *testing.T) {
	m := NewMetrics()
	e := echo.New()
	e.Use(m.Middleware())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope/"+strings.Repeat("x", 5), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
