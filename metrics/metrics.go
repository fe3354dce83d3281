// Package metrics provides centralized Prometheus metrics for the site.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts HTTP requests by method, route, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "porch_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// LibraryReloads counts content reloads triggered by file changes.
	LibraryReloads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "porch_library_reloads_total",
			Help: "Total number of content library reloads",
		},
	)

	// LintIssuesFound counts issues reported by the lint rules.
	LintIssuesFound = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "porch_lint_issues_total",
			Help: "Total number of lint issues found",
		},
	)
)

// Middleware records a counter sample per request, keyed by the echo
// route (not the raw URL, to keep cardinality bounded).
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = http.StatusInternalServerError
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			HTTPRequestsTotal.WithLabelValues(
				c.Request().Method, c.Path(), strconv.Itoa(status),
			).Inc()
			return err
		}
	}
}

// Handler exposes the default registry for the /metrics route.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
