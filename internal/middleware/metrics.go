package middleware

import (
	"strconv"
	"time"

	"forecast-service/prometheus"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware adds prometheus metrics to track HTTP requests
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)

		duration := time.Since(start).Seconds()
		status := c.Response().Status
		if he, ok := err.(*echo.HTTPError); ok {
			status = he.Code
		}

		method := c.Request().Method
		path := c.Path()
		statusStr := strconv.Itoa(status)

		if prometheus.HttpRequestsTotal != nil {
			prometheus.HttpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
			prometheus.HttpRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration)
		}

		return err
	}
}
