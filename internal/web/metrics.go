package web

import (
	"github.com/labstack/echo-contrib/prometheus"
	"github.com/labstack/echo/v4"
)

// EnableMetrics instruments the API with Prometheus and returns a separate
// Echo instance serving /metrics, to be started on its own port. Call at most
// once per process: the collectors register globally.
func (s *Server) EnableMetrics() *echo.Echo {
	metrics := echo.New()
	metrics.HideBanner = true
	metrics.HidePort = true

	prom := prometheus.NewPrometheus("assettracker", nil)
	s.echo.Use(prom.HandlerFunc)
	prom.SetMetricsPath(metrics)
	return metrics
}
