package metrics

import (
	"net/http"

	"github.com/firesafe/estimator/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterStoreCollector exposes project and catalog gauges read from s on every scrape.
func RegisterStoreCollector(s store.Store) {
	prometheus.MustRegister(newProjectStatsCollector(s))
}

func NewPrometheusMetricsHandler() http.Handler {
	return promhttp.Handler()
}
