package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedRoute labels requests that no route handled, so scanners probing
// random paths cannot blow up the label cardinality.
const unmatchedRoute = "unmatched"

// Estimates and exports are CPU bound and answer in a few milliseconds, the
// excel export is the slow end.
var latencyBuckets = []float64{5, 25, 100, 250, 1000, 5000}

// Middleware records request count, latency and in-flight requests per route pattern.
type Middleware struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// NewMiddleware returns an unregistered middleware whose series carry the server name.
func NewMiddleware(server string) *Middleware {
	constLabels := prometheus.Labels{"server": server}
	return &Middleware{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Subsystem:   firesafe,
			Name:        "http_requests_total",
			Help:        "Number of HTTP requests by status code, method and route.",
			ConstLabels: constLabels,
		}, []string{"code", "method", "route"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Subsystem:   firesafe,
			Name:        "http_request_duration_milliseconds",
			Help:        "Time spent serving HTTP requests by status code, method and route.",
			ConstLabels: constLabels,
			Buckets:     latencyBuckets,
		}, []string{"code", "method", "route"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Subsystem:   firesafe,
			Name:        "http_requests_in_flight",
			Help:        "Number of HTTP requests being served.",
			ConstLabels: constLabels,
		}),
	}
}

func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		labels := []string{strconv.Itoa(status), r.Method, routePattern(r)}
		m.requests.WithLabelValues(labels...).Inc()
		m.latency.WithLabelValues(labels...).Observe(float64(time.Since(start).Microseconds()) / 1000)
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return unmatchedRoute
}

// MustRegisterDefault registers the collectors with the default registry. Routers
// built again in the same process, as tests do, reuse the registered collectors.
func (m *Middleware) MustRegisterDefault() {
	m.requests = mustRegisterOrReuse(m.requests)
	m.latency = mustRegisterOrReuse(m.latency)
	m.inFlight = mustRegisterOrReuse(m.inFlight)
}

func mustRegisterOrReuse[T prometheus.Collector](c T) T {
	err := prometheus.Register(c)
	if err == nil {
		return c
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(T); ok {
			return existing
		}
	}
	panic(err)
}
