package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/firesafe/estimator/internal/store"
	"github.com/firesafe/estimator/pkg/metrics"
)

const readinessTimeout = 2 * time.Second

// MetricServer is the operator facing listener: prometheus scrapes and a
// readiness probe that checks the database answers.
type MetricServer struct {
	bindAddress string
	store       store.Store
	listener    net.Listener
}

func NewMetricServer(bindAddress string, listener net.Listener, s store.Store) *MetricServer {
	return &MetricServer{bindAddress: bindAddress, store: s, listener: listener}
}

// Router registers the store collector, so it must be called once per process.
func (m *MetricServer) Router() http.Handler {
	metrics.RegisterStoreCollector(m.store)

	router := chi.NewRouter()
	router.Handle("/metrics", metrics.NewPrometheusMetricsHandler())
	router.Get("/readyz", m.ready)
	return router
}

// ready reports 503 while the configuration table cannot be read. A missing
// configuration record is fine, estimates then use the built-in defaults.
func (m *MetricServer) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if _, err := m.store.Configuration().Get(ctx); err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		zap.S().Named("metrics_server").Warnw("readiness check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	_, _ = w.Write([]byte("ok"))
}

func (m *MetricServer) Run(ctx context.Context) error {
	srv := &http.Server{Addr: m.bindAddress, Handler: m.Router()}
	zap.S().Named("metrics_server").Infof("serving metrics: %s", m.bindAddress)
	return serve(ctx, "metrics_server", srv, m.listener)
}

// serve runs srv on listener until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, name string, srv *http.Server, listener net.Listener) error {
	go func() {
		<-ctx.Done()
		zap.S().Named(name).Infof("shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named(name).Info("server terminated")
	}()

	if err := srv.Serve(listener); err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
