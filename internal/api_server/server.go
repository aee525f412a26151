package apiserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/firesafe/estimator/internal/config"
	"github.com/firesafe/estimator/internal/estimation"
	handlers "github.com/firesafe/estimator/internal/handlers/v1alpha1"
	"github.com/firesafe/estimator/internal/service"
	"github.com/firesafe/estimator/internal/store"
	"github.com/firesafe/estimator/pkg/metrics"
	"github.com/firesafe/estimator/pkg/middleware"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
	uniqueClientsResetEvery = 24 * time.Hour
)

type Server struct {
	cfg      *config.Config
	store    store.Store
	listener net.Listener
}

// New returns a new instance of a firesafe api server.
func New(
	cfg *config.Config,
	store store.Store,
	listener net.Listener,
) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		listener: listener,
	}
}

// Router builds the handler tree. It is separate from Run so it can be served by httptest.
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.Service.CorsAllowedOrigins,
			AllowedMethods:   []string{"GET", "PUT", "POST", "DELETE", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	configSrv := service.NewConfigurationService(s.store)
	estimationSrv := service.NewEstimationService(configSrv, estimation.PackageType(s.cfg.Service.DefaultPackage))
	h := handlers.NewServiceHandler(
		estimationSrv,
		configSrv,
		service.NewProjectService(s.store, estimationSrv, s.cfg.Service.ProjectListLimit),
		service.NewReportService(),
	)
	h.Routes(router, metrics.UniqueClientsPerDay.Track(middleware.ClientIP))

	return router
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	ticker := time.NewTicker(uniqueClientsResetEvery)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UniqueClientsPerDay.Reset()
				zap.S().Named("api_server").Info("daily unique clients metric reset")
			case <-ctx.Done():
				return
			}
		}
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	srv := &http.Server{Addr: s.cfg.Service.Address, Handler: s.Router()}
	return serve(ctx, "api_server", srv, s.listener)
}
