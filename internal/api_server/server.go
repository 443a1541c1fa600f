package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/netfabric/capacity-planner/internal/analysis"
	"github.com/netfabric/capacity-planner/internal/config"
	handlers "github.com/netfabric/capacity-planner/internal/handlers/v1alpha1"
	"github.com/netfabric/capacity-planner/internal/service"
	"github.com/netfabric/capacity-planner/internal/store"
	"github.com/netfabric/capacity-planner/pkg/metrics"
	"github.com/netfabric/capacity-planner/pkg/middleware"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg      *config.Config
	store    store.Store
	manager  *analysis.Manager
	engine   *analysis.Engine
	listener net.Listener
}

// New returns a new instance of a capacity-planner server.
func New(
	cfg *config.Config,
	store store.Store,
	manager *analysis.Manager,
	engine *analysis.Engine,
	listener net.Listener,
) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		manager:  manager,
		engine:   engine,
		listener: listener,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "PUT", "POST", "DELETE", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	analysisService := service.NewAnalysisService(s.store, s.manager, s.engine)
	fabricService := service.NewFabricService(s.store, analysisService, s.cfg.Service.UplinkSpeedDefault)

	h := handlers.NewServiceHandler(fabricService, analysisService)
	h.RegisterRoutes(router)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}
