package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apifleet "github.com/gmahli/fsaas/api/fleet"
	"github.com/gmahli/fsaas/api/stream"
	"github.com/gmahli/fsaas/config"
	"github.com/gmahli/fsaas/core/auth"
	"github.com/gmahli/fsaas/core/fleet"
	coremetrics "github.com/gmahli/fsaas/core/metrics"
	"github.com/gmahli/fsaas/core/sim"
	"github.com/gmahli/fsaas/infra/logger"
	"github.com/gmahli/fsaas/infra/metrics"
	"github.com/gmahli/fsaas/infra/session"
	"github.com/gmahli/fsaas/internal/eventbus"
)

// Service wires the fleet store, auth, simulation engine, scenario runner
// and HTTP surface from the configuration.
type Service struct {
	Store  *fleet.Store
	Auth   *auth.Store
	Engine *sim.Engine
	Runner *sim.Runner

	bus         eventbus.EventBus
	hub         *stream.Hub
	server      *http.Server
	log         logger.Logger
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	sessions, err := session.NewFileStore(cfg.Auth.SessionPath)
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}
	authStore := auth.NewStore(auth.DemoRegistry(), sessions, logg)

	store := fleet.NewStore()
	store.SetVehicles(fleet.DemoFleet(time.Now()))

	var sinks []coremetrics.Sink
	promEnabled := cfg.Metrics.PrometheusEnabled
	promPort := cfg.Metrics.PrometheusPort
	if promEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket)
		sinks = append(sinks, sink)
	}
	var sink coremetrics.Sink
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	bus := eventbus.New()
	engine := sim.NewEngine(store, cfg.Engine, nil, nil, sink, bus, logger.New("engine"))
	runner := sim.NewRunner(store, cfg.Scenario, nil, sink, bus, logger.New("scenario"))
	hub := stream.NewHub(bus, logger.New("stream"))

	mux := http.NewServeMux()
	apifleet.New(store, authStore, runner, logger.New("api")).Register(mux)
	mux.Handle("GET /ws", hub)

	return &Service{
		Store:  store,
		Auth:   authStore,
		Engine: engine,
		Runner: runner,
		bus:    bus,
		hub:    hub,
		server: &http.Server{
			Addr:              cfg.API.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log:         logg,
		promEnabled: promEnabled,
		promPort:    promPort,
	}, nil
}

// Run starts the simulation loop and HTTP server and blocks until the
// context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	go s.Engine.Run(ctx)
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort, s.log); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(shutCtx)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.Runner.Close()
	s.hub.Close()
	return nil
}
