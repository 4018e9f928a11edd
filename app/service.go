// Package app wires configuration into a running plan service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/kilianp07/mealplan/api"
	"github.com/kilianp07/mealplan/app/plugins"
	"github.com/kilianp07/mealplan/config"
	"github.com/kilianp07/mealplan/core/audit"
	"github.com/kilianp07/mealplan/core/catalog"
	"github.com/kilianp07/mealplan/core/events"
	coremetrics "github.com/kilianp07/mealplan/core/metrics"
	coremon "github.com/kilianp07/mealplan/core/monitoring"
	"github.com/kilianp07/mealplan/core/planner"
	"github.com/kilianp07/mealplan/core/plans"
	"github.com/kilianp07/mealplan/infra/logger"
	"github.com/kilianp07/mealplan/infra/metrics"
	"github.com/kilianp07/mealplan/infra/monitoring"
	"github.com/kilianp07/mealplan/infra/mqtt"
	"github.com/kilianp07/mealplan/internal/eventbus"
)

// Service owns the stores, the planner and the HTTP server.
type Service struct {
	Plans   *plans.Service
	Catalog catalog.Store

	cfg      *config.Config
	backend  plugins.Backend
	audit    audit.Store
	notifier *mqtt.Notifier
	sink     coremetrics.PlanSink
	bus      *eventbus.Bus[events.PlanEvent]
	log      logger.Logger
	wg       sync.WaitGroup
}

// New creates a Service from the configuration. On error every resource
// opened so far is released.
func New(cfg *config.Config) (_ *Service, err error) {
	logger.SetGlobalLevel(cfg.Logging.Level)
	logg := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	s := &Service{cfg: cfg, bus: eventbus.NewBuffered[events.PlanEvent](64), log: logg}
	defer func() {
		if err != nil {
			_ = s.Close()
		}
	}()

	s.backend, err = plugins.NewBackend(cfg.Storage.Module())
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	s.Catalog = s.backend.Catalog

	s.sink, err = coremetrics.NewPlanSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sinks: %w", err)
	}

	p, err := planner.New(cfg.Planner, s.Catalog,
		planner.WithLogger(logger.New("planner")),
		planner.WithSink(s.sink),
	)
	if err != nil {
		return nil, err
	}
	s.Plans = plans.NewService(p, s.backend.Plans, s.bus, logger.New("plans"))

	if cfg.Audit.Enabled {
		if s.audit, err = audit.Open(cfg.Audit); err != nil {
			return nil, fmt.Errorf("audit store: %w", err)
		}
	}
	if cfg.MQTT.Enabled {
		if s.notifier, err = mqtt.NewNotifier(cfg.MQTT); err != nil {
			return nil, fmt.Errorf("mqtt notifier: %w", err)
		}
	}
	return s, nil
}

// Handler returns the API routes.
func (s *Service) Handler() http.Handler {
	return api.NewMux(api.Deps{
		Plans:   s.Plans,
		Catalog: s.Catalog,
		Audit:   s.audit,
		Token:   s.cfg.Server.Token,
	})
}

// Start subscribes the event consumers and launches them. Events published
// after Start returns reach every consumer. They stop when ctx is canceled.
func (s *Service) Start(ctx context.Context) {
	metrics.StartEventCollector(ctx, s.bus, s.sink)
	if s.audit != nil {
		sub := s.bus.Subscribe()
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			audit.Record(ctx, sub, s.bus, s.audit, logger.New("audit"))
		}()
	}
	if s.notifier != nil {
		sub := s.bus.Subscribe()
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.notifier.Run(ctx, sub, s.bus)
		}()
	}
}

// Run serves the API and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	defer coremon.Recover()
	s.Start(ctx)
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(s.cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Server.WriteTimeoutSeconds) * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Infof("serving API on %s", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Warnf("api server shutdown: %v", err)
	}
	return nil
}

// Close releases resources held by the service. Subscribers drain once the
// bus is closed.
func (s *Service) Close() error {
	if s.bus != nil {
		s.bus.Close()
	}
	s.wg.Wait()
	var errs []error
	if s.notifier != nil {
		s.notifier.Disconnect()
	}
	if s.audit != nil {
		errs = append(errs, s.audit.Close())
	}
	errs = append(errs, s.backend.Close())
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	coremon.Flush(2 * time.Second)
	return errors.Join(errs...)
}
