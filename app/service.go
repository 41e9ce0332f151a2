// Package app wires the simulation core to its infrastructure.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kilianp07/avfleet/api/vehicles"
	"github.com/kilianp07/avfleet/config"
	"github.com/kilianp07/avfleet/core/events"
	"github.com/kilianp07/avfleet/core/fleet"
	"github.com/kilianp07/avfleet/core/mission"
	"github.com/kilianp07/avfleet/infra/logger"
	"github.com/kilianp07/avfleet/infra/mqtt"
	"github.com/kilianp07/avfleet/internal/eventbus"
	"github.com/kilianp07/avfleet/metrics"
	"github.com/kilianp07/avfleet/simulator"
)

// Service owns the registry, mission control and the downstream sinks.
type Service struct {
	Registry *fleet.Registry
	Mission  *mission.Control

	cfg  *config.Config
	bus  *eventbus.Bus[any]
	sink metrics.Sink
	pub  mqtt.EventPublisher
	log  logger.Logger
}

// New creates a Service from the configuration, seeding the fleet when one is
// configured.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	bus := eventbus.New[any]()
	mc := mission.NewControl(logger.New("mission-control"), bus)
	reg := fleet.NewRegistry()

	if cfg.Fleet.Size > 0 {
		vs, err := simulator.GenerateFleet(cfg.Fleet)
		if err != nil {
			return nil, fmt.Errorf("generate fleet: %w", err)
		}
		for _, v := range vs {
			mc.Watch(v)
			if err := reg.Add(v); err != nil {
				return nil, fmt.Errorf("seed fleet: %w", err)
			}
		}
		logg.Infof("seeded fleet with %d vehicles", len(vs))
	}

	var sinks []metrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink metrics.Sink = metrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	var pub mqtt.EventPublisher
	if cfg.MQTT.Enabled {
		p, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		pub = p
	}

	return &Service{Registry: reg, Mission: mc, cfg: cfg, bus: bus, sink: sink, pub: pub, log: logg}, nil
}

// Start launches the background consumers and servers. Bus subscriptions are
// taken before Start returns, so no event raised afterwards is missed. It
// returns immediately; everything stops when the context is canceled.
func (s *Service) Start(ctx context.Context) {
	rec := metrics.NewRecorder(s.sink, s.bus, logger.New("metrics-recorder"))
	go rec.Run(ctx)
	if s.pub != nil {
		ch := s.bus.Subscribe()
		go s.forwardEvents(ctx, ch)
	}
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.NewPromServer(s.cfg.Metrics.PrometheusAddr, s.log).Run(ctx); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.cfg.API.Enabled {
		go s.serveAPI(ctx)
	}
	if s.cfg.Metrics.SnapshotIntervalSeconds > 0 {
		go s.snapshotLoop(ctx, time.Duration(s.cfg.Metrics.SnapshotIntervalSeconds)*time.Second)
	}
}

// forwardEvents mirrors vehicle events from the bus to the MQTT publisher.
func (s *Service) forwardEvents(ctx context.Context, ch <-chan any) {
	defer s.bus.Unsubscribe(ch)
	for {
		select {
		case e, ok := <-ch:
			if !ok {
				return
			}
			if ve, ok := e.(events.VehicleEvent); ok {
				if err := s.pub.PublishEvent(ve.Event); err != nil {
					s.log.Errorf("publish event: %v", err)
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *Service) snapshotLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.bus.Publish(events.SnapshotEvent{Stats: s.Registry.Statistics()})
		case <-ctx.Done():
			return
		}
	}
}

func (s *Service) serveAPI(ctx context.Context) {
	srv := &http.Server{Addr: s.cfg.API.Addr, Handler: vehicles.NewHandler(s.Registry)}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api shutdown: %v", err)
		}
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.log.Errorf("api server: %v", err)
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.pub != nil {
		return s.pub.Close()
	}
	return nil
}
