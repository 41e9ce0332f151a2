package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kilianp07/avfleet/infra/logger"
)

// PromServer exposes Prometheus metrics over HTTP on a dedicated ServeMux so
// it never interferes with the fleet API handlers.
type PromServer struct {
	addr string
	log  logger.Logger
}

// NewPromServer creates a server listening on addr. A nil logger is replaced
// by NopLogger.
func NewPromServer(addr string, log logger.Logger) *PromServer {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &PromServer{addr: addr, log: log}
}

// Run serves /metrics until the provided context is canceled.
func (s *PromServer) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: s.addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("prom server shutdown: %v", err)
		}
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
