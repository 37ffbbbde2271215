// Package metrics exposes the crawler's internal counters to Prometheus,
// in addition to the zerolog/CSV reporting the rest of the engine already
// does. It is purely additive: nothing in the engine depends on metrics
// being scraped, and the HTTP endpoint is only started when --metrics-addr
// is set.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles every metric the crawler publishes.
type Registry struct {
	JobsCompleted   prometheus.Counter
	RetriesScheduled prometheus.Counter
	QueueDepth      prometheus.Gauge
	ProbeDuration   *prometheus.HistogramVec

	reg *prometheus.Registry
}

// NewRegistry constructs and registers every metric against a fresh,
// process-local registry (not the global default, so tests can construct
// as many Registries as they like without collector-already-registered
// panics).
func NewRegistry() *Registry {
	r := &Registry{reg: prometheus.NewRegistry()}

	r.JobsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ecnspider_jobs_completed_total",
		Help: "Total number of jobs the crawler has finished probing.",
	})
	r.RetriesScheduled = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ecnspider_retries_scheduled_total",
		Help: "Total number of jobs scheduled for retry.",
	})
	r.QueueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ecnspider_queue_depth",
		Help: "Current number of jobs waiting in the queue.",
	})
	r.ProbeDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ecnspider_probe_duration_seconds",
		Help:    "Duration of each probe phase.",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})

	r.reg.MustRegister(r.JobsCompleted, r.RetriesScheduled, r.QueueDepth, r.ProbeDuration)
	return r
}

// ObservePhase records how long a named probe phase (connect_eoff,
// connect_eon, request_eoff, request_eon) took.
func (r *Registry) ObservePhase(phase string, d time.Duration) {
	r.ProbeDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// Serve starts an HTTP server exposing /metrics on addr and blocks until ctx
// is cancelled, then shuts the server down gracefully.
func (r *Registry) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics: server exited: %w", err)
	}
}
