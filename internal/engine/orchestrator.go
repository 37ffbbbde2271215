package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"github.com/ecnspider/ecnspider/internal/barrier"
	"github.com/ecnspider/ecnspider/internal/config"
	"github.com/ecnspider/ecnspider/internal/csvio"
	"github.com/ecnspider/ecnspider/internal/ecnctl"
	"github.com/ecnspider/ecnspider/internal/metrics"
	"github.com/ecnspider/ecnspider/internal/model"
	"github.com/ecnspider/ecnspider/internal/stats"
	"github.com/ecnspider/ecnspider/internal/tcpdump"
	"github.com/ecnspider/ecnspider/internal/ui"
	"github.com/ecnspider/ecnspider/pkg/netutil"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// ErrKernelCapability is returned (wrapped) by Run when the startup ECN
// capability check fails, so callers can detect that case with errors.Is.
// The CLI exits with status 1 for it, as for every other error.
var ErrKernelCapability = errors.New("kernel ECN capability check failed")

// Orchestrator wires the filler, controller, worker pool, and reporter
// together and drives the crawl's startup and shutdown sequence (spec
// §4.7).
type Orchestrator struct {
	cfg    config.Config
	kernel ecnctl.Controller
	log    zerolog.Logger
}

// NewOrchestrator constructs an Orchestrator for the given config and
// kernel-control handle. Passing the kernel handle explicitly (rather than
// reaching for a package-level sudo-backed singleton) is what lets tests
// drive a full run against ecnctl.FakeController.
func NewOrchestrator(cfg config.Config, kernel ecnctl.Controller, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{cfg: cfg, kernel: kernel, log: log}
}

// Run executes one full crawl: startup checks, the worker pool, and
// shutdown. It returns a non-nil error for any fatal-startup condition
// (spec §7d); probe-level failures never reach this far up the stack.
func (o *Orchestrator) Run(ctx context.Context) error {
	runID := uuid.NewString()
	log := o.log.With().Str("run_id", runID).Logger()
	log.Info().Str("os", runtime.GOOS).Str("arch", runtime.GOARCH).Str("go", runtime.Version()).Msg("ecnspider starting")

	if err := ecnctl.CheckCapability(o.kernel); err != nil {
		return fmt.Errorf("startup: %w: %w", ErrKernelCapability, err)
	}

	if err := netutil.CheckUlimitWarning(o.cfg.Workers * 2); err != nil {
		log.Warn().Err(err).Msg("startup: ulimit check")
	}

	if !o.cfg.NoTcpdumpCheck {
		running, err := tcpdump.IsRunning()
		if err != nil {
			return fmt.Errorf("startup: checking for packet capture process: %w", err)
		}
		if !running {
			return fmt.Errorf("startup: no packet capture process found (tcpdump/dumpcap); pass --no-tcpdump-check to skip this")
		}
	}

	inputFile, err := os.Open(o.cfg.InputPath)
	if err != nil {
		return fmt.Errorf("startup: opening input: %w", err)
	}
	defer inputFile.Close()

	outputFile, err := os.Create(o.cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("startup: creating output: %w", err)
	}
	defer outputFile.Close()

	retryFile, err := os.Create(o.cfg.RetryPath)
	if err != nil {
		return fmt.Errorf("startup: creating retry output: %w", err)
	}
	defer retryFile.Close()

	ui.PrintRunHeader(o.cfg.InputPath, o.cfg.OutputPath, o.cfg.RetryPath, o.cfg.LogPath, o.cfg.Workers, o.cfg.Timeout.String(), o.cfg.QueueSize)

	sink := &CSVSink{Output: csvio.NewWriter(outputFile), Retry: csvio.NewWriter(retryFile)}

	cycle := barrier.NewCycle(o.cfg.Workers)
	queue := make(chan model.Job, o.cfg.QueueSize)
	completed := &stats.Counter{}
	retries := &stats.Counter{}
	intervals := stats.NewPercentileTracker()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-runCtx.Done():
		}
	}()

	// The registry is always built and always fed, whether or not the HTTP
	// endpoint is serving it — metrics gathered but never scraped are no
	// different from a disconnected prometheus client in any other service.
	reg := metrics.NewRegistry()

	var metricsWG sync.WaitGroup
	if o.cfg.MetricsAddr != "" {
		metricsWG.Add(1)
		go func() {
			defer metricsWG.Done()
			if err := reg.Serve(runCtx, o.cfg.MetricsAddr); err != nil {
				log.Error().Err(err).Msg("metrics server exited with error")
			}
		}()
	}

	var pending sync.WaitGroup

	controller := NewController(o.kernel, cycle, o.cfg.Workers, log)
	reporter := NewReporter(func() int { return len(queue) }, o.cfg.QueueSize, completed, retries, intervals, log)
	reporter.Metrics = reg
	if isatty.IsTerminal(os.Stdout.Fd()) {
		reporter.Renderer = ui.NewRenderer()
	}
	filler := &Filler{Reader: csvio.NewRecordReader(inputFile, o.cfg.DebugCount), Queue: queue, NoIPv6: o.cfg.NoIPv6, Pending: &pending}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		controller.Run(runCtx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		reporter.Run(runCtx)
	}()

	workers := make([]*Worker, o.cfg.Workers)
	for i := range workers {
		workers[i] = &Worker{
			ID:          i,
			Queue:       queue,
			Cycle:       cycle,
			Timeout:     o.cfg.Timeout,
			FastFail:    o.cfg.FastFail,
			SaveHeaders: o.cfg.SaveHeaders,
			Sink:        sink,
			Completed:   completed,
			Retries:     retries,
			Intervals:   intervals,
			Pending:     &pending,
			Metrics:     reg,
			Log:         log,
		}
		wg.Add(1)
		go func(w *Worker) {
			defer wg.Done()
			w.Run(runCtx)
		}(workers[i])
	}

	// The filler runs to completion on the caller's goroutine: once the
	// input is exhausted and the queue drains, the crawl is done — there is
	// no other shutdown signal (spec §4.4, §4.7).
	fillErr := filler.Run()
	if fillErr != nil {
		log.Error().Err(fillErr).Msg("filler exited with error")
	}

	pending.Wait()
	cancel()
	wg.Wait()
	metricsWG.Wait()

	if err := o.kernel.Set(model.ECNOnDemand); err != nil {
		log.Error().Err(err).Msg("failed to restore ECN to on_demand at shutdown")
	}

	log.Info().Int64("completed", completed.Value()).Int64("retries", retries.Value()).Msg("ecnspider finished")
	return fillErr
}
