package engine

import (
	"context"
	"time"

	"github.com/ecnspider/ecnspider/internal/metrics"
	"github.com/ecnspider/ecnspider/internal/stats"
	"github.com/ecnspider/ecnspider/internal/ui"
	"github.com/rs/zerolog"
)

// reporterMinSleep and reporterMaxSleep bound the reporter's exponential
// backoff: it starts at one second and doubles each tick up to a two
// minute cap (spec §4.6).
const (
	reporterMinSleep = time.Second
	reporterMaxSleep = 120 * time.Second
)

// Reporter periodically logs queue depth, completion/retry totals, the
// median per-worker inter-job interval, instantaneous and average
// throughput, and total runtime. Unlike the original's bare time.sleep,
// the wait here is a select against ctx.Done() — the "recommended
// refinement" spec §9 calls out so shutdown isn't held hostage by a
// 120-second nap.
type Reporter struct {
	QueueCap  int
	Completed *stats.Counter
	Retries   *stats.Counter
	Intervals *stats.PercentileTracker
	Log       zerolog.Logger

	// Renderer additionally drives a terminal HUD. It defaults to a noop
	// renderer, so a Reporter is safe to use without one.
	Renderer ui.Renderer

	// Metrics is optional; when set, every snapshot also updates its
	// queue-depth gauge for the /metrics endpoint.
	Metrics *metrics.Registry

	queueLen func() int
	start    time.Time
}

// NewReporter builds a Reporter. queueLen reports the current queue length
// on demand, since Go channels don't expose it without a reference to the
// channel itself.
func NewReporter(queueLen func() int, queueCap int, completed, retries *stats.Counter, intervals *stats.PercentileTracker, log zerolog.Logger) *Reporter {
	return &Reporter{
		queueLen:  queueLen,
		QueueCap:  queueCap,
		Completed: completed,
		Retries:   retries,
		Intervals: intervals,
		Log:       log,
		Renderer:  ui.NewNoopRenderer(),
	}
}

// Run logs a snapshot on every tick until ctx is cancelled.
func (r *Reporter) Run(ctx context.Context) {
	r.start = time.Now()
	sleep := reporterMinSleep
	var lastCompleted int64
	var lastSnap stats.ReporterSnapshot

	for {
		select {
		case <-ctx.Done():
			r.Renderer.RenderFinal(lastSnap)
			return
		case <-time.After(sleep):
		}

		snap := r.snapshot(lastCompleted, sleep)
		lastCompleted = snap.Completed
		lastSnap = snap
		r.log(snap)
		r.Renderer.Render(snap)

		sleep *= 2
		if sleep > reporterMaxSleep {
			sleep = reporterMaxSleep
		}
	}
}

func (r *Reporter) snapshot(lastCompleted int64, elapsedSinceLastTick time.Duration) stats.ReporterSnapshot {
	completed := r.Completed.Value()
	runtime := time.Since(r.start)

	median := -1.0
	if m, ok := r.Intervals.PercentileLeft(50); ok {
		median = m
	}

	var currentRate float64
	if elapsedSinceLastTick > 0 {
		currentRate = float64(completed-lastCompleted) / elapsedSinceLastTick.Seconds()
	}
	var avgRate float64
	if runtime.Seconds() > 0 {
		avgRate = float64(completed) / runtime.Seconds()
	}

	queueLen := r.queueLen()
	if r.Metrics != nil {
		r.Metrics.QueueDepth.Set(float64(queueLen))
	}

	return stats.ReporterSnapshot{
		QueueLen:          queueLen,
		QueueCap:          r.QueueCap,
		Completed:         completed,
		Retries:           r.Retries.Value(),
		MedianJobInterval: median,
		CurrentRate:       currentRate,
		AverageRate:       avgRate,
		Runtime:           runtime,
	}
}

func (r *Reporter) log(s stats.ReporterSnapshot) {
	r.Log.Info().
		Int("queue_len", s.QueueLen).
		Float64("queue_util_pct", s.QueueUtilizationPct()).
		Int64("completed", s.Completed).
		Int64("retries", s.Retries).
		Float64("median_job_interval_s", s.MedianJobInterval).
		Float64("current_rate", s.CurrentRate).
		Float64("average_rate", s.AverageRate).
		Dur("runtime", s.Runtime).
		Msg("progress")
}
