package engine

import (
	"context"
	"sync"
	"time"

	"github.com/ecnspider/ecnspider/internal/barrier"
	"github.com/ecnspider/ecnspider/internal/metrics"
	"github.com/ecnspider/ecnspider/internal/model"
	"github.com/ecnspider/ecnspider/internal/netprobe"
	"github.com/ecnspider/ecnspider/internal/stats"
	"github.com/rs/zerolog"
)

// idlePoll is how long a worker sleeps after finding the queue empty,
// before falling through to its mandatory barrier pass.
const idlePoll = 500 * time.Millisecond

// ResultSink receives one completed probe's output row and, when the pair
// is retryable, one retry row. Implemented by the CSV writers in
// production and by a recording fake in tests.
type ResultSink interface {
	WriteResult(model.ProbeResult) error
	WriteRetry(rank int, domain, ip string) error
}

// Worker is one of the W probe goroutines participating in the barrier. It
// must perform the full acquire/release sequence every iteration — with or
// without a real job — or the controller's token accounting drifts and the
// barrier deadlocks (spec §4.3, §9).
type Worker struct {
	ID          int
	Queue       <-chan model.Job
	Cycle       *barrier.Cycle
	Timeout     time.Duration
	FastFail    bool
	SaveHeaders bool
	// Port is the TCP port every probe connects to. Zero means
	// netprobe.DefaultPort (80); tests override it to point at a local
	// listener, since binding :80 requires root.
	Port        int
	Sink        ResultSink
	Completed   *stats.Counter
	Retries     *stats.Counter
	Intervals   *stats.PercentileTracker
	Pending     *sync.WaitGroup
	// Metrics is optional; a nil Metrics leaves every probe uninstrumented
	// for Prometheus (tests typically leave it unset).
	Metrics *metrics.Registry
	Log     zerolog.Logger

	lastJobAt time.Time
}

// Run executes iterations until ctx is cancelled. Cancellation is checked
// only at the top of the loop: an iteration that has started always
// completes its full barrier pass, and no new iteration starts once ctx is
// done.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		w.iterate()
	}
}

func (w *Worker) iterate() {
	job, hasJob := w.dequeue()
	port := w.Port
	if port == 0 {
		port = netprobe.DefaultPort
	}

	// Phase A — ECN off.
	w.Cycle.Off.Acquire()
	var offConn *netprobe.Conn
	var offErr string
	var preConnOff, postConnOff float64
	var portOff int
	if hasJob {
		preConnOff = now()
		offConn, offErr = netprobe.Dial(job.IP, port, w.Timeout)
		postConnOff = now()
		if offConn != nil {
			portOff = offConn.LocalPort
		}
		w.observePhase("connect_eoff", preConnOff, postConnOff)
	}

	// Handoff into phase B.
	_ = w.Cycle.OnReady.Release()
	w.Cycle.On.Acquire()

	// Phase B — ECN on.
	var onConn *netprobe.Conn
	var onErr string
	var preConnOn, postConnOn float64
	var portOn int
	if hasJob {
		if w.FastFail && offErr == netprobe.ErrTimeout {
			onErr = netprobe.ErrNoAttempt
		} else {
			preConnOn = now()
			onConn, onErr = netprobe.Dial(job.IP, port, w.Timeout)
			postConnOn = now()
			if onConn != nil {
				portOn = onConn.LocalPort
			}
			w.observePhase("connect_eon", preConnOn, postConnOn)
		}
	}

	_ = w.Cycle.OffReady.Release()

	if !hasJob {
		return
	}

	// Phase C — HTTP requests, outside the barrier. ECN-on request first.
	preReq := now()
	var httpErrOn, httpErrOff string
	var statusOn, statusOff int
	var headersOn, headersOff string

	if onConn != nil {
		resp, errName := netprobe.Request(onConn, job.Domain, w.SaveHeaders)
		onConn.Close()
		if errName != "" {
			httpErrOn = errName
		} else {
			statusOn = resp.Status
			headersOn = resp.Headers
		}
	} else {
		httpErrOn = netprobe.ErrNoAttempt
	}
	interReq := now()
	w.observePhase("request_eon", preReq, interReq)

	if offConn != nil {
		resp, errName := netprobe.Request(offConn, job.Domain, w.SaveHeaders)
		offConn.Close()
		if errName != "" {
			httpErrOff = errName
		} else {
			statusOff = resp.Status
			headersOff = resp.Headers
		}
	} else {
		httpErrOff = netprobe.ErrNoAttempt
	}
	postReq := now()
	w.observePhase("request_eoff", interReq, postReq)

	result := model.ProbeResult{
		RecordTime: now(),
		Rank:       job.Rank,
		Domain:     job.Domain,
		IP:         job.IP,

		EoffErr:          offErr,
		PortEoff:         portOff,
		EonErr:           onErr,
		PortEon:          portOn,
		PreConnEoffTime:  preConnOff,
		PostConnEoffTime: postConnOff,
		PreConnEonTime:   preConnOn,
		PostConnEonTime:  postConnOn,

		PreReqTime:   preReq,
		InterReqTime: interReq,
		PostReqTime:  postReq,

		HTTPErrEoff: httpErrOff,
		StatusEoff:  statusOff,
		HeadersEoff: headersOff,

		HTTPErrEon: httpErrOn,
		StatusEon:  statusOn,
		HeadersEon: headersOn,
	}

	if err := w.Sink.WriteResult(result); err != nil {
		w.Log.Error().Err(err).Str("domain", job.Domain).Msg("worker: writing result row")
	}

	if isRetryable(offErr, onErr) {
		w.Retries.Incr(1)
		if w.Metrics != nil {
			w.Metrics.RetriesScheduled.Inc()
		}
		if err := w.Sink.WriteRetry(job.Rank, job.Domain, job.IP); err != nil {
			w.Log.Error().Err(err).Str("domain", job.Domain).Msg("worker: writing retry row")
		}
	}

	w.Completed.Incr(1)
	if w.Metrics != nil {
		w.Metrics.JobsCompleted.Inc()
	}
	w.Pending.Done()
}

// observePhase records a probe phase's duration with the worker's metrics
// registry, if one is wired. pre/post are the now() timestamps bracketing
// the phase; a zero w.Metrics is a no-op, not a nil-pointer panic.
func (w *Worker) observePhase(phase string, pre, post float64) {
	if w.Metrics == nil {
		return
	}
	w.Metrics.ObservePhase(phase, time.Duration((post-pre)*float64(time.Second)))
}

// dequeue performs a non-blocking pull from the queue, recording the
// per-worker inter-job interval into the shared percentile tracker when a
// job is found, and sleeping briefly before the barrier pass when it is
// not.
func (w *Worker) dequeue() (model.Job, bool) {
	select {
	case job, ok := <-w.Queue:
		if !ok {
			time.Sleep(idlePoll)
			return model.Job{}, false
		}
		if !w.lastJobAt.IsZero() {
			w.Intervals.Append(time.Since(w.lastJobAt).Seconds())
		}
		w.lastJobAt = time.Now()
		return job, true
	default:
		time.Sleep(idlePoll)
		return model.Job{}, false
	}
}

func now() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}
