package engine

import (
	"bufio"
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/ecnspider/ecnspider/internal/barrier"
	"github.com/ecnspider/ecnspider/internal/ecnctl"
	"github.com/ecnspider/ecnspider/internal/model"
	"github.com/ecnspider/ecnspider/internal/stats"
	"github.com/stretchr/testify/require"
)

// recordingSink is a ResultSink fake that hands every row to the test on a
// channel instead of writing CSV.
type recordingSink struct {
	results chan model.ProbeResult
	retries chan string // domain of each retry row
}

func newRecordingSink(buf int) *recordingSink {
	return &recordingSink{
		results: make(chan model.ProbeResult, buf),
		retries: make(chan string, buf),
	}
}

func (s *recordingSink) WriteResult(r model.ProbeResult) error {
	s.results <- r
	return nil
}

func (s *recordingSink) WriteRetry(rank int, domain, ip string) error {
	s.retries <- domain
	return nil
}

// okServer accepts every connection and replies 200 OK to every request.
func okServer(t *testing.T) *net.TCPAddr {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	go func() {
		for {
			c, err := l.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				r := bufio.NewReader(c)
				for {
					if _, err := r.ReadString('\n'); err != nil {
						return
					}
					// drain the rest of the header block
					for {
						line, err := r.ReadString('\n')
						if err != nil || line == "\r\n" {
							break
						}
					}
					c.Write([]byte("HTTP/1.1 200 OK\r\nContent-Length: 0\r\nConnection: close\r\n\r\n"))
					return
				}
			}(c)
		}
	}()
	return l.Addr().(*net.TCPAddr)
}

// newTestHarness wires a barrier cycle for the given number of workers
// against a fake kernel controller, returning the pieces a scenario test
// drives directly. Callers that enqueue jobs directly must first mark them
// on the workers' shared Pending group, as the filler does.
func newTestHarness(t *testing.T, workers int, port int, fastFail bool) (*Controller, []*Worker, chan model.Job, *recordingSink, context.Context, context.CancelFunc) {
	t.Helper()
	cycle := barrier.NewCycle(workers)
	kernel := ecnctl.NewFakeController(model.ECNOnDemand)
	sink := newRecordingSink(workers * 4)
	completed := &stats.Counter{}
	retries := &stats.Counter{}
	intervals := stats.NewPercentileTracker()
	var pending sync.WaitGroup

	ctx, cancel := context.WithCancel(context.Background())
	controller := NewController(kernel, cycle, workers, nopLogger())

	ws := make([]*Worker, workers)
	queue := make(chan model.Job, 100)
	for i := range ws {
		ws[i] = &Worker{
			ID:        i,
			Queue:     queue,
			Cycle:     cycle,
			Timeout:   2 * time.Second,
			FastFail:  fastFail,
			Port:      port,
			Sink:      sink,
			Completed: completed,
			Retries:   retries,
			Intervals: intervals,
			Pending:   &pending,
			Log:       nopLogger(),
		}
	}
	return controller, ws, queue, sink, ctx, cancel
}

func TestScenario_S1_BothHalvesSucceed(t *testing.T) {
	addr := okServer(t)
	controller, workers, queue, sink, ctx, cancel := newTestHarness(t, 1, addr.Port, false)
	defer cancel()

	go controller.Run(ctx)
	go workers[0].Run(ctx)

	workers[0].Pending.Add(1)
	queue <- model.Job{Rank: 1, Domain: "a.test", IP: addr.IP.String()}

	select {
	case res := <-sink.results:
		require.Equal(t, 200, res.StatusEoff)
		require.Equal(t, 200, res.StatusEon)
		require.Empty(t, res.EoffErr)
		require.Empty(t, res.EonErr)
		require.NotZero(t, res.PortEoff)
		require.NotZero(t, res.PortEon)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for result row")
	}

	select {
	case <-sink.retries:
		t.Fatal("a fully successful probe must not produce a retry row")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestScenario_S2_TimeoutProducesRetry(t *testing.T) {
	cycle := barrier.NewCycle(1)
	kernel := ecnctl.NewFakeController(model.ECNOnDemand)
	sink := newRecordingSink(4)
	var pending sync.WaitGroup

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	controller := NewController(kernel, cycle, 1, nopLogger())

	queue := make(chan model.Job, 1)
	w := &Worker{
		Queue:     queue,
		Cycle:     cycle,
		Timeout:   1 * time.Nanosecond, // too short to ever complete a dial
		Port:      1,
		Sink:      sink,
		Completed: &stats.Counter{},
		Retries:   &stats.Counter{},
		Intervals: stats.NewPercentileTracker(),
		Pending:   &pending,
		Log:       nopLogger(),
	}

	go controller.Run(ctx)
	go w.Run(ctx)

	pending.Add(1)
	queue <- model.Job{Rank: 2, Domain: "b.test", IP: "127.0.0.1"}

	select {
	case res := <-sink.results:
		require.NotEmpty(t, res.EoffErr)
		require.NotEmpty(t, res.EonErr)
		require.Zero(t, res.PortEoff)
		require.Zero(t, res.PortEon)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for result row")
	}

	select {
	case domain := <-sink.retries:
		require.Equal(t, "b.test", domain)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a retry row for a transient timeout pair")
	}
}

func TestScenario_S4_FastFailSkipsOnConnect(t *testing.T) {
	cycle := barrier.NewCycle(1)
	kernel := ecnctl.NewFakeController(model.ECNOnDemand)
	sink := newRecordingSink(4)
	var pending sync.WaitGroup

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	controller := NewController(kernel, cycle, 1, nopLogger())

	queue := make(chan model.Job, 1)
	w := &Worker{
		Queue:     queue,
		Cycle:     cycle,
		Timeout:   1 * time.Nanosecond,
		FastFail:  true,
		Port:      1,
		Sink:      sink,
		Completed: &stats.Counter{},
		Retries:   &stats.Counter{},
		Intervals: stats.NewPercentileTracker(),
		Pending:   &pending,
		Log:       nopLogger(),
	}

	go controller.Run(ctx)
	go w.Run(ctx)

	pending.Add(1)
	queue <- model.Job{Rank: 4, Domain: "d.test", IP: "127.0.0.1"}

	select {
	case res := <-sink.results:
		require.NotEmpty(t, res.EoffErr)
		require.Equal(t, "no_attempt", res.EonErr)
		require.Equal(t, "no_attempt", res.HTTPErrEon)
		require.Equal(t, "no_attempt", res.HTTPErrEoff)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for result row")
	}
}

func TestScenario_S6_ManyJobsManyWorkers(t *testing.T) {
	if testing.Short() {
		t.Skip("scale scenario skipped in -short mode")
	}
	addr := okServer(t)
	const jobs, workerCount = 200, 5
	controller, workers, queue, sink, ctx, cancel := newTestHarness(t, workerCount, addr.Port, false)
	defer cancel()

	go controller.Run(ctx)
	for _, w := range workers {
		go w.Run(ctx)
	}

	workers[0].Pending.Add(jobs)
	go func() {
		for i := 0; i < jobs; i++ {
			queue <- model.Job{Rank: i, Domain: "many.test", IP: addr.IP.String()}
		}
	}()

	received := 0
	deadline := time.After(20 * time.Second)
	for received < jobs {
		select {
		case <-sink.results:
			received++
		case <-deadline:
			t.Fatalf("only received %d/%d results before deadline", received, jobs)
		}
	}
	require.Equal(t, jobs, received)
}
