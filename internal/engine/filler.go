package engine

import (
	"fmt"
	"io"
	"sync"

	"github.com/ecnspider/ecnspider/internal/csvio"
	"github.com/ecnspider/ecnspider/internal/model"
	"github.com/ecnspider/ecnspider/pkg/netutil"
)

// Filler streams Records from the input CSV and enqueues one Job per
// populated address family. It is the queue's only producer and closes the
// queue when the input is exhausted; Run returning is the orchestrator's
// signal that the crawl's input side is done (spec §4.4, §4.7).
type Filler struct {
	Reader *csvio.RecordReader
	Queue  chan<- model.Job
	NoIPv6 bool

	// Pending is marked Add(1) for every job enqueued; workers mark it
	// Done() once that job's result row is written. Waiting on it is the
	// Go equivalent of Python's Queue.join() — the orchestrator's signal
	// that the queue has truly drained, not merely emptied.
	Pending *sync.WaitGroup
}

// Run drains the reader into the queue, blocking on queue put as the
// system's only backpressure mechanism, then closes the queue.
func (f *Filler) Run() error {
	defer close(f.Queue)

	for {
		rec, err := f.Reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("filler: reading input: %w", err)
		}

		if rec.IPv4 != "" {
			f.Pending.Add(1)
			f.Queue <- model.Job{Rank: rec.Rank, Domain: rec.Domain, IP: rec.IPv4}
		}
		if rec.IPv6 != "" && !f.NoIPv6 {
			f.Pending.Add(1)
			f.Queue <- model.Job{Rank: rec.Rank, Domain: rec.Domain, IP: netutil.WrapIPv6(rec.IPv6)}
		}
	}
}
