// Package barrier implements the counted-semaphore barrier that lets a
// single controller goroutine flip a process-global kernel setting in
// lockstep with a fixed pool of worker goroutines.
package barrier

import "errors"

// ErrSemaphoreOverflow is returned by Release/ReleaseN when releasing a
// token would push the semaphore's count past its configured maximum.
var ErrSemaphoreOverflow = errors.New("barrier: release would exceed semaphore maximum")

// Semaphore is a bounded counting semaphore. It is safe for concurrent use.
// Acquire/Release operate on a single token; AcquireN/ReleaseN perform N
// sequential single-token operations — no all-or-nothing atomicity is
// required or provided, matching how the ECN barrier uses it.
type Semaphore struct {
	tokens chan struct{}
	max    int
}

// NewSemaphore creates a semaphore bounded to max tokens, with max tokens
// immediately available. Callers that want it to start empty should call
// Drain once after construction.
func NewSemaphore(max int) *Semaphore {
	if max < 0 {
		max = 0
	}
	s := &Semaphore{
		tokens: make(chan struct{}, max),
		max:    max,
	}
	for i := 0; i < max; i++ {
		s.tokens <- struct{}{}
	}
	return s
}

// Acquire blocks until a token is available.
func (s *Semaphore) Acquire() {
	<-s.tokens
}

// AcquireN acquires n tokens, one at a time.
func (s *Semaphore) AcquireN(n int) {
	for i := 0; i < n; i++ {
		s.Acquire()
	}
}

// Release makes one token available. It returns ErrSemaphoreOverflow if the
// semaphore is already at its maximum — this indicates a programming error
// in the barrier protocol, since well-behaved callers never over-release.
func (s *Semaphore) Release() error {
	select {
	case s.tokens <- struct{}{}:
		return nil
	default:
		return ErrSemaphoreOverflow
	}
}

// ReleaseN releases n tokens, one at a time, stopping at the first error.
func (s *Semaphore) ReleaseN(n int) error {
	for i := 0; i < n; i++ {
		if err := s.Release(); err != nil {
			return err
		}
	}
	return nil
}

// Drain non-blockingly consumes every currently available token and
// reports how many it removed.
func (s *Semaphore) Drain() int {
	n := 0
	for {
		select {
		case <-s.tokens:
			n++
		default:
			return n
		}
	}
}

// Len reports the number of tokens currently available.
func (s *Semaphore) Len() int {
	return len(s.tokens)
}
