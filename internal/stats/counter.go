package stats

import "sync/atomic"

// Counter is a thread-safe monotonically adjustable counter, used for the
// completed-jobs and scheduled-retries totals shared across every worker
// goroutine and the reporter.
type Counter struct {
	value atomic.Int64
}

// Incr adds delta (default 1 semantics handled by callers) to the counter.
func (c *Counter) Incr(delta int64) int64 {
	return c.value.Add(delta)
}

// Value returns the counter's current value.
func (c *Counter) Value() int64 {
	return c.value.Load()
}
