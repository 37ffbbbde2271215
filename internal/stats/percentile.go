package stats

import (
	"sort"
	"sync"
)

// PercentileTracker maintains a continually growing, always-sorted sequence
// of observations and answers percentile queries against it in O(1). An
// insert finds its position in O(log n) and then shifts the tail of the
// slice, so it costs O(n) overall. It is grounded on the original
// ecn_spider.py's BigPer, which uses bisect.insort_left under a lock; here
// the same shape is expressed with sort.Search for the insertion point.
type PercentileTracker struct {
	mu     sync.Mutex
	values []float64
}

// NewPercentileTracker returns an empty tracker.
func NewPercentileTracker() *PercentileTracker {
	return &PercentileTracker{}
}

// Append inserts value into the tracker, keeping it sorted.
func (p *PercentileTracker) Append(value float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := sort.SearchFloat64s(p.values, value)
	p.values = append(p.values, 0)
	copy(p.values[i+1:], p.values[i:])
	p.values[i] = value
}

// PercentileLeft returns the pth percentile (0 <= p <= 100) of the values
// seen so far, using floor-indexed selection — it always returns a value
// that was actually appended. Returns (0, false) if the tracker is empty.
func (p *PercentileTracker) PercentileLeft(pct float64) (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.values) == 0 {
		return 0, false
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	idx := int(float64(len(p.values)-1) * (pct / 100))
	return p.values[idx], true
}

// Len reports how many values have been appended.
func (p *PercentileTracker) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.values)
}
