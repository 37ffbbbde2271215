package stats

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCounter_IncrAndValue(t *testing.T) {
	var c Counter
	require.Equal(t, int64(0), c.Value())
	require.Equal(t, int64(1), c.Incr(1))
	require.Equal(t, int64(4), c.Incr(3))
	require.Equal(t, int64(4), c.Value())
}

func TestCounter_Concurrent(t *testing.T) {
	var c Counter
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Incr(1)
		}()
	}
	wg.Wait()
	require.Equal(t, int64(200), c.Value())
}

func TestPercentileTracker_Empty(t *testing.T) {
	p := NewPercentileTracker()
	_, ok := p.PercentileLeft(50)
	require.False(t, ok)
	require.Equal(t, 0, p.Len())
}

func TestPercentileTracker_Median(t *testing.T) {
	p := NewPercentileTracker()
	for _, v := range []float64{5, 1, 3, 2, 4} {
		p.Append(v)
	}
	require.Equal(t, 5, p.Len())
	median, ok := p.PercentileLeft(50)
	require.True(t, ok)
	require.Equal(t, float64(3), median)
}

func TestPercentileTracker_Bounds(t *testing.T) {
	p := NewPercentileTracker()
	p.Append(10)
	p.Append(20)
	lo, _ := p.PercentileLeft(-10)
	hi, _ := p.PercentileLeft(1000)
	require.Equal(t, float64(10), lo)
	require.Equal(t, float64(20), hi)
}

func TestReporterSnapshot_QueueUtilizationPct(t *testing.T) {
	s := ReporterSnapshot{QueueLen: 25, QueueCap: 100}
	require.InDelta(t, 25.0, s.QueueUtilizationPct(), 0.0001)

	zero := ReporterSnapshot{QueueLen: 5, QueueCap: 0}
	require.Equal(t, float64(0), zero.QueueUtilizationPct())
}
