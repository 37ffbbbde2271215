package barrier

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSemaphore_AcquireRelease(t *testing.T) {
	s := NewSemaphore(2)
	require.Equal(t, 2, s.Len())
	s.Acquire()
	require.Equal(t, 1, s.Len())
	require.NoError(t, s.Release())
	require.Equal(t, 2, s.Len())
}

func TestSemaphore_ReleaseOverflow(t *testing.T) {
	s := NewSemaphore(1)
	require.ErrorIs(t, s.Release(), ErrSemaphoreOverflow)
}

func TestSemaphore_Drain(t *testing.T) {
	s := NewSemaphore(3)
	require.Equal(t, 3, s.Drain())
	require.Equal(t, 0, s.Len())
	require.Equal(t, 0, s.Drain())
}

func TestSemaphore_AcquireNReleaseN(t *testing.T) {
	s := NewSemaphore(5)
	s.Drain()
	require.NoError(t, s.ReleaseN(5))
	s.AcquireN(5)
	require.Equal(t, 0, s.Len())
}

func TestSemaphore_AcquireBlocksUntilRelease(t *testing.T) {
	s := NewSemaphore(1)
	s.Drain()

	acquired := make(chan struct{})
	go func() {
		s.Acquire()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("Acquire returned before any Release")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, s.Release())

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("Acquire did not unblock after Release")
	}
}

func TestSemaphore_ConcurrentUse(t *testing.T) {
	s := NewSemaphore(4)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Acquire()
			time.Sleep(time.Millisecond)
			_ = s.Release()
		}()
	}
	wg.Wait()
	require.Equal(t, 4, s.Len())
}

func TestNewCycle_StartsDrained(t *testing.T) {
	c := NewCycle(3)
	require.Equal(t, 0, c.Off.Len())
	require.Equal(t, 0, c.OnReady.Len())
	require.Equal(t, 0, c.On.Len())
	require.Equal(t, 0, c.OffReady.Len())
}
