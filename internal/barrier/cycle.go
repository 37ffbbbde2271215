package barrier

// Cycle bundles the four semaphores that sequence one ECN barrier cycle:
//
//	Off      — controller signals workers that ECN is off; safe to connect
//	OnReady  — workers signal controller that their off-connect finished
//	On       — controller signals workers that ECN is on; safe to connect
//	OffReady — workers signal controller that their on-connect finished
//
// All four are bounded to the worker count and start drained to zero, as
// required by the protocol: acquiring any of them before the controller's
// first release must block.
type Cycle struct {
	Off      *Semaphore
	OnReady  *Semaphore
	On       *Semaphore
	OffReady *Semaphore
}

// NewCycle constructs a Cycle sized for workers goroutines, with all four
// semaphores drained to zero.
func NewCycle(workers int) *Cycle {
	c := &Cycle{
		Off:      NewSemaphore(workers),
		OnReady:  NewSemaphore(workers),
		On:       NewSemaphore(workers),
		OffReady: NewSemaphore(workers),
	}
	c.Off.Drain()
	c.OnReady.Drain()
	c.On.Drain()
	c.OffReady.Drain()
	return c
}
