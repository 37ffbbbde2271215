package engine

import (
	"context"

	"github.com/ecnspider/ecnspider/internal/barrier"
	"github.com/ecnspider/ecnspider/internal/ecnctl"
	"github.com/ecnspider/ecnspider/internal/model"
	"github.com/rs/zerolog"
)

// Controller is the barrier's sole privileged participant: it is the only
// goroutine that ever calls ecnctl.Controller.Set, and it drives the
// four-semaphore cycle described in spec §4.2. Workers never touch the
// kernel directly — giving that authority to exactly one goroutine is what
// makes the kernel flip race-free without any extra locking around sysctl.
type Controller struct {
	kernel  ecnctl.Controller
	cycle   *barrier.Cycle
	workers int
	log     zerolog.Logger
}

// NewController builds a Controller for the given barrier cycle and kernel
// control handle.
func NewController(kernel ecnctl.Controller, cycle *barrier.Cycle, workers int, log zerolog.Logger) *Controller {
	return &Controller{kernel: kernel, cycle: cycle, workers: workers, log: log}
}

// Run drives the barrier until ctx is cancelled. Each iteration is one full
// off/on cycle: flip to never, release workers for their off-connect, wait
// for them to finish, flip to always, release workers for their on-connect,
// wait for them to finish. On cancellation it releases W tokens on both
// ecn_off and ecn_on so that any worker still blocked mid-cycle can observe
// the shutdown and exit instead of hanging forever.
func (c *Controller) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			c.releaseStragglers()
			return
		default:
		}

		if err := c.kernel.Set(model.ECNNever); err != nil {
			c.log.Error().Err(err).Msg("controller: failed to disable ECN")
		}
		if err := c.cycle.Off.ReleaseN(c.workers); err != nil {
			c.log.Error().Err(err).Msg("controller: releasing ecn_off tokens")
		}
		c.cycle.OnReady.AcquireN(c.workers)

		if err := c.kernel.Set(model.ECNAlways); err != nil {
			c.log.Error().Err(err).Msg("controller: failed to enable ECN")
		}
		if err := c.cycle.On.ReleaseN(c.workers); err != nil {
			c.log.Error().Err(err).Msg("controller: releasing ecn_on tokens")
		}
		c.cycle.OffReady.AcquireN(c.workers)
	}
}

func (c *Controller) releaseStragglers() {
	_ = c.cycle.Off.ReleaseN(c.workers)
	_ = c.cycle.On.ReleaseN(c.workers)
}
