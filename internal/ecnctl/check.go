package ecnctl

import (
	"fmt"

	"github.com/ecnspider/ecnspider/internal/model"
)

// CheckCapability verifies the process can both read and write the kernel
// ECN setting before a run starts: it records the current mode, cycles
// through never/always/on_demand, and restores the original value. This
// mirrors the original tool's check_ecn() fatal-startup check — a crawler
// that can't actually flip ECN should fail immediately, not after the queue
// has drained.
func CheckCapability(c Controller) error {
	original, err := c.Get()
	if err != nil {
		return fmt.Errorf("ecnctl: capability check: reading initial state: %w", err)
	}

	for _, mode := range []model.ECNMode{model.ECNNever, model.ECNAlways, model.ECNOnDemand} {
		if err := c.Set(mode); err != nil {
			return fmt.Errorf("ecnctl: capability check: setting %s: %w", mode, err)
		}
		got, err := c.Get()
		if err != nil {
			return fmt.Errorf("ecnctl: capability check: reading back %s: %w", mode, err)
		}
		if got != mode {
			return fmt.Errorf("ecnctl: capability check: set %s but read back %s", mode, got)
		}
	}

	if err := c.Set(original); err != nil {
		return fmt.Errorf("ecnctl: capability check: restoring original state %s: %w", original, err)
	}
	return nil
}
