// Package tcpdump provides the optional startup check that a packet
// capture process is running alongside the crawler, since a run without one
// produces CSV output but no packet trace to validate it against. The
// original tool did this with psutil by scanning the live process list for
// a tcpdump/dumpcap binary name; this does the equivalent with pgrep.
package tcpdump

import (
	"fmt"
	"os/exec"
)

// processNames are the capture-tool binaries checked for, in order.
var processNames = []string{"tcpdump", "dumpcap"}

// IsRunning reports whether any known packet-capture process is currently
// running. A false result is not itself fatal — callers decide whether to
// treat it as a hard error or a warning per --no-tcpdump-check.
func IsRunning() (bool, error) {
	for _, name := range processNames {
		cmd := exec.Command("pgrep", "-x", name)
		if err := cmd.Run(); err == nil {
			return true, nil
		} else if exitErr, ok := err.(*exec.ExitError); ok {
			if exitErr.ExitCode() == 1 {
				continue // pgrep found no matching process; try the next name
			}
			return false, fmt.Errorf("tcpdump: running pgrep for %s: %w", name, err)
		} else {
			return false, fmt.Errorf("tcpdump: invoking pgrep: %w", err)
		}
	}
	return false, nil
}
