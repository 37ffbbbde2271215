// Package netutil holds small, dependency-free network helpers shared by
// the crawler: a ulimit sanity check and IPv6 literal bracket handling.
// DNS resolution is deliberately absent — the crawler's input already
// supplies literal IPs, per spec.
package netutil

import (
	"fmt"
	"syscall"
)

// CheckUlimitWarning inspects the soft RLIMIT_NOFILE and returns a warning
// if the requested number of simultaneous connections appears to exceed
// it. Each worker can hold up to two sockets open at once (one per ECN
// half), so callers should pass workers*2. If the limit cannot be read it
// returns nil. It relies on syscall.Getrlimit, so it builds only on
// Unix-like platforms.
func CheckUlimitWarning(requestedConns int) error {
	if requestedConns <= 0 {
		return nil
	}

	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		return nil
	}

	if uint64(requestedConns) > rLimit.Cur {
		return fmt.Errorf("requested connections (%d) exceed soft open-files limit (%d)", requestedConns, rLimit.Cur)
	}

	return nil
}
