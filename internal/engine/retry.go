package engine

import "github.com/ecnspider/ecnspider/internal/netprobe"

// noRetry is the set of permanent, non-transient error strings: retrying a
// probe that failed with one of these on both halves buys nothing.
var noRetry = map[string]bool{
	"":                          true, // no error at all
	netprobe.ErrInvalidArgument: true,
	netprobe.ErrPermission:      true,
}

// isRetryable reports whether a probe pair with the given off/on error
// strings should be scheduled for another run: it is retryable unless both
// halves are in noRetry.
func isRetryable(offErr, onErr string) bool {
	return !(noRetry[offErr] && noRetry[onErr])
}
