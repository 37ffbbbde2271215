package netprobe

import (
	"errors"
	"net"
	"os"
	"syscall"
)

// Canonical error strings, matching ecn_spider.py's E dict exactly so that
// output CSVs stay comparable across the two implementations and so
// isRetryable's NO_RETRY set lines up with what this package ever emits.
const (
	ErrTimeout         = "socket.timeout"
	ErrRefused         = "Connection refused"
	ErrNoRoute         = "No route to host"
	ErrInvalidArgument = "Invalid argument"
	ErrPermission      = "Permission denied"
	ErrUnreachable     = "Network is unreachable"
	ErrNoAttempt       = "no_attempt"
)

// errorName classifies err into one of the canonical strings above, falling
// back to err.Error() for anything unrecognized — mirroring setup_socket's
// except-chain: socket.timeout first, then OSError by errno, then the raw
// message.
func errorName(err error) string {
	if err == nil {
		return ""
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNREFUSED:
			return ErrRefused
		case syscall.EHOSTUNREACH:
			return ErrNoRoute
		case syscall.EINVAL:
			return ErrInvalidArgument
		case syscall.EACCES, syscall.EPERM:
			return ErrPermission
		case syscall.ENETUNREACH:
			return ErrUnreachable
		}
	}

	var pathErr *os.SyscallError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}

	return err.Error()
}
