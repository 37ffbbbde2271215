// Package ecnctl abstracts reading and writing the kernel's process-global
// net.ipv4.tcp_ecn setting, which the controller goroutine flips once per
// barrier cycle. Isolating it behind an interface is what makes the
// controller's cycling logic testable without root and without a real
// Linux network stack.
package ecnctl

import "github.com/ecnspider/ecnspider/internal/model"

// Controller reads and writes the kernel-wide ECN mode.
type Controller interface {
	Get() (model.ECNMode, error)
	Set(model.ECNMode) error
}
