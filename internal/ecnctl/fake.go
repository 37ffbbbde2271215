package ecnctl

import (
	"sync"

	"github.com/ecnspider/ecnspider/internal/model"
)

// FakeController is an in-memory Controller for tests: no sudo, no kernel,
// just a mutex-guarded variable. SetCalls records every mode passed to Set,
// in order, so tests can assert on the controller's barrier-cycle sequence.
type FakeController struct {
	mu       sync.Mutex
	mode     model.ECNMode
	SetCalls []model.ECNMode
	SetErr   error
	GetErr   error
}

// NewFakeController returns a FakeController starting at the given mode.
func NewFakeController(initial model.ECNMode) *FakeController {
	return &FakeController{mode: initial}
}

func (f *FakeController) Get() (model.ECNMode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetErr != nil {
		return 0, f.GetErr
	}
	return f.mode, nil
}

func (f *FakeController) Set(mode model.ECNMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetErr != nil {
		return f.SetErr
	}
	f.mode = mode
	f.SetCalls = append(f.SetCalls, mode)
	return nil
}
