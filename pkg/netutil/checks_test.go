package netutil

import (
	"strings"
	"testing"
)

func TestCheckUlimitWarning_ZeroConnections(t *testing.T) {
	err := CheckUlimitWarning(0)
	if err != nil {
		t.Errorf("expected no error for 0 connections: %v", err)
	}
}

func TestCheckUlimitWarning_NegativeConnections(t *testing.T) {
	err := CheckUlimitWarning(-1)
	if err != nil {
		t.Errorf("expected no error for negative connections: %v", err)
	}
}

func TestCheckUlimitWarning_ReturnsErrorWhenOverLimit(t *testing.T) {
	// Request an unreasonably high number; on most systems this exceeds RLIMIT_NOFILE.
	err := CheckUlimitWarning(10_000_000)
	if err != nil {
		if !strings.Contains(err.Error(), "requested connections") || !strings.Contains(err.Error(), "exceed") {
			t.Errorf("unexpected error message: %v", err)
		}
		return
	}
	// A very high configured limit produces no error; that's acceptable too.
}

func TestCheckUlimitWarning_SmallRequest(t *testing.T) {
	_ = CheckUlimitWarning(10)
}

func TestIsBracketedIPv6(t *testing.T) {
	if !IsBracketedIPv6("[2001:db8::1]") {
		t.Error("expected bracketed literal to be recognized")
	}
	if IsBracketedIPv6("192.0.2.1") {
		t.Error("IPv4 literal must not be recognized as bracketed IPv6")
	}
}

func TestWrapUnwrapIPv6_RoundTrip(t *testing.T) {
	wrapped := WrapIPv6("2001:db8::1")
	if wrapped != "[2001:db8::1]" {
		t.Errorf("got %q", wrapped)
	}
	if WrapIPv6(wrapped) != wrapped {
		t.Error("wrapping an already-wrapped literal must be a no-op")
	}
	if UnwrapIPv6(wrapped) != "2001:db8::1" {
		t.Errorf("got %q", UnwrapIPv6(wrapped))
	}
	if UnwrapIPv6("192.0.2.1") != "192.0.2.1" {
		t.Error("unwrapping an IPv4 literal must be a no-op")
	}
}
