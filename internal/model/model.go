// Package model defines the wire data types that flow through the crawler:
// input Records, queued Jobs, and output ProbeResults.
package model

import (
	"strconv"

	"github.com/ecnspider/ecnspider/pkg/netutil"
)

// ECNMode mirrors /proc/sys/net/ipv4/tcp_ecn's three valid values.
type ECNMode int

const (
	ECNNever ECNMode = iota
	ECNAlways
	ECNOnDemand
)

func (m ECNMode) String() string {
	switch m {
	case ECNNever:
		return "never"
	case ECNAlways:
		return "always"
	case ECNOnDemand:
		return "on_demand"
	default:
		return "unknown"
	}
}

// Sysctl returns the integer value sysctl expects for net.ipv4.tcp_ecn.
func (m ECNMode) Sysctl() int {
	switch m {
	case ECNNever:
		return 0
	case ECNAlways:
		return 1
	case ECNOnDemand:
		return 2
	default:
		return 2
	}
}

// ECNModeFromSysctl maps a sysctl integer value back to an ECNMode.
func ECNModeFromSysctl(v int) (ECNMode, bool) {
	switch v {
	case 0:
		return ECNNever, true
	case 1:
		return ECNAlways, true
	case 2:
		return ECNOnDemand, true
	default:
		return 0, false
	}
}

// Record is one input row: {rank, domain, ipv4, ipv6}. Exactly one row per
// domain; ipv4/ipv6 may be empty, but rows with neither populated are
// silently dropped by the filler.
type Record struct {
	Rank   int
	Domain string
	IPv4   string
	IPv6   string
}

// Job is one queue element: a single (domain, ip) pair ready to be dialed.
// IPv6 addresses are bracket-wrapped so downstream code can distinguish
// them textually from IPv4.
type Job struct {
	Rank   int
	Domain string
	IP     string
}

// IsIPv6 reports whether j.IP is bracket-wrapped IPv6 literal notation.
func (j Job) IsIPv6() bool {
	return netutil.IsBracketedIPv6(j.IP)
}

// StrippedIP returns j.IP with surrounding brackets removed, if present.
func (j Job) StrippedIP() string {
	return netutil.UnwrapIPv6(j.IP)
}

// ProbeResult is one output row: 21 fixed-order fields. Unused fields carry
// their Go zero value and are never omitted. On marshal, zero timestamps
// and status codes render as the empty string; rank and the two port
// fields render as numbers, so a port with no socket opened is "0".
type ProbeResult struct {
	RecordTime float64
	Rank       int
	Domain     string
	IP         string

	EoffErr        string
	PortEoff       int
	EonErr         string
	PortEon        int
	PreConnEoffTime  float64
	PostConnEoffTime float64
	PreConnEonTime   float64
	PostConnEonTime  float64

	PreReqTime   float64
	InterReqTime float64
	PostReqTime  float64

	HTTPErrEoff  string
	StatusEoff   int // 0 means "not recorded"
	HeadersEoff  string

	HTTPErrEon string
	StatusEon  int
	HeadersEon string
}

func formatTime(t float64) string {
	if t == 0 {
		return ""
	}
	return strconv.FormatFloat(t, 'f', 6, 64)
}

func formatStatus(code int) string {
	if code == 0 {
		return ""
	}
	return strconv.Itoa(code)
}

// MarshalCSVRow renders the result as the 21-column row spec.md §6 requires,
// in exact column order.
func (r ProbeResult) MarshalCSVRow() []string {
	return []string{
		formatTime(r.RecordTime),
		strconv.Itoa(r.Rank),
		r.Domain,
		r.IP,
		r.EoffErr,
		strconv.Itoa(r.PortEoff),
		r.EonErr,
		strconv.Itoa(r.PortEon),
		formatTime(r.PreConnEoffTime),
		formatTime(r.PostConnEoffTime),
		formatTime(r.PreConnEonTime),
		formatTime(r.PostConnEonTime),
		formatTime(r.PreReqTime),
		formatTime(r.InterReqTime),
		formatTime(r.PostReqTime),
		r.HTTPErrEoff,
		formatStatus(r.StatusEoff),
		r.HeadersEoff,
		r.HTTPErrEon,
		formatStatus(r.StatusEon),
		r.HeadersEon,
	}
}

// RetryRow renders the rank/domain/ipv4/ipv6 retry CSV row for this job's IP,
// placing the address in the family-matching column and leaving the other
// column empty, per spec.md §4.5.
func RetryRow(rank int, domain, ip string) []string {
	job := Job{Rank: rank, Domain: domain, IP: ip}
	if job.IsIPv6() {
		return []string{strconv.Itoa(rank), domain, "", job.StrippedIP()}
	}
	return []string{strconv.Itoa(rank), domain, job.StrippedIP(), ""}
}
