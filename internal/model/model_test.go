package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestECNMode_SysctlRoundTrip(t *testing.T) {
	for _, m := range []ECNMode{ECNNever, ECNAlways, ECNOnDemand} {
		got, ok := ECNModeFromSysctl(m.Sysctl())
		require.True(t, ok)
		require.Equal(t, m, got)
	}
}

func TestECNMode_FromSysctlInvalid(t *testing.T) {
	_, ok := ECNModeFromSysctl(7)
	require.False(t, ok)
}

func TestJob_IPv6Handling(t *testing.T) {
	j := Job{Rank: 1, Domain: "example.com", IP: "[2001:db8::1]"}
	require.True(t, j.IsIPv6())
	require.Equal(t, "2001:db8::1", j.StrippedIP())

	j4 := Job{Rank: 1, Domain: "example.com", IP: "93.184.216.34"}
	require.False(t, j4.IsIPv6())
	require.Equal(t, "93.184.216.34", j4.StrippedIP())
}

func TestProbeResult_MarshalCSVRow(t *testing.T) {
	r := ProbeResult{
		RecordTime: 1234.5,
		Rank:       1,
		Domain:     "example.com",
		IP:         "93.184.216.34",
		EoffErr:    "",
		PortEoff:   54321,
		StatusEoff: 200,
	}
	row := r.MarshalCSVRow()
	require.Len(t, row, 21)
	require.Equal(t, "example.com", row[2])
	require.Equal(t, "93.184.216.34", row[3])
	require.Equal(t, "54321", row[5])
	require.Equal(t, "200", row[16])
	// unused fields render empty, not "0"
	require.Equal(t, "", row[6])
	require.Equal(t, "", row[19])
}

func TestRetryRow_FamilySplit(t *testing.T) {
	row4 := RetryRow(3, "example.com", "93.184.216.34")
	require.Equal(t, []string{"3", "example.com", "93.184.216.34", ""}, row4)

	row6 := RetryRow(3, "example.com", "[2001:db8::1]")
	require.Equal(t, []string{"3", "example.com", "", "2001:db8::1"}, row6)
}
