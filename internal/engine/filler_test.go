package engine

import (
	"strings"
	"sync"
	"testing"

	"github.com/ecnspider/ecnspider/internal/csvio"
	"github.com/ecnspider/ecnspider/internal/model"
	"github.com/stretchr/testify/require"
)

func drainFiller(t *testing.T, src string, noIPv6 bool) []model.Job {
	t.Helper()
	queue := make(chan model.Job, 100)
	var pending sync.WaitGroup
	f := &Filler{
		Reader:  csvio.NewRecordReader(strings.NewReader(src), 0),
		Queue:   queue,
		NoIPv6:  noIPv6,
		Pending: &pending,
	}
	require.NoError(t, f.Run())

	var jobs []model.Job
	for j := range queue {
		jobs = append(jobs, j)
	}
	return jobs
}

func TestFiller_ExpandsBothFamilies(t *testing.T) {
	jobs := drainFiller(t, "3,c.test,,2001:db8::1\n1,a.test,192.0.2.1,2001:db8::2\n", false)
	require.Len(t, jobs, 3)
	require.Equal(t, "[2001:db8::1]", jobs[0].IP)
	require.Equal(t, "192.0.2.1", jobs[1].IP)
	require.Equal(t, "[2001:db8::2]", jobs[2].IP)
}

func TestFiller_NoIPv6DropsV6Jobs(t *testing.T) {
	jobs := drainFiller(t, "3,c.test,,2001:db8::1\n1,a.test,192.0.2.1,2001:db8::2\n", true)
	require.Len(t, jobs, 1)
	require.Equal(t, "192.0.2.1", jobs[0].IP)
}

func TestFiller_DropsEmptyRows(t *testing.T) {
	jobs := drainFiller(t, "2,b.test,,\n", false)
	require.Empty(t, jobs)
}
