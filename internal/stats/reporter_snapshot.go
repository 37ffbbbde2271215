package stats

import "time"

// ReporterSnapshot is a point-in-time view of the numbers the periodic
// reporter logs: queue depth/utilization, completion/retry totals, the
// median per-worker inter-job interval, instantaneous and average
// throughput, and total runtime.
type ReporterSnapshot struct {
	QueueLen         int
	QueueCap         int
	Completed        int64
	Retries          int64
	MedianJobInterval float64 // seconds; -1 when no samples yet
	CurrentRate      float64 // jobs/sec since previous tick
	AverageRate      float64 // jobs/sec since start
	Runtime          time.Duration
}

// QueueUtilizationPct returns queue length as a percentage of capacity.
func (s ReporterSnapshot) QueueUtilizationPct() float64 {
	if s.QueueCap <= 0 {
		return 0
	}
	return float64(s.QueueLen) / float64(s.QueueCap) * 100
}
