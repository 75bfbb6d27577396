package bridge

import "time"

// Stats accounts for the bytes actually accepted or delivered by the transport.
type Stats struct {
	Start time.Time

	// Total bytes transferred in either direction.
	Total int64

	Written int64
	Read    int64

	// Retries counts "not ready" outcomes, Reconnects broken links.
	Retries    int
	Reconnects int

	// Calls holds the size of every successful transport call.
	Calls []int
}

func (s *Stats) add(n int, write bool) {
	s.Total += int64(n)
	if write {
		s.Written += int64(n)
	} else {
		s.Read += int64(n)
	}
	s.Calls = append(s.Calls, n)
}

func (s *Stats) Elapsed() time.Duration {
	return time.Since(s.Start)
}

// Throughput is the transfer rate in kB/s over elapsed.
func (s *Stats) Throughput(elapsed time.Duration) float64 {
	sec := elapsed.Seconds()
	if sec <= 0 {
		return 0
	}
	return float64(s.Total) / sec / 1000
}
