package observability

import "time"

// Start returns the instant at which observation of a request began.
func Start() time.Time {
	return time.Now()
}

// ElapsedMillis returns the whole milliseconds elapsed since the given
// instant, clamped at zero. time.Since reads the monotonic clock carried by
// time.Now, so wall-clock adjustments cannot produce negative values.
func ElapsedMillis(since time.Time) int64 {
	elapsed := time.Since(since)
	if elapsed < 0 {
		return 0
	}
	return elapsed.Milliseconds()
}
