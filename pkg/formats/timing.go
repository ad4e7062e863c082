package formats

import "time"

// timedIndex resolves which entry of a looping timed sequence is active
// at the given elapsed playback time. The loop period is the sum of all
// durations and the phase within the current loop is elapsed mod period;
// the first entry whose cumulative span covers the phase is returned.
// Degenerate sequences (single entry, zero period) resolve to entry 0.
func timedIndex(durations []time.Duration, elapsed time.Duration) int {
	if len(durations) <= 1 {
		return 0
	}

	var period time.Duration
	for _, d := range durations {
		period += d
	}
	if period <= 0 {
		return 0
	}

	phase := elapsed % period
	if phase < 0 {
		phase += period
	}

	var accumulated time.Duration
	for i, d := range durations {
		accumulated += d
		if phase < accumulated {
			return i
		}
	}
	return len(durations) - 1
}
