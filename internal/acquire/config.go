package acquire

import "time"

// Config controls timing of an acquisition.
type Config struct {
	// RequestTimeout bounds each provider attempt. A timeout counts as a
	// failure for that index.
	RequestTimeout time.Duration

	// StartGrace, when positive, starts the acquisition automatically this
	// long after the first question is ready. Zero waits for Start or for
	// loading to finish.
	StartGrace time.Duration

	// AutoStartDelay is how long a fully loaded, unstarted acquisition
	// waits before starting itself.
	AutoStartDelay time.Duration
}

// DefaultConfig returns the standard timings.
func DefaultConfig() Config {
	return Config{
		RequestTimeout: 45 * time.Second,
		AutoStartDelay: 500 * time.Millisecond,
	}
}
