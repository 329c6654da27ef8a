package worker

import (
	"SwiftShare/config"
	"testing"
	"time"
)

func TestRetryDelay(t *testing.T) {
	config.AppConfig.ReclaimRetryDelays = []time.Duration{
		10 * time.Second, 30 * time.Second, 2 * time.Minute,
	}

	if got := retryDelay(0); got != 10*time.Second {
		t.Errorf("attempt 0: %v", got)
	}
	if got := retryDelay(2); got != 2*time.Minute {
		t.Errorf("attempt 2: %v", got)
	}
	// Past the schedule, the last delay repeats.
	if got := retryDelay(9); got != 2*time.Minute {
		t.Errorf("attempt 9: %v", got)
	}

	config.AppConfig.ReclaimRetryDelays = nil
	if got := retryDelay(0); got != 30*time.Second {
		t.Errorf("empty schedule fallback: %v", got)
	}
}
