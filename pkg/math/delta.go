package math

import "time"

// PerSecond scales a per-second rate by a tick delta.
func PerSecond(rate float32, dt time.Duration) float32 {
	return rate * float32(dt.Microseconds()) / 1e6
}
