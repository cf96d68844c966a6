package game

import "time"

// FrameTimer measures the time between ticks.
type FrameTimer struct {
	last time.Time
	now  func() time.Time
}

// NewFrameTimer starts a timer at the current time.
func NewFrameTimer() *FrameTimer {
	return newFrameTimer(time.Now)
}

func newFrameTimer(now func() time.Time) *FrameTimer {
	return &FrameTimer{last: now(), now: now}
}

// Tick returns the time since the previous tick (or since the timer started).
func (t *FrameTimer) Tick() time.Duration {
	now := t.now()
	dt := now.Sub(t.last)
	t.last = now
	return dt
}
