package game

import "time"

// SlidingWindow admits at most capacity events in any rolling window. It keeps
// the admitted timestamps most recent first; the slice length never changes.
type SlidingWindow struct {
	window time.Duration
	times  []time.Time
}

// NewSlidingWindow starts with every slot free.
func NewSlidingWindow(capacity int, window time.Duration) *SlidingWindow {
	if capacity < 1 {
		capacity = 1
	}
	return &SlidingWindow{window: window, times: make([]time.Time, capacity)}
}

// Allow admits the event at now if the oldest admitted event has left the
// window, evicting it and recording now at the front.
func (w *SlidingWindow) Allow(now time.Time) bool {
	last := len(w.times) - 1
	if !w.times[last].IsZero() && now.Sub(w.times[last]) < w.window {
		return false
	}
	copy(w.times[1:], w.times[:last])
	w.times[0] = now
	return true
}

// Capacity is the fixed number of timestamps held.
func (w *SlidingWindow) Capacity() int {
	return len(w.times)
}
