package pattern

import "time"

// FakeScheduler is a test double that records armed timers and lets tests
// fire them manually.
type FakeScheduler struct {
	// Timers contains every timer ever armed, in order.
	Timers []*FakeTimer
}

// FakeTimer is a timer armed on a FakeScheduler.
type FakeTimer struct {
	// Interval is the periodic interval or one-shot delay.
	Interval time.Duration

	// Periodic distinguishes periodic timers from one-shots.
	Periodic bool

	// Stopped tracks if Stop was called.
	Stopped bool

	fn func()
}

// NewFakeScheduler creates an empty FakeScheduler.
func NewFakeScheduler() *FakeScheduler {
	return &FakeScheduler{}
}

// Periodic records a periodic timer.
func (s *FakeScheduler) Periodic(interval time.Duration, fn func()) Timer {
	t := &FakeTimer{Interval: interval, Periodic: true, fn: fn}
	s.Timers = append(s.Timers, t)
	return t
}

// Once records a one-shot timer.
func (s *FakeScheduler) Once(delay time.Duration, fn func()) Timer {
	t := &FakeTimer{Interval: delay, fn: fn}
	s.Timers = append(s.Timers, t)
	return t
}

// Live returns the timers that have not been stopped.
func (s *FakeScheduler) Live() []*FakeTimer {
	var live []*FakeTimer
	for _, t := range s.Timers {
		if !t.Stopped {
			live = append(live, t)
		}
	}
	return live
}

// Stop marks the timer stopped. Like the real scheduler it does not
// retroactively affect a firing already in progress.
func (t *FakeTimer) Stop() {
	t.Stopped = true
}

// Fire invokes the timer callback as the timer service would. Tests may fire
// a stopped timer to model a callback already in flight during cancellation;
// the controller's generation guard must make such firings inert.
func (t *FakeTimer) Fire() {
	t.fn()
}

// FireN fires the timer n times.
func (t *FakeTimer) FireN(n int) {
	for i := 0; i < n; i++ {
		t.Fire()
	}
}
