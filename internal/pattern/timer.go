package pattern

import (
	"sync"
	"time"
)

// Timer is a handle to a scheduled callback. Stop prevents future firings;
// it never blocks waiting for a callback that is already running, so it is
// safe to call from inside a callback.
type Timer interface {
	Stop()
}

// Scheduler arms periodic and one-shot timers. The controller owns at most
// one live timer at any instant.
type Scheduler interface {
	// Periodic invokes fn every interval until the returned timer is stopped.
	Periodic(interval time.Duration, fn func()) Timer

	// Once invokes fn once after delay, unless stopped first.
	Once(delay time.Duration, fn func()) Timer
}

// TickScheduler implements Scheduler on the runtime timer service.
type TickScheduler struct{}

// NewTickScheduler creates a scheduler backed by time.Ticker and
// time.AfterFunc.
func NewTickScheduler() *TickScheduler {
	return &TickScheduler{}
}

// Periodic runs fn on a ticker goroutine until stopped.
func (s *TickScheduler) Periodic(interval time.Duration, fn func()) Timer {
	t := &tickTimer{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-t.done:
				return
			case <-t.ticker.C:
				fn()
			}
		}
	}()
	return t
}

// Once arms a one-shot timer.
func (s *TickScheduler) Once(delay time.Duration, fn func()) Timer {
	return &onceTimer{t: time.AfterFunc(delay, fn)}
}

type tickTimer struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *tickTimer) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}

type onceTimer struct {
	t *time.Timer
}

func (t *onceTimer) Stop() {
	t.t.Stop()
}
