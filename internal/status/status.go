// Package status provides a thread-safe status tracker for the dual-led
// daemon. It is read by HTTP handlers and MQTT system payloads.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/dual-led/internal/pattern"
)

// Config contains daemon configuration for display.
type Config struct {
	Name        string
	Chip        string
	PinA        int
	PinB        int
	Colors      [2]string
	DefaultFreq float64
	Broker      string
	HTTPAddr    string
}

// TransitionCounts tallies pattern transitions by kind.
type TransitionCounts struct {
	Off       int
	On        int
	Blink     int
	Alternate int
	Count     int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Descriptor    string
	Primary       string
	Levels        map[string]bool
	Counts        TransitionCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Descriptor: "OFF",
			StartTime:  startTime,
			Config:     cfg,
		},
	}
}

// RecordChange notes a completed pattern transition.
// Called from the controller's change hook.
func (t *Tracker) RecordChange(st pattern.State, primary string, levels map[string]bool) {
	t.mu.Lock()
	t.snap.Descriptor = st.Descriptor()
	t.snap.Primary = primary
	t.snap.Levels = levels

	switch st.Kind {
	case pattern.Off:
		t.snap.Counts.Off++
	case pattern.On:
		t.snap.Counts.On++
	case pattern.Blinking:
		t.snap.Counts.Blink++
	case pattern.Alternating:
		t.snap.Counts.Alternate++
	case pattern.Counting:
		t.snap.Counts.Count++
	}
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
