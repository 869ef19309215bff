package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/dual-led/internal/pattern"
)

func testConfig() Config {
	return Config{
		Name:        "led",
		Chip:        "gpiochip0",
		PinA:        13,
		PinB:        14,
		Colors:      [2]string{"RED", "GREEN"},
		DefaultFreq: 3.0,
		Broker:      "tcp://localhost:1883",
		HTTPAddr:    ":8080",
	}
}

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(start, testConfig())

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Descriptor != "OFF" {
		t.Errorf("initial descriptor: got %q, want OFF", snap.Descriptor)
	}
	if snap.Config.Broker != "tcp://localhost:1883" {
		t.Errorf("Config.Broker: got %q", snap.Config.Broker)
	}
	if snap.MQTTConnected {
		t.Error("MQTTConnected should start false")
	}
}

func TestRecordChange(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())

	tr.RecordChange(
		pattern.State{Kind: pattern.Blinking, Color: "RED", Freq: 5},
		"RED",
		map[string]bool{"RED": true, "GREEN": false},
	)

	snap := tr.Snapshot()
	if snap.Descriptor != "BLINK:RED:5Hz" {
		t.Errorf("descriptor: got %q", snap.Descriptor)
	}
	if snap.Primary != "RED" {
		t.Errorf("primary: got %q", snap.Primary)
	}
	if !snap.Levels["RED"] || snap.Levels["GREEN"] {
		t.Errorf("levels: got %v", snap.Levels)
	}
	if snap.Counts.Blink != 1 {
		t.Errorf("blink count: got %d, want 1", snap.Counts.Blink)
	}
}

func TestRecordChangeCountsByKind(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())

	levels := map[string]bool{"RED": false, "GREEN": false}
	tr.RecordChange(pattern.State{Kind: pattern.On, Color: "RED"}, "RED", levels)
	tr.RecordChange(pattern.State{Kind: pattern.On, Color: "GREEN"}, "RED", levels)
	tr.RecordChange(pattern.State{Kind: pattern.Off}, "RED", levels)
	tr.RecordChange(pattern.State{Kind: pattern.Alternating, Freq: 3}, "RED", levels)
	tr.RecordChange(pattern.State{Kind: pattern.Counting, Color: "RED", Count: 3, Freq: 5}, "RED", levels)

	counts := tr.Snapshot().Counts
	if counts.On != 2 || counts.Off != 1 || counts.Alternate != 1 || counts.Count != 1 || counts.Blink != 0 {
		t.Errorf("unexpected counts: %+v", counts)
	}
}

func TestSetMQTTConnected(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())

	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected connected")
	}
	tr.SetMQTTConnected(false)
	if tr.Snapshot().MQTTConnected {
		t.Error("expected disconnected")
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Now().Add(-90 * time.Second)
	tr := NewTracker(start, testConfig())

	up := tr.Snapshot().Uptime()
	if up < 89*time.Second || up > 92*time.Second {
		t.Errorf("uptime: got %v, want ~90s", up)
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.RecordChange(
					pattern.State{Kind: pattern.On, Color: "RED"},
					"RED",
					map[string]bool{"RED": true, "GREEN": false},
				)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = tr.Snapshot()
			}
		}()
	}
	wg.Wait()

	if tr.Snapshot().Counts.On != 1000 {
		t.Errorf("on count: got %d, want 1000", tr.Snapshot().Counts.On)
	}
}

func TestFormatJSON(t *testing.T) {
	tr := NewTracker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), testConfig())
	tr.RecordChange(
		pattern.State{Kind: pattern.On, Color: "GREEN"},
		"RED",
		map[string]bool{"RED": false, "GREEN": true},
	)

	data := FormatJSON(tr.Snapshot())

	var decoded StatusJSON
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Status.Descriptor != "ON:GREEN" {
		t.Errorf("descriptor: %q", decoded.Status.Descriptor)
	}
	if decoded.Status.Colors["GREEN"] != "ON" || decoded.Status.Colors["RED"] != "OFF" {
		t.Errorf("colors: %v", decoded.Status.Colors)
	}
	if decoded.Status.Event != "" {
		t.Errorf("web JSON should not carry an event: %q", decoded.Status.Event)
	}
	if decoded.Status.Config.PinA != 13 || decoded.Status.Config.PinB != 14 {
		t.Errorf("config pins: %+v", decoded.Status.Config)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())

	data := FormatStatusEvent(tr.Snapshot(), "SHUTDOWN", "SIGTERM")

	var decoded StatusJSON
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Status.Event != "SHUTDOWN" {
		t.Errorf("event: %q", decoded.Status.Event)
	}
	if decoded.Status.Reason != "SIGTERM" {
		t.Errorf("reason: %q", decoded.Status.Reason)
	}
}
