// Package mqtt provides MQTT publishing and remote control with abstraction
// for testing.
package mqtt

import (
	"encoding/json"
	"time"
)

// StateTopic is the retained topic carrying the current state descriptor.
func StateTopic(name string) string {
	return "home/led/" + name + "/state"
}

// SetTopic is the command topic; payloads are state descriptors.
func SetTopic(name string) string {
	return "home/led/" + name + "/set"
}

// SystemTopic carries system lifecycle events.
func SystemTopic(name string) string {
	return "home/led/" + name + "/system"
}

// Publisher publishes LED state to MQTT.
type Publisher interface {
	// PublishState sends the current state to the broker as a retained
	// message. Returns error if publishing fails (should not crash the
	// process).
	PublishState(update StateUpdate) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// StateUpdate describes a state change to be published.
type StateUpdate struct {
	Timestamp  time.Time
	Descriptor string
	// Levels maps color name to wire level (true = lit).
	Levels map[string]bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT state message payload structure.
type Payload struct {
	LED LEDPayload `json:"led"`
}

// LEDPayload contains the state details.
type LEDPayload struct {
	Timestamp  string            `json:"timestamp"`
	Descriptor string            `json:"descriptor"`
	Colors     map[string]string `json:"colors"` // color name -> "ON"/"OFF"
}

// FormatStatePayload creates the JSON payload for a state update.
func FormatStatePayload(update StateUpdate) ([]byte, error) {
	colors := make(map[string]string, len(update.Levels))
	for color, lit := range update.Levels {
		if lit {
			colors[color] = "ON"
		} else {
			colors[color] = "OFF"
		}
	}

	payload := Payload{
		LED: LEDPayload{
			Timestamp:  update.Timestamp.UTC().Format(time.RFC3339),
			Descriptor: update.Descriptor,
			Colors:     colors,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status
// snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
