package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string            `json:"event,omitempty"`
	Reason        string            `json:"reason,omitempty"`
	Descriptor    string            `json:"descriptor"`
	Primary       string            `json:"primary"`
	Colors        map[string]string `json:"colors"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	StartTime     string            `json:"start_time"`
	Timestamp     string            `json:"timestamp"`
	MQTT          MQTTStatus        `json:"mqtt"`
	Counts        CountsJSON        `json:"transition_counts"`
	Config        ConfigJSON        `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of transition counts.
type CountsJSON struct {
	Off       int `json:"off"`
	On        int `json:"on"`
	Blink     int `json:"blink"`
	Alternate int `json:"alternate"`
	Count     int `json:"count"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Name        string  `json:"name"`
	Chip        string  `json:"chip"`
	PinA        int     `json:"pin_a"`
	PinB        int     `json:"pin_b"`
	DefaultFreq float64 `json:"default_freq"`
	Broker      string  `json:"broker"`
	HTTPAddr    string  `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	colors := make(map[string]string, len(snap.Levels))
	for color, lit := range snap.Levels {
		if lit {
			colors[color] = "ON"
		} else {
			colors[color] = "OFF"
		}
	}

	return StatusInner{
		Descriptor:    snap.Descriptor,
		Primary:       snap.Primary,
		Colors:        colors,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Off:       snap.Counts.Off,
			On:        snap.Counts.On,
			Blink:     snap.Counts.Blink,
			Alternate: snap.Counts.Alternate,
			Count:     snap.Counts.Count,
		},
		Config: ConfigJSON{
			Name:        snap.Config.Name,
			Chip:        snap.Config.Chip,
			PinA:        snap.Config.PinA,
			PinB:        snap.Config.PinB,
			DefaultFreq: snap.Config.DefaultFreq,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
