package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Name != "led" {
		t.Errorf("unexpected name: %s", cfg.Name)
	}
	if cfg.GPIO.Chip != "gpiochip0" || cfg.GPIO.PinA != 13 || cfg.GPIO.PinB != 14 {
		t.Errorf("unexpected gpio defaults: %+v", cfg.GPIO)
	}
	if cfg.Colors.First != "RED" || cfg.Colors.Second != "GREEN" || cfg.Colors.Primary != "RED" {
		t.Errorf("unexpected color defaults: %+v", cfg.Colors)
	}
	if cfg.DefaultFreq != 3.0 {
		t.Errorf("unexpected default frequency: %v", cfg.DefaultFreq)
	}
	if cfg.MQTT.Enabled {
		t.Error("MQTT should be disabled by default")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
name: front-panel
gpio:
  chip: gpiochip1
  pin_a: 16
  pin_b: 19
colors:
  first: BLUE
  second: YELLOW
  primary: YELLOW
default_freq: 2.5
mqtt:
  enabled: true
  broker: tcp://broker.local:1883
http:
  addr: ":9000"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Name != "front-panel" {
		t.Errorf("unexpected name: %s", cfg.Name)
	}
	if cfg.GPIO.Chip != "gpiochip1" || cfg.GPIO.PinA != 16 || cfg.GPIO.PinB != 19 {
		t.Errorf("unexpected gpio: %+v", cfg.GPIO)
	}
	if cfg.Colors.Primary != "YELLOW" {
		t.Errorf("unexpected primary: %s", cfg.Colors.Primary)
	}
	if cfg.DefaultFreq != 2.5 {
		t.Errorf("unexpected frequency: %v", cfg.DefaultFreq)
	}
	if !cfg.MQTT.Enabled || cfg.MQTT.Broker != "tcp://broker.local:1883" {
		t.Errorf("unexpected mqtt: %+v", cfg.MQTT)
	}
	if cfg.HTTP.Addr != ":9000" {
		t.Errorf("unexpected http addr: %s", cfg.HTTP.Addr)
	}

	// Unset fields keep defaults.
	if cfg.Database.Path != "./dual-led.sqlite" {
		t.Errorf("database default lost: %s", cfg.Database.Path)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log default lost: %s", cfg.Log.Level)
	}
}

func TestLoadEnvExpansion(t *testing.T) {
	t.Setenv("LED_BROKER", "tcp://10.0.0.5:1883")

	path := writeConfig(t, `
mqtt:
  enabled: true
  broker: ${LED_BROKER}
name: ${LED_NAME:garage}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MQTT.Broker != "tcp://10.0.0.5:1883" {
		t.Errorf("env var not expanded: %s", cfg.MQTT.Broker)
	}
	if cfg.Name != "garage" {
		t.Errorf("default value not used for unset var: %s", cfg.Name)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadRejectsBadFrequency(t *testing.T) {
	path := writeConfig(t, "default_freq: -1\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for negative default_freq")
	}
}
