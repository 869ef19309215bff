// Package config loads the daemon configuration from YAML, with environment
// variable expansion and defaults. Command-line flags override the loaded
// values in main.
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/dual-led/internal/gpio"
)

// Config is the daemon configuration.
type Config struct {
	// Name identifies this LED in MQTT topics and the state store.
	Name string `yaml:"name"`

	GPIO        GPIOConfig     `yaml:"gpio"`
	Colors      ColorConfig    `yaml:"colors"`
	DefaultFreq float64        `yaml:"default_freq"`
	MQTT        MQTTConfig     `yaml:"mqtt"`
	HTTP        HTTPConfig     `yaml:"http"`
	Database    DatabaseConfig `yaml:"database"`
	Log         LogConfig      `yaml:"log"`

	// Script is an optional Lua control sequence run after startup.
	Script string `yaml:"script"`
}

// GPIOConfig selects the GPIO character device and the two anode pins.
type GPIOConfig struct {
	Chip string `yaml:"chip"`
	PinA int    `yaml:"pin_a"`
	PinB int    `yaml:"pin_b"`
}

// ColorConfig names the two logical colors and the initial primary.
type ColorConfig struct {
	First   string `yaml:"first"`  // color wired to pin A
	Second  string `yaml:"second"` // color wired to pin B
	Primary string `yaml:"primary"`
}

// MQTTConfig contains broker settings for the remote control surface.
type MQTTConfig struct {
	Enabled bool   `yaml:"enabled"`
	Broker  string `yaml:"broker"`
}

// HTTPConfig contains the status server settings.
type HTTPConfig struct {
	Addr string `yaml:"addr"` // empty disables the server
}

// DatabaseConfig contains descriptor persistence settings.
type DatabaseConfig struct {
	Path string `yaml:"path"` // empty disables persistence
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string `yaml:"level"`
	Colors  bool   `yaml:"colors"`
	UseJSON bool   `yaml:"json"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Name: "led",
		GPIO: GPIOConfig{
			Chip: gpio.DefaultChip,
			PinA: gpio.DefaultPinA,
			PinB: gpio.DefaultPinB,
		},
		Colors: ColorConfig{
			First:   "RED",
			Second:  "GREEN",
			Primary: "RED",
		},
		DefaultFreq: 3.0,
		MQTT: MQTTConfig{
			Broker: "tcp://192.168.1.200:1883",
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
		Database: DatabaseConfig{
			Path: "./dual-led.sqlite",
		},
		Log: LogConfig{
			Level:  "info",
			Colors: true,
		},
	}
}

// Load reads and parses the configuration file. Unset fields fall back to
// the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := expandEnvVars(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.DefaultFreq <= 0 {
		return nil, fmt.Errorf("default_freq must be positive, got %v", cfg.DefaultFreq)
	}
	return cfg, nil
}

// expandEnvVars expands ${VAR} or ${VAR:default} references.
func expandEnvVars(input string) string {
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}
