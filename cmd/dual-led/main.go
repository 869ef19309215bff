// Command dual-led drives a two-wire bicolor LED and exposes it over MQTT,
// HTTP, and Lua scripts. The last applied pattern is persisted and restored
// on restart.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sweeney/dual-led/internal/config"
	"github.com/sweeney/dual-led/internal/gpio"
	"github.com/sweeney/dual-led/internal/led"
	"github.com/sweeney/dual-led/internal/mqtt"
	"github.com/sweeney/dual-led/internal/pattern"
	"github.com/sweeney/dual-led/internal/script"
	"github.com/sweeney/dual-led/internal/status"
	"github.com/sweeney/dual-led/internal/store"
	"github.com/sweeney/dual-led/internal/web"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (empty uses defaults)")
	broker := flag.String("broker", "", "MQTT broker address (overrides config, empty keeps config)")
	httpAddr := flag.String("http", "", "HTTP status address (overrides config, \"off\" disables)")
	demo := flag.Bool("demo", false, "Run the built-in self-test sequence and exit")
	printState := flag.Bool("print-state", false, "Print the stored state descriptor and exit")
	resetState := flag.Bool("reset-state", false, "Delete the stored state descriptor and exit")

	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
	applyOverrides(cfg, *broker, *httpAddr)

	setupLogging(cfg.Log.Level, cfg.Log.UseJSON, cfg.Log.Colors)

	if err := run(cfg, *demo, *printState, *resetState); err != nil {
		log.Fatal().Err(err).Msg("fatal")
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// applyOverrides merges command-line flags over the loaded config.
func applyOverrides(cfg *config.Config, broker, httpAddr string) {
	if broker != "" {
		cfg.MQTT.Enabled = true
		cfg.MQTT.Broker = broker
	}
	switch httpAddr {
	case "":
	case "off":
		cfg.HTTP.Addr = ""
	default:
		cfg.HTTP.Addr = httpAddr
	}
}

func setupLogging(level string, useJSON, colors bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	if useJSON {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
			NoColor:    !colors,
		})
	}

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func openStore(cfg *config.Config) (store.Store, error) {
	if cfg.Database.Path == "" {
		return store.NewMemoryStore(), nil
	}
	return store.OpenSQLite(cfg.Database.Path)
}

func run(cfg *config.Config, demo, printState, resetState bool) error {
	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	// State store maintenance modes
	if printState {
		descriptor, err := st.Load(cfg.Name)
		if err != nil {
			return fmt.Errorf("load state: %w", err)
		}
		if descriptor == "" {
			descriptor = "OFF"
		}
		fmt.Println(descriptor)
		return nil
	}
	if resetState {
		if err := st.Delete(cfg.Name); err != nil {
			return fmt.Errorf("reset state: %w", err)
		}
		log.Info().Str("name", cfg.Name).Msg("stored state cleared")
		return nil
	}

	// Initialize GPIO
	chip, err := gpio.OpenChip(cfg.GPIO.Chip)
	if err != nil {
		return fmt.Errorf("open gpio chip: %w", err)
	}
	defer chip.Close()

	outA, err := chip.Line(cfg.GPIO.PinA)
	if err != nil {
		return fmt.Errorf("request pin %d: %w", cfg.GPIO.PinA, err)
	}
	outB, err := chip.Line(cfg.GPIO.PinB)
	if err != nil {
		return fmt.Errorf("request pin %d: %w", cfg.GPIO.PinB, err)
	}

	l, err := led.New(outA, outB, cfg.Colors.First, cfg.Colors.Second, cfg.Colors.Primary)
	if err != nil {
		return fmt.Errorf("init led: %w", err)
	}

	ctrl := pattern.New(l, pattern.NewTickScheduler(), cfg.DefaultFreq)
	defer ctrl.Off()

	// Demo mode: run the self-test and exit.
	if demo {
		log.Info().Msg("running self test")
		return script.NewModule(ctrl).Run(script.DemoScript, "demo")
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		Name:        cfg.Name,
		Chip:        cfg.GPIO.Chip,
		PinA:        cfg.GPIO.PinA,
		PinB:        cfg.GPIO.PinB,
		Colors:      [2]string{cfg.Colors.First, cfg.Colors.Second},
		DefaultFreq: cfg.DefaultFreq,
		Broker:      cfg.MQTT.Broker,
		HTTPAddr:    cfg.HTTP.Addr,
	})

	// Initialize MQTT
	var pub mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if cfg.MQTT.Enabled {
		client, err := mqtt.NewRealClient(cfg.MQTT.Broker, cfg.Name, func(descriptor string) {
			log.Info().Str("descriptor", descriptor).Msg("mqtt command")
			ctrl.Restore(descriptor)
		})
		if err != nil {
			return fmt.Errorf("connect mqtt: %w", err)
		}
		defer client.Close()
		pub = client
		mqttStatus = client
	}

	// Every completed transition updates the tracker, persists the
	// descriptor, and publishes the retained state message.
	ctrl.OnChange(func(s pattern.State) {
		levels := ctrl.Levels()
		tracker.RecordChange(s, ctrl.Primary(), levels)
		if mqttStatus != nil {
			tracker.SetMQTTConnected(mqttStatus.IsConnected())
		}

		descriptor := s.Descriptor()
		if err := st.Save(cfg.Name, descriptor); err != nil {
			log.Warn().Err(err).Msg("persist state failed")
		}
		if pub != nil {
			update := mqtt.StateUpdate{
				Timestamp:  time.Now(),
				Descriptor: descriptor,
				Levels:     levels,
			}
			if err := pub.PublishState(update); err != nil {
				log.Warn().Err(err).Msg("publish state failed")
			}
		}
	})

	// Restore the pattern that was active before the last shutdown.
	if descriptor, err := st.Load(cfg.Name); err != nil {
		log.Warn().Err(err).Msg("load stored state failed")
	} else if descriptor != "" {
		log.Info().Str("descriptor", descriptor).Msg("restoring stored state")
		ctrl.Restore(descriptor)
	}

	if pub != nil {
		snap := tracker.Snapshot()
		startupEvent := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := pub.PublishSystem(startupEvent); err != nil {
			log.Warn().Err(err).Msg("publish startup event failed")
		}
	}

	// Start HTTP status server
	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker, ctrl)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("http server error")
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Info().Str("addr", cfg.HTTP.Addr).Msg("http server listening")
	}

	// Optional startup script
	if cfg.Script != "" {
		source, err := os.ReadFile(cfg.Script)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		if err := script.NewModule(ctrl).Run(string(source), cfg.Script); err != nil {
			log.Warn().Err(err).Str("script", cfg.Script).Msg("startup script failed")
		}
	}

	log.Info().
		Str("name", cfg.Name).
		Str("chip", cfg.GPIO.Chip).
		Int("pin_a", cfg.GPIO.PinA).
		Int("pin_b", cfg.GPIO.PinB).
		Float64("default_freq", cfg.DefaultFreq).
		Msg("started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	if pub != nil {
		if mqttStatus != nil {
			tracker.SetMQTTConnected(mqttStatus.IsConnected())
		}
		snap := tracker.Snapshot()
		event := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "SHUTDOWN",
			Reason:     signalName(sig),
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", signalName(sig)),
		}
		if err := pub.PublishSystem(event); err != nil {
			log.Warn().Err(err).Msg("publish shutdown event failed")
		}
	}

	return nil
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
