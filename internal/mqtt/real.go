package mqtt

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RealClient publishes to an actual MQTT broker and subscribes to the set
// topic for remote commands.
type RealClient struct {
	client      paho.Client
	stateTopic  string
	systemTopic string
}

// NewRealClient creates a client connected to the given broker. Payloads
// arriving on the set topic are handed to onCommand as-is.
func NewRealClient(broker, name string, onCommand func(descriptor string)) (*RealClient, error) {
	setTopic := SetTopic(name)

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("dual-led-" + uuid.NewString()[:8]).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(c paho.Client) {
			// Resubscribe on every (re)connect.
			token := c.Subscribe(setTopic, 1, func(_ paho.Client, msg paho.Message) {
				onCommand(string(msg.Payload()))
			})
			if token.WaitTimeout(5*time.Second) && token.Error() != nil {
				log.Warn().Err(token.Error()).Str("topic", setTopic).Msg("subscribe failed")
			}
		})

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return &RealClient{
		client:      client,
		stateTopic:  StateTopic(name),
		systemTopic: SystemTopic(name),
	}, nil
}

// PublishState sends the state update to the broker. The message is retained
// so subscribers joining later see the current pattern immediately.
func (c *RealClient) PublishState(update StateUpdate) error {
	payload, err := FormatStatePayload(update)
	if err != nil {
		return fmt.Errorf("format state payload: %w", err)
	}

	token := c.client.Publish(c.stateTopic, 0, true, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish state: %w", err)
	}

	return nil
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (c *RealClient) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events - we want to ensure delivery
	token := c.client.Publish(c.systemTopic, 1, event.Retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish system timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}

	return nil
}

// IsConnected reports whether the broker connection is up.
func (c *RealClient) IsConnected() bool {
	return c.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (c *RealClient) Close() error {
	c.client.Disconnect(1000) // 1 second timeout
	return nil
}
