package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/muurk/envdash/internal/comfort"
	"github.com/muurk/envdash/internal/config"
)

const (
	// alertQoS is at-least-once; a duplicate alert is better than a lost one
	alertQoS = 1

	// DefaultPublishTimeout bounds how long Notify waits for the broker
	DefaultPublishTimeout = 5 * time.Second

	connectTimeout = 10 * time.Second
	quiesceMillis  = 250
)

// publisher is the part of mqtt.Client the sink needs.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// AlertMessage is the JSON document published for each raised alert.
type AlertMessage struct {
	Level     string    `json:"level"`
	Reasons   []string  `json:"reasons"`
	Timestamp time.Time `json:"timestamp"`
}

// MQTT publishes raised alerts to a broker topic.
type MQTT struct {
	client  publisher
	topic   string
	timeout time.Duration
}

// NewMQTT connects to the broker described by settings. password may be
// empty for anonymous brokers.
func NewMQTT(settings *config.MQTTSettings, password string) (*MQTT, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(settings.Broker).
		SetClientID(settings.ClientID).
		SetConnectTimeout(connectTimeout).
		SetAutoReconnect(true)
	if settings.Username != "" {
		opts.SetUsername(settings.Username)
		opts.SetPassword(password)
	}

	c := mqtt.NewClient(opts)
	token := c.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("timed out connecting to MQTT broker %s", settings.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", settings.Broker, err)
	}

	return newMQTT(c, settings.Topic), nil
}

func newMQTT(client publisher, topic string) *MQTT {
	if topic == "" {
		topic = config.DefaultMQTTTopic
	}
	return &MQTT{
		client:  client,
		topic:   topic,
		timeout: DefaultPublishTimeout,
	}
}

// Topic returns the topic alerts are published to.
func (m *MQTT) Topic() string {
	return m.topic
}

// Notify implements Notifier.
func (m *MQTT) Notify(ctx context.Context, status comfort.Status, at time.Time) error {
	reasons := status.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	payload, err := json.Marshal(AlertMessage{
		Level:     string(status.Level),
		Reasons:   reasons,
		Timestamp: at,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	token := m.client.Publish(m.topic, alertQoS, false, payload)

	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("publish to %s abandoned: %w", m.topic, ctx.Err())
	case <-time.After(m.timeout):
		return fmt.Errorf("publish to %s timed out after %s", m.topic, m.timeout)
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish alert to %s: %w", m.topic, err)
	}
	return nil
}

// Close disconnects from the broker.
func (m *MQTT) Close() {
	if c, ok := m.client.(mqtt.Client); ok {
		c.Disconnect(quiesceMillis)
	}
}
