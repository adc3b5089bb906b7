package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/shettyvedanth21/End-End-Factory-Ops-GA/internal/events"
)

const (
	// telemetryTopicFilter matches factories/{factory_id}/devices/{device_id}/telemetry.
	telemetryTopicFilter = "factories/+/devices/+/telemetry"

	mqttQoS            = 1
	mqttConnectTimeout = 10 * time.Second
	mqttDisconnectWait = 250 // milliseconds
)

// MQTTConsumer subscribes to per-device telemetry topics on an MQTT broker
// and forwards decoded readings to the handler.
type MQTTConsumer struct {
	client  mqtt.Client
	handler Handler
}

// MQTTConfig holds MQTT broker connection settings.
type MQTTConfig struct {
	BrokerURL string
	ClientID  string
	Username  string
	Password  string
}

// NewMQTTConsumer connects to the broker. Reconnection after a dropped
// connection is handled by the paho client itself; the OnConnect hook
// re-subscribes so a reconnect never silently stops the flow.
func NewMQTTConsumer(cfg MQTTConfig, handler Handler) (*MQTTConsumer, error) {
	c := &MQTTConsumer{handler: handler}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.BrokerURL)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(mqttConnectTimeout)
	opts.SetOnConnectHandler(func(client mqtt.Client) {
		slog.Info("Connected to MQTT broker", "broker", cfg.BrokerURL)
		token := client.Subscribe(telemetryTopicFilter, mqttQoS, c.onMessage)
		if token.Wait() && token.Error() != nil {
			slog.Error("Failed to subscribe to telemetry topics", "error", token.Error())
		}
	})
	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		slog.Warn("MQTT connection lost, reconnecting", "error", err)
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	c.client = client
	return c, nil
}

// Run blocks until the context is cancelled; message handling happens on the
// paho client's own goroutines.
func (c *MQTTConsumer) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

// Close disconnects from the broker.
func (c *MQTTConsumer) Close() error {
	c.client.Disconnect(mqttDisconnectWait)
	return nil
}

// onMessage decodes one telemetry publication. Malformed topics and payloads
// are logged and dropped, never propagated.
func (c *MQTTConsumer) onMessage(client mqtt.Client, msg mqtt.Message) {
	factoryID, deviceID, err := parseTelemetryTopic(msg.Topic())
	if err != nil {
		slog.Warn("Ignoring message on invalid topic", "topic", msg.Topic(), "error", err)
		return
	}

	var payload map[string]any
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		slog.Warn("Failed to decode telemetry payload",
			"topic", msg.Topic(),
			"error", err,
		)
		return
	}

	raw := &events.RawTelemetry{
		FactoryID: factoryID,
		DeviceID:  deviceID,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
	if err := c.handler(context.Background(), raw); err != nil {
		slog.Error("Failed to process telemetry reading",
			"factory_id", factoryID,
			"device_id", deviceID,
			"error", err,
		)
	}
}

// parseTelemetryTopic extracts the factory and device ids from
// factories/{factory_id}/devices/{device_id}/telemetry.
func parseTelemetryTopic(topic string) (factoryID, deviceID string, err error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 5 || parts[0] != "factories" || parts[2] != "devices" || parts[4] != "telemetry" {
		return "", "", fmt.Errorf("unexpected topic format: %s", topic)
	}
	if parts[1] == "" || parts[3] == "" {
		return "", "", fmt.Errorf("empty factory or device id in topic: %s", topic)
	}
	return parts[1], parts[3], nil
}
