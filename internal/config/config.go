// Package config provides configuration parsing and validation for the
// pipeline services.
package config

import (
	"fmt"

	"github.com/shettyvedanth21/End-End-Factory-Ops-GA/internal/transport"
)

// TelemetryConfig holds all configuration parameters for the telemetry service.
type TelemetryConfig struct {
	Transport string

	MQTTBrokerURL string
	MQTTClientID  string
	MQTTUsername  string
	MQTTPassword  string

	KafkaBrokers    string
	KafkaTopic      string
	ConsumerGroupID string

	RedisAddr   string
	PostgresDSN string
}

// Validate checks that all required configuration fields are set and have valid values.
// Returns an error if validation fails, nil otherwise.
func (c *TelemetryConfig) Validate() error {
	switch c.Transport {
	case transport.KindMQTT:
		if c.MQTTBrokerURL == "" {
			return fmt.Errorf("mqtt-broker-url cannot be empty")
		}
		if c.MQTTClientID == "" {
			return fmt.Errorf("mqtt-client-id cannot be empty")
		}
	case transport.KindKafka:
		if c.KafkaBrokers == "" {
			return fmt.Errorf("kafka-brokers cannot be empty")
		}
		if c.KafkaTopic == "" {
			return fmt.Errorf("kafka-topic cannot be empty")
		}
		if c.ConsumerGroupID == "" {
			return fmt.Errorf("consumer-group-id cannot be empty")
		}
	default:
		return fmt.Errorf("transport must be %q or %q, got %q", transport.KindMQTT, transport.KindKafka, c.Transport)
	}
	if c.RedisAddr == "" {
		return fmt.Errorf("redis-addr cannot be empty")
	}
	if c.PostgresDSN == "" {
		return fmt.Errorf("postgres-dsn cannot be empty")
	}
	return nil
}

// RuleEngineConfig holds all configuration parameters for the rule engine service.
type RuleEngineConfig struct {
	RedisAddr   string
	PostgresDSN string
}

// Validate checks that all required configuration fields are set and have valid values.
// Returns an error if validation fails, nil otherwise.
func (c *RuleEngineConfig) Validate() error {
	if c.RedisAddr == "" {
		return fmt.Errorf("redis-addr cannot be empty")
	}
	if c.PostgresDSN == "" {
		return fmt.Errorf("postgres-dsn cannot be empty")
	}
	return nil
}

// NotifierConfig holds all configuration parameters for the notifier service.
type NotifierConfig struct {
	RedisAddr   string
	PostgresDSN string
}

// Validate checks that all required configuration fields are set and have valid values.
// Returns an error if validation fails, nil otherwise.
func (c *NotifierConfig) Validate() error {
	if c.RedisAddr == "" {
		return fmt.Errorf("redis-addr cannot be empty")
	}
	if c.PostgresDSN == "" {
		return fmt.Errorf("postgres-dsn cannot be empty")
	}
	return nil
}
