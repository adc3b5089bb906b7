package config

import (
	"strings"
	"testing"
)

func TestTelemetryConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *TelemetryConfig
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid mqtt config",
			config: &TelemetryConfig{
				Transport:     "mqtt",
				MQTTBrokerURL: "tcp://localhost:1883",
				MQTTClientID:  "telemetry-service",
				RedisAddr:     "localhost:6379",
				PostgresDSN:   "postgres://localhost/factory",
			},
			wantErr: false,
		},
		{
			name: "valid kafka config",
			config: &TelemetryConfig{
				Transport:       "kafka",
				KafkaBrokers:    "localhost:9092",
				KafkaTopic:      "factory.telemetry",
				ConsumerGroupID: "telemetry-group",
				RedisAddr:       "localhost:6379",
				PostgresDSN:     "postgres://localhost/factory",
			},
			wantErr: false,
		},
		{
			name: "unknown transport",
			config: &TelemetryConfig{
				Transport:   "amqp",
				RedisAddr:   "localhost:6379",
				PostgresDSN: "postgres://localhost/factory",
			},
			wantErr: true,
			errMsg:  "transport must be",
		},
		{
			name: "mqtt missing broker url",
			config: &TelemetryConfig{
				Transport:    "mqtt",
				MQTTClientID: "telemetry-service",
				RedisAddr:    "localhost:6379",
				PostgresDSN:  "postgres://localhost/factory",
			},
			wantErr: true,
			errMsg:  "mqtt-broker-url cannot be empty",
		},
		{
			name: "mqtt missing client id",
			config: &TelemetryConfig{
				Transport:     "mqtt",
				MQTTBrokerURL: "tcp://localhost:1883",
				RedisAddr:     "localhost:6379",
				PostgresDSN:   "postgres://localhost/factory",
			},
			wantErr: true,
			errMsg:  "mqtt-client-id cannot be empty",
		},
		{
			name: "kafka missing brokers",
			config: &TelemetryConfig{
				Transport:       "kafka",
				KafkaTopic:      "factory.telemetry",
				ConsumerGroupID: "telemetry-group",
				RedisAddr:       "localhost:6379",
				PostgresDSN:     "postgres://localhost/factory",
			},
			wantErr: true,
			errMsg:  "kafka-brokers cannot be empty",
		},
		{
			name: "kafka missing group id",
			config: &TelemetryConfig{
				Transport:    "kafka",
				KafkaBrokers: "localhost:9092",
				KafkaTopic:   "factory.telemetry",
				RedisAddr:    "localhost:6379",
				PostgresDSN:  "postgres://localhost/factory",
			},
			wantErr: true,
			errMsg:  "consumer-group-id cannot be empty",
		},
		{
			name: "missing redis addr",
			config: &TelemetryConfig{
				Transport:     "mqtt",
				MQTTBrokerURL: "tcp://localhost:1883",
				MQTTClientID:  "telemetry-service",
				PostgresDSN:   "postgres://localhost/factory",
			},
			wantErr: true,
			errMsg:  "redis-addr cannot be empty",
		},
		{
			name: "missing postgres dsn",
			config: &TelemetryConfig{
				Transport:     "mqtt",
				MQTTBrokerURL: "tcp://localhost:1883",
				MQTTClientID:  "telemetry-service",
				RedisAddr:     "localhost:6379",
			},
			wantErr: true,
			errMsg:  "postgres-dsn cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Validate() error = %q, want to contain %q", err.Error(), tt.errMsg)
			}
		})
	}
}

func TestRuleEngineConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *RuleEngineConfig
		wantErr bool
	}{
		{
			name:    "valid config",
			config:  &RuleEngineConfig{RedisAddr: "localhost:6379", PostgresDSN: "postgres://localhost/factory"},
			wantErr: false,
		},
		{
			name:    "missing redis addr",
			config:  &RuleEngineConfig{PostgresDSN: "postgres://localhost/factory"},
			wantErr: true,
		},
		{
			name:    "missing postgres dsn",
			config:  &RuleEngineConfig{RedisAddr: "localhost:6379"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNotifierConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *NotifierConfig
		wantErr bool
	}{
		{
			name:    "valid config",
			config:  &NotifierConfig{RedisAddr: "localhost:6379", PostgresDSN: "postgres://localhost/factory"},
			wantErr: false,
		},
		{
			name:    "missing redis addr",
			config:  &NotifierConfig{PostgresDSN: "postgres://localhost/factory"},
			wantErr: true,
		},
		{
			name:    "missing postgres dsn",
			config:  &NotifierConfig{RedisAddr: "localhost:6379"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
