package transport

import (
	"strings"
	"testing"
)

func TestParseTelemetryTopic(t *testing.T) {
	tests := []struct {
		name        string
		topic       string
		wantFactory string
		wantDevice  string
		wantErr     bool
	}{
		{
			name:        "valid topic",
			topic:       "factories/factory-1/devices/device-7/telemetry",
			wantFactory: "factory-1",
			wantDevice:  "device-7",
		},
		{
			name:    "wrong prefix",
			topic:   "sites/factory-1/devices/device-7/telemetry",
			wantErr: true,
		},
		{
			name:    "wrong suffix",
			topic:   "factories/factory-1/devices/device-7/status",
			wantErr: true,
		},
		{
			name:    "too few segments",
			topic:   "factories/factory-1/telemetry",
			wantErr: true,
		},
		{
			name:    "too many segments",
			topic:   "factories/factory-1/devices/device-7/telemetry/extra",
			wantErr: true,
		},
		{
			name:    "empty factory id",
			topic:   "factories//devices/device-7/telemetry",
			wantErr: true,
		},
		{
			name:    "empty device id",
			topic:   "factories/factory-1/devices//telemetry",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factoryID, deviceID, err := parseTelemetryTopic(tt.topic)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTelemetryTopic(%q) error = %v, wantErr %v", tt.topic, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if factoryID != tt.wantFactory || deviceID != tt.wantDevice {
				t.Errorf("parseTelemetryTopic(%q) = (%q, %q), want (%q, %q)",
					tt.topic, factoryID, deviceID, tt.wantFactory, tt.wantDevice)
			}
		})
	}
}

func TestNewKafkaConsumer_Validation(t *testing.T) {
	tests := []struct {
		name   string
		cfg    KafkaConfig
		errMsg string
	}{
		{
			name:   "empty brokers",
			cfg:    KafkaConfig{Topic: "factory.telemetry", GroupID: "telemetry-group"},
			errMsg: "brokers cannot be empty",
		},
		{
			name:   "empty topic",
			cfg:    KafkaConfig{Brokers: "localhost:9092", GroupID: "telemetry-group"},
			errMsg: "topic cannot be empty",
		},
		{
			name:   "empty group id",
			cfg:    KafkaConfig{Brokers: "localhost:9092", Topic: "factory.telemetry"},
			errMsg: "groupID cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKafkaConsumer(tt.cfg, nil)
			if err == nil {
				t.Fatal("NewKafkaConsumer() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error = %q, want to contain %q", err.Error(), tt.errMsg)
			}
		})
	}
}

func TestNewKafkaConsumer_TrimsBrokerList(t *testing.T) {
	c, err := NewKafkaConsumer(KafkaConfig{
		Brokers: "localhost:9092, localhost:9093",
		Topic:   "factory.telemetry",
		GroupID: "telemetry-group",
	}, nil)
	if err != nil {
		t.Fatalf("NewKafkaConsumer() error = %v", err)
	}
	defer c.Close()

	if c.topic != "factory.telemetry" {
		t.Errorf("topic = %q, want factory.telemetry", c.topic)
	}
}
