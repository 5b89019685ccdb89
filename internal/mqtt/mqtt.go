// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/relay-thermostat/internal/logic"
)

// Topic is the MQTT topic for thermostat transition events.
const Topic = "home/relay-thermostat/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "home/relay-thermostat/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a thermostat event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp time.Time
	Event     string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason    string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	Retained  bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Thermostat ThermostatPayload `json:"thermostat"`
}

// ThermostatPayload contains the thermostat event details.
type ThermostatPayload struct {
	Timestamp    string     `json:"timestamp"`
	Event        string     `json:"event"`
	TemperatureC *float64   `json:"temperature_c,omitempty"`
	Mode         string     `json:"mode"`
	Relay        RelayState `json:"relay"`
}

// RelayState represents the relay's state.
type RelayState struct {
	State string `json:"state"`
}

// FormatPayload creates the JSON payload for a thermostat event.
// The temperature field is omitted until the first successful sample.
func FormatPayload(event logic.Event) ([]byte, error) {
	payload := Payload{
		Thermostat: ThermostatPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			Mode:      string(event.Mode),
			Relay:     RelayState{State: logic.StateString(event.Relay)},
		},
	}
	if event.HaveReading {
		t := event.Temperature
		payload.Thermostat.TemperatureC = &t
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
