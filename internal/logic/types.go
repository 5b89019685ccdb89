// Package logic contains pure business logic for threshold-based relay control.
// This package has NO external dependencies (no sensors, GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// Mode selects who controls the relay.
type Mode string

const (
	// ModeAutomatic drives the relay from the temperature/threshold comparison.
	ModeAutomatic Mode = "AUTO"
	// ModeManual suspends the comparison; only explicit commands move the relay.
	ModeManual Mode = "MANUAL"
)

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeManual {
		return ModeAutomatic
	}
	return ModeManual
}

// EventType represents a state transition event.
type EventType string

const (
	EventRelayOn    EventType = "RELAY_ON"
	EventRelayOff   EventType = "RELAY_OFF"
	EventModeAuto   EventType = "MODE_AUTO"
	EventModeManual EventType = "MODE_MANUAL"
)

// Event represents a state transition to be published.
type Event struct {
	Timestamp   time.Time
	Type        EventType
	Temperature float64
	HaveReading bool
	Mode        Mode
	Relay       bool
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	RelayOn      int
	RelayOff     int
	ModeChanges  int
	SensorErrors int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}
