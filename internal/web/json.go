package web

import (
	"encoding/json"
	"time"

	"github.com/sweeney/relay-thermostat/internal/control"
	"github.com/sweeney/relay-thermostat/internal/logic"
)

// StatusJSON is the JSON representation of the daemon status.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	TemperatureC  *float64   `json:"temperature_c"`
	Relay         string     `json:"relay"`
	Mode          string     `json:"mode"`
	CriticalC     float64    `json:"critical_c"`
	StatusText    string     `json:"status_text"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"event_counts"`
	Config        ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	RelayOn      int `json:"relay_on"`
	RelayOff     int `json:"relay_off"`
	ModeChanges  int `json:"mode_changes"`
	SensorErrors int `json:"sensor_errors"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs         int64  `json:"poll_ms"`
	HeartbeatMs    int64  `json:"heartbeat_ms"`
	RefreshSeconds int    `json:"refresh_seconds"`
	Broker         string `json:"broker"`
	HTTPAddr       string `json:"http_addr"`
	SensorPath     string `json:"sensor_path,omitempty"`
	RelayPin       int    `json:"relay_pin"`
}

func formatJSON(snap control.Snapshot) []byte {
	sj := StatusJSON{
		Status: StatusInner{
			Relay:         logic.StateString(snap.Output),
			Mode:          string(snap.Mode),
			CriticalC:     snap.Critical,
			StatusText:    snap.StatusText,
			UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
			StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
			Timestamp:     snap.Now.UTC().Format(time.RFC3339),
			MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
			Counts: CountsJSON{
				RelayOn:      snap.Counts.RelayOn,
				RelayOff:     snap.Counts.RelayOff,
				ModeChanges:  snap.Counts.ModeChanges,
				SensorErrors: snap.Counts.SensorErrors,
			},
			Config: ConfigJSON{
				PollMs:         snap.Config.PollMs,
				HeartbeatMs:    snap.Config.HeartbeatMs,
				RefreshSeconds: snap.Config.RefreshSeconds,
				Broker:         snap.Config.Broker,
				HTTPAddr:       snap.Config.HTTPAddr,
				SensorPath:     snap.Config.SensorPath,
				RelayPin:       snap.Config.RelayPin,
			},
		},
	}

	// null until the first successful sample
	if snap.HaveReading {
		t := snap.Temperature
		sj.Status.TemperatureC = &t
	}

	data, _ := json.MarshalIndent(sj, "", "  ")
	return data
}
