package logic

import "fmt"

// WantOutput is the automatic-mode decision: the relay is on while the
// temperature is strictly below the critical threshold. Equality leaves it
// off. There is deliberately no hysteresis; the comparison is re-evaluated on
// every sample, so readings oscillating around the threshold toggle the relay.
func WantOutput(temp, critical float64) bool {
	return temp < critical
}

// RelayEventType maps a relay state to its transition event.
func RelayEventType(on bool) EventType {
	if on {
		return EventRelayOn
	}
	return EventRelayOff
}

// ModeEventType maps a mode to its transition event.
func ModeEventType(m Mode) EventType {
	if m == ModeManual {
		return EventModeManual
	}
	return EventModeAuto
}

// StateString renders a relay state for display and payloads.
func StateString(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

// FormatSample is the status line written after an automatic-mode sample.
func FormatSample(temp float64, on bool) string {
	return fmt.Sprintf("temp %.1f°C, relay %s (auto)", temp, StateString(on))
}

// FormatManual is the status line written after a manual relay command.
func FormatManual(on bool) string {
	return fmt.Sprintf("relay %s (manual)", StateString(on))
}

// FormatModeChange is the status line written after a mode toggle.
func FormatModeChange(m Mode) string {
	return fmt.Sprintf("mode set to %s", m)
}

// FormatThreshold is the status line written after a threshold update.
func FormatThreshold(critical float64) string {
	return fmt.Sprintf("critical temperature set to %.1f°C", critical)
}

// FormatSensorError is the status line written when a sample fails.
func FormatSensorError(err error) string {
	return fmt.Sprintf("sensor read error: %v", err)
}
