package logic

import (
	"errors"
	"strings"
	"testing"
)

func TestWantOutput(t *testing.T) {
	tests := []struct {
		name     string
		temp     float64
		critical float64
		want     bool
	}{
		{"below threshold", 22.0, 23.8, true},
		{"above threshold", 25.0, 23.8, false},
		{"equal leaves relay off", 23.8, 23.8, false},
		{"just below", 23.799, 23.8, true},
		{"negative threshold", -5.0, -10.0, false},
		{"negative temp below negative threshold", -15.0, -10.0, true},
		{"zero threshold", -0.1, 0.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WantOutput(tt.temp, tt.critical); got != tt.want {
				t.Errorf("WantOutput(%v, %v) = %v, want %v", tt.temp, tt.critical, got, tt.want)
			}
		})
	}
}

func TestModeToggle(t *testing.T) {
	if ModeAutomatic.Toggle() != ModeManual {
		t.Error("AUTO should toggle to MANUAL")
	}
	if ModeManual.Toggle() != ModeAutomatic {
		t.Error("MANUAL should toggle to AUTO")
	}
	// Toggle is its own inverse
	for _, m := range []Mode{ModeAutomatic, ModeManual} {
		if m.Toggle().Toggle() != m {
			t.Errorf("double toggle of %s should return %s", m, m)
		}
	}
}

func TestRelayEventType(t *testing.T) {
	if RelayEventType(true) != EventRelayOn {
		t.Error("expected RELAY_ON for true")
	}
	if RelayEventType(false) != EventRelayOff {
		t.Error("expected RELAY_OFF for false")
	}
}

func TestModeEventType(t *testing.T) {
	if ModeEventType(ModeManual) != EventModeManual {
		t.Error("expected MODE_MANUAL")
	}
	if ModeEventType(ModeAutomatic) != EventModeAuto {
		t.Error("expected MODE_AUTO")
	}
}

func TestFormatSample(t *testing.T) {
	got := FormatSample(22.04, true)
	if got != "temp 22.0°C, relay ON (auto)" {
		t.Errorf("unexpected status line: %q", got)
	}
	got = FormatSample(25.0, false)
	if !strings.Contains(got, "relay OFF") {
		t.Errorf("expected relay OFF in %q", got)
	}
}

func TestFormatManual(t *testing.T) {
	if got := FormatManual(true); got != "relay ON (manual)" {
		t.Errorf("unexpected status line: %q", got)
	}
}

func TestFormatSensorError(t *testing.T) {
	got := FormatSensorError(errors.New("crc check failed"))
	if !strings.Contains(got, "crc check failed") {
		t.Errorf("expected underlying error in %q", got)
	}
	if !strings.Contains(got, "sensor read error") {
		t.Errorf("expected error prefix in %q", got)
	}
}

func TestFormatThreshold(t *testing.T) {
	if got := FormatThreshold(18.5); got != "critical temperature set to 18.5°C" {
		t.Errorf("unexpected status line: %q", got)
	}
}
