package internal

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/relay-thermostat/internal/control"
	"github.com/sweeney/relay-thermostat/internal/logic"
	"github.com/sweeney/relay-thermostat/internal/mqtt"
	"github.com/sweeney/relay-thermostat/internal/relay"
	"github.com/sweeney/relay-thermostat/internal/sensor"
)

// TestIntegrationFullFlow tests the complete flow from sensor to relay and
// MQTT using fakes: automatic control, then a manual override that the
// automatic policy must not undo.
func TestIntegrationFullFlow(t *testing.T) {
	samples := []sensor.Sample{
		{Temp: 22.0}, // t=0s   below 23.8 -> relay on
		{Temp: 23.0}, // t=2s   still on
		{Temp: 25.0}, // t=4s   above -> relay off
		{Temp: 30.0}, // t=6s   manual ON must stand
		{Temp: 30.0}, // t=8s
	}

	reader := sensor.NewFakeReader(samples)
	driver := relay.NewFakeDriver()
	publisher := mqtt.NewFakePublisher()
	startTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ctrl := control.New(reader, driver, control.DefaultCritical, startTime, control.Config{})

	pollInterval := 2 * time.Second
	tickAt := func(i int) time.Time { return startTime.Add(time.Duration(i) * pollInterval) }
	publishAll := func(events []logic.Event) {
		for _, ev := range events {
			if err := publisher.Publish(ev); err != nil {
				t.Fatalf("publish: %v", err)
			}
		}
	}

	// Automatic phase: three ticks
	for i := 0; i < 3; i++ {
		publishAll(ctrl.Tick(tickAt(i)))
	}

	// Operator takes over and forces the relay on
	publishAll([]logic.Event{ctrl.ToggleMode(tickAt(3))})
	if ev := ctrl.SetOutput(true, tickAt(3)); ev != nil {
		publishAll([]logic.Event{*ev})
	}

	// Manual phase: two more ticks at 30°C
	for i := 3; i < 5; i++ {
		publishAll(ctrl.Tick(tickAt(i)))
	}

	// Relay write history: on, on, off (auto), on (manual) — manual-mode
	// ticks do not actuate.
	wantWrites := []bool{true, true, false, true}
	if len(driver.States) != len(wantWrites) {
		t.Fatalf("relay writes: got %v, want %v", driver.States, wantWrites)
	}
	for i, w := range wantWrites {
		if driver.States[i] != w {
			t.Errorf("relay write %d: got %v, want %v", i, driver.States[i], w)
		}
	}

	// Published events: RELAY_ON, RELAY_OFF, MODE_MANUAL, RELAY_ON
	wantEvents := []logic.EventType{
		logic.EventRelayOn,
		logic.EventRelayOff,
		logic.EventModeManual,
		logic.EventRelayOn,
	}
	gotEvents := publisher.EventTypes()
	if len(gotEvents) != len(wantEvents) {
		t.Fatalf("expected %d events, got %d", len(wantEvents), len(gotEvents))
	}
	for i, w := range wantEvents {
		if gotEvents[i] != w {
			t.Errorf("event %d: got %s, want %s", i, gotEvents[i], w)
		}
	}

	// Final state: manual, relay on, temperature tracking the last sample.
	snap := ctrl.Snapshot()
	if snap.Mode != logic.ModeManual || !snap.Output || snap.Temperature != 30.0 {
		t.Errorf("final state: mode=%s output=%v temp=%v", snap.Mode, snap.Output, snap.Temperature)
	}
}

// TestIntegrationPayloadShape locks the wire format end to end.
func TestIntegrationPayloadShape(t *testing.T) {
	reader := sensor.NewFakeReader([]sensor.Sample{{Temp: 21.5}})
	driver := relay.NewFakeDriver()
	publisher := mqtt.NewFakePublisher()
	startTime := time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)
	ctrl := control.New(reader, driver, control.DefaultCritical, startTime, control.Config{})

	events := ctrl.Tick(startTime)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if err := publisher.Publish(events[0]); err != nil {
		t.Fatalf("publish: %v", err)
	}

	raw, err := mqtt.FormatPayload(publisher.Events[0])
	if err != nil {
		t.Fatalf("format payload: %v", err)
	}
	var payload map[string]map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("invalid payload JSON: %v", err)
	}
	th := payload["thermostat"]
	if th == nil {
		t.Fatal("missing thermostat object")
	}
	if th["event"] != "RELAY_ON" {
		t.Errorf("event: got %v", th["event"])
	}
	if th["temperature_c"] != 21.5 {
		t.Errorf("temperature_c: got %v", th["temperature_c"])
	}
	if th["timestamp"] != "2026-03-10T08:30:00Z" {
		t.Errorf("timestamp: got %v", th["timestamp"])
	}
}

// TestIntegrationSensorFaultRecovery runs a fault window through the loop and
// checks the controller picks up where it left off.
func TestIntegrationSensorFaultRecovery(t *testing.T) {
	fault := errors.New("crc check failed")
	samples := []sensor.Sample{
		{Temp: 22.0}, // relay on
		{Err: fault},
		{Err: fault},
		{Err: fault},
		{Temp: 25.0}, // recovery: relay off
	}

	reader := sensor.NewFakeReader(samples)
	driver := relay.NewFakeDriver()
	startTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ctrl := control.New(reader, driver, control.DefaultCritical, startTime, control.Config{})

	for i := range samples {
		ctrl.Tick(startTime.Add(time.Duration(i) * 2 * time.Second))
	}

	snap := ctrl.Snapshot()
	if snap.Output {
		t.Error("relay should be off after recovery at 25.0°C")
	}
	if snap.Counts.SensorErrors != 3 {
		t.Errorf("sensor errors: got %d, want 3", snap.Counts.SensorErrors)
	}
	// Two actuated ticks plus three skipped fault ticks
	if len(driver.States) != 2 {
		t.Errorf("relay writes: got %d, want 2", len(driver.States))
	}
}
