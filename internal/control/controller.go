// Package control owns the shared thermostat record behind a single mutex.
// The periodic tick and the HTTP handlers both mutate state through it, so
// every method runs its whole read-decide-actuate sequence under the lock:
// a handler never observes a tick that has updated the temperature but not
// yet reconciled the relay.
package control

import (
	"sync"
	"time"

	"github.com/sweeney/relay-thermostat/internal/logic"
	"github.com/sweeney/relay-thermostat/internal/relay"
	"github.com/sweeney/relay-thermostat/internal/sensor"
)

// Config contains daemon configuration for display.
type Config struct {
	PollMs         int64
	HeartbeatMs    int64
	RefreshSeconds int
	Broker         string
	HTTPAddr       string
	SensorPath     string
	RelayPin       int
}

// Snapshot is a point-in-time view of thermostat state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Temperature   float64
	HaveReading   bool
	Output        bool
	Mode          logic.Mode
	Critical      float64
	StatusText    string
	Counts        logic.EventCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Controller holds the mutable thermostat state and the actuation path.
type Controller struct {
	mu            sync.Mutex
	reader        sensor.Reader
	driver        relay.Driver
	snap          Snapshot
	lastHeartbeat time.Time
}

// DefaultCritical is the power-on threshold, in degrees Celsius.
const DefaultCritical = 23.8

// New creates a Controller in automatic mode with the relay off.
func New(reader sensor.Reader, driver relay.Driver, critical float64, startTime time.Time, cfg Config) *Controller {
	return &Controller{
		reader: reader,
		driver: driver,
		snap: Snapshot{
			Mode:       logic.ModeAutomatic,
			Critical:   critical,
			StatusText: "starting",
			StartTime:  startTime,
			Config:     cfg,
		},
		lastHeartbeat: startTime,
	}
}

// Tick runs one sample-and-decide cycle and returns any transition events.
//
// On a sensor error the status line records it and nothing else changes —
// no actuation, no mode or output change; the next tick retries. On success
// the temperature is updated; in manual mode that is all, in automatic mode
// the relay is reconciled against the critical threshold.
func (c *Controller) Tick(now time.Time) []logic.Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	temp, err := c.reader.Read()
	if err != nil {
		c.snap.Counts.SensorErrors++
		c.snap.StatusText = logic.FormatSensorError(err)
		return nil
	}

	c.snap.Temperature = temp
	c.snap.HaveReading = true

	if c.snap.Mode == logic.ModeManual {
		return nil
	}

	want := logic.WantOutput(temp, c.snap.Critical)
	var events []logic.Event
	if want != c.snap.Output {
		events = append(events, c.relayEventLocked(now, want))
	}
	c.snap.Output = want
	c.actuateLocked(want, logic.FormatSample(temp, want))
	return events
}

// ToggleMode flips between automatic and manual and returns the mode event.
// The relay output is left exactly as it was; in automatic mode the next
// tick reconciles it against the threshold.
func (c *Controller) ToggleMode(now time.Time) logic.Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snap.Mode = c.snap.Mode.Toggle()
	c.snap.Counts.ModeChanges++
	c.snap.StatusText = logic.FormatModeChange(c.snap.Mode)

	return logic.Event{
		Timestamp:   now,
		Type:        logic.ModeEventType(c.snap.Mode),
		Temperature: c.snap.Temperature,
		HaveReading: c.snap.HaveReading,
		Mode:        c.snap.Mode,
		Relay:       c.snap.Output,
	}
}

// SetOutput applies a manual relay command. In automatic mode the request is
// acknowledged but ignored (nil event, no state change, no error). In manual
// mode the relay is driven and a transition event is returned if the state
// actually changed.
func (c *Controller) SetOutput(on bool, now time.Time) *logic.Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snap.Mode != logic.ModeManual {
		return nil
	}

	var ev *logic.Event
	if on != c.snap.Output {
		e := c.relayEventLocked(now, on)
		ev = &e
	}
	c.snap.Output = on
	c.actuateLocked(on, logic.FormatManual(on))
	return ev
}

// SetCritical overwrites the threshold. No bounds validation: negative or
// absurd thresholds are accepted, matching the device's behavior.
func (c *Controller) SetCritical(v float64, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snap.Critical = v
	c.snap.StatusText = logic.FormatThreshold(v)
}

// SetMQTTConnected sets the broker connection status for display.
func (c *Controller) SetMQTTConnected(connected bool) {
	c.mu.Lock()
	c.snap.MQTTConnected = connected
	c.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the thermostat state.
// The Now field is set to the current time at the moment of the call.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	s := c.snap
	c.mu.Unlock()
	s.Now = time.Now()
	return s
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since
// the last heartbeat (or startup). Returns nil if the interval has not
// elapsed or if interval is <= 0 (disabled).
func (c *Controller) CheckHeartbeat(now time.Time, interval time.Duration) *logic.HeartbeatData {
	if interval <= 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if now.Sub(c.lastHeartbeat) < interval {
		return nil
	}

	c.lastHeartbeat = now
	return &logic.HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(c.snap.StartTime),
		Counts:    c.snap.Counts,
	}
}

// relayEventLocked builds a relay transition event and counts it.
// Caller holds c.mu.
func (c *Controller) relayEventLocked(now time.Time, on bool) logic.Event {
	if on {
		c.snap.Counts.RelayOn++
	} else {
		c.snap.Counts.RelayOff++
	}
	return logic.Event{
		Timestamp:   now,
		Type:        logic.RelayEventType(on),
		Temperature: c.snap.Temperature,
		HaveReading: c.snap.HaveReading,
		Mode:        c.snap.Mode,
		Relay:       on,
	}
}

// actuateLocked drives the relay and writes the status line. A failed write
// keeps the recorded state (it reflects intent; automatic mode re-asserts it
// every tick) and surfaces the failure through the status line instead.
// Caller holds c.mu.
func (c *Controller) actuateLocked(on bool, statusText string) {
	if err := c.driver.Set(on); err != nil {
		c.snap.StatusText = "relay write error: " + err.Error()
		return
	}
	c.snap.StatusText = statusText
}
