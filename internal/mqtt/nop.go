package mqtt

import "github.com/sweeney/relay-thermostat/internal/logic"

// NopPublisher discards everything. Used when MQTT is disabled.
type NopPublisher struct{}

// NewNopPublisher creates a publisher that drops all messages.
func NewNopPublisher() *NopPublisher {
	return &NopPublisher{}
}

// Publish discards the event.
func (*NopPublisher) Publish(logic.Event) error { return nil }

// PublishSystem discards the event.
func (*NopPublisher) PublishSystem(SystemEvent) error { return nil }

// Close is a no-op.
func (*NopPublisher) Close() error { return nil }
