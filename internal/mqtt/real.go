package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sweeney/relay-thermostat/internal/logic"
)

// bufferCapacity bounds the number of messages held while disconnected.
const bufferCapacity = 256

// RealPublisher publishes to an actual MQTT broker. Messages that cannot be
// sent while the connection is down are held in an event buffer and replayed,
// oldest first, when the client reconnects.
type RealPublisher struct {
	client paho.Client

	mu  sync.Mutex
	buf *eventBuffer
}

// NewRealPublisher creates a publisher connected to the given broker.
// The initial connect blocks and retries indefinitely, mirroring the device's
// wait-for-network boot behavior; once up, reconnects are automatic.
func NewRealPublisher(broker string) (*RealPublisher, error) {
	p := &RealPublisher{buf: newEventBuffer(bufferCapacity)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("relay-thermostat").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(paho.Client) {
			p.drainBuffered()
		})

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return p, nil
}

// Publish sends a thermostat event to the MQTT broker.
// While disconnected the event is held instead of dropped.
func (p *RealPublisher) Publish(event logic.Event) error {
	if !p.client.IsConnected() {
		p.hold(pendingMsg{event: &event})
		return nil
	}

	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	// QoS 0 (at-most-once), not retained
	return p.send(Topic, payload, 0, false)
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	if !p.client.IsConnected() {
		p.hold(pendingMsg{system: &event})
		return nil
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	// QoS 1 (at-least-once) - lifecycle events should survive flaky links
	return p.send(TopicSystem, payload, 1, event.Retained)
}

func (p *RealPublisher) hold(msg pendingMsg) {
	p.mu.Lock()
	p.buf.push(msg)
	n := p.buf.pending()
	p.mu.Unlock()
	log.Printf("mqtt: disconnected, holding message (%d pending)", n)
}

func (p *RealPublisher) send(topic string, payload []byte, qos byte, retained bool) error {
	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// drainBuffered serializes and replays messages held while disconnected.
func (p *RealPublisher) drainBuffered() {
	p.mu.Lock()
	msgs := p.buf.drain()
	p.mu.Unlock()

	if len(msgs) == 0 {
		return
	}
	log.Printf("mqtt: reconnected, replaying %d held messages", len(msgs))
	for _, m := range msgs {
		var (
			topic    string
			payload  []byte
			qos      byte
			retained bool
			err      error
		)
		switch {
		case m.event != nil:
			topic, qos = Topic, 0
			payload, err = FormatPayload(*m.event)
		case m.system != nil:
			topic, qos, retained = TopicSystem, 1, m.system.Retained
			payload, err = FormatSystemPayload(*m.system)
		default:
			continue
		}
		if err != nil {
			log.Printf("mqtt: replay format error on %s: %v", topic, err)
			continue
		}
		if sendErr := p.send(topic, payload, qos, retained); sendErr != nil {
			log.Printf("mqtt: replay error on %s: %v", topic, sendErr)
		}
	}
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
