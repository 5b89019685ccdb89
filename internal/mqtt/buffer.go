package mqtt

import (
	"log"

	"github.com/sweeney/relay-thermostat/internal/logic"
)

// pendingMsg is one message held while the broker connection is down.
// Exactly one of event/system is set. The payload is not serialized until
// replay, so buffered messages always go out in the current wire format.
type pendingMsg struct {
	event  *logic.Event
	system *SystemEvent
}

// eventBuffer is a fixed-capacity FIFO holding unsent messages during a
// broker outage. On overflow the oldest message is dropped.
// Not safe for concurrent use — caller must synchronize.
type eventBuffer struct {
	entries  []pendingMsg
	capacity int
	head     int // next write position
	count    int
	dropping bool // a drop was already logged since the last drain
}

func newEventBuffer(capacity int) *eventBuffer {
	return &eventBuffer{
		entries:  make([]pendingMsg, capacity),
		capacity: capacity,
	}
}

func (b *eventBuffer) pushEvent(ev logic.Event) {
	b.push(pendingMsg{event: &ev})
}

func (b *eventBuffer) pushSystem(ev SystemEvent) {
	b.push(pendingMsg{system: &ev})
}

func (b *eventBuffer) push(msg pendingMsg) {
	if b.count == b.capacity {
		if !b.dropping {
			log.Printf("mqtt: %d messages pending, dropping oldest", b.capacity)
			b.dropping = true
		}
		// head already points at the oldest entry; overwrite it
		b.entries[b.head] = msg
		b.head = (b.head + 1) % b.capacity
		return
	}
	b.entries[b.head] = msg
	b.head = (b.head + 1) % b.capacity
	b.count++
}

// drain returns the held messages oldest first and empties the buffer.
func (b *eventBuffer) drain() []pendingMsg {
	if b.count == 0 {
		return nil
	}

	out := make([]pendingMsg, b.count)
	start := (b.head - b.count + b.capacity) % b.capacity
	for i := range out {
		out[i] = b.entries[(start+i)%b.capacity]
	}

	b.count = 0
	b.head = 0
	b.dropping = false
	return out
}

func (b *eventBuffer) pending() int {
	return b.count
}
