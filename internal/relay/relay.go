// Package relay provides binary output actuation with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package relay

// Driver drives the relay output.
type Driver interface {
	// Set drives the relay to the given state. Writes are idempotent;
	// callers may re-assert the current state on every tick.
	Set(on bool) error

	// Close releases GPIO resources.
	Close() error
}

// DefaultPin is the relay control pin (BCM numbering).
const DefaultPin = 17
