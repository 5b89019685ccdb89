// Package sensor provides temperature acquisition with hardware abstraction.
// The real implementation reads a DS18B20 over the one-wire sysfs interface.
// The fake implementation allows testing without hardware.
package sensor

// Reader reads ambient temperature.
type Reader interface {
	// Read returns the current temperature in degrees Celsius.
	// A failed read returns an error; the caller retries on the next tick.
	Read() (float64, error)

	// Close releases sensor resources.
	Close() error
}
