package sensor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// w1Glob matches DS18B20 devices (family code 28) on the one-wire bus.
const w1Glob = "/sys/bus/w1/devices/28-*/w1_slave"

// resetReading is the DS18B20 power-on-reset value. Seeing it means the
// conversion never ran, so it is treated as a read failure, not a sample.
const resetReading = 85.0

// W1Reader reads a DS18B20 temperature sensor via the one-wire sysfs file.
type W1Reader struct {
	path string
}

// NewW1Reader creates a reader for the given w1_slave file. An empty path
// discovers the first DS18B20 on the bus.
func NewW1Reader(path string) (*W1Reader, error) {
	if path == "" {
		matches, err := filepath.Glob(w1Glob)
		if err != nil || len(matches) == 0 {
			return nil, errors.New("no DS18B20 device found on one-wire bus")
		}
		path = matches[0]
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("sensor device: %w", err)
	}
	return &W1Reader{path: path}, nil
}

// Read reads and parses the w1_slave file.
func (r *W1Reader) Read() (float64, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", r.path, err)
	}
	return ParseW1Slave(data)
}

// Close releases sensor resources. The sysfs reader holds none.
func (r *W1Reader) Close() error {
	return nil
}

// ParseW1Slave parses the two-line w1_slave format:
//
//	73 01 4b 46 7f ff 0d 10 41 : crc=41 YES
//	73 01 4b 46 7f ff 0d 10 41 t=23187
//
// The first line carries the CRC verdict; the second the temperature in
// millidegrees Celsius.
func ParseW1Slave(data []byte) (float64, error) {
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) < 2 {
		return 0, errors.New("short w1_slave payload")
	}

	if !strings.HasSuffix(strings.TrimSpace(lines[0]), "YES") {
		return 0, errors.New("crc check failed")
	}

	i := strings.LastIndex(lines[1], "t=")
	if i < 0 {
		return 0, errors.New("missing t= field")
	}
	milli, err := strconv.Atoi(strings.TrimSpace(lines[1][i+2:]))
	if err != nil {
		return 0, fmt.Errorf("parse temperature: %w", err)
	}

	temp := float64(milli) / 1000.0
	if temp == resetReading {
		return 0, errors.New("power-on-reset reading (85°C)")
	}
	return temp, nil
}
