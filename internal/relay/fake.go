package relay

// FakeDriver is a test double that records every relay write.
type FakeDriver struct {
	// States contains every value passed to Set, in order.
	States []bool

	// Closed tracks if Close was called.
	Closed bool

	// SetError, if set, will be returned by Set.
	SetError error
}

// NewFakeDriver creates a FakeDriver for testing.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{}
}

// Set records the requested state.
func (f *FakeDriver) Set(on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.States = append(f.States, on)
	return nil
}

// Close marks the driver as closed.
func (f *FakeDriver) Close() error {
	f.Closed = true
	return nil
}

// Last returns the most recent write and whether any write happened.
func (f *FakeDriver) Last() (bool, bool) {
	if len(f.States) == 0 {
		return false, false
	}
	return f.States[len(f.States)-1], true
}

// Reset clears recorded writes.
func (f *FakeDriver) Reset() {
	f.States = nil
	f.Closed = false
	f.SetError = nil
}
