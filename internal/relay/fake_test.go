package relay

import (
	"errors"
	"testing"
)

func TestFakeDriverRecordsWrites(t *testing.T) {
	f := NewFakeDriver()

	if _, ok := f.Last(); ok {
		t.Error("Last should report no writes on a fresh driver")
	}

	f.Set(true)
	f.Set(true)
	f.Set(false)

	if len(f.States) != 3 {
		t.Fatalf("expected 3 writes, got %d", len(f.States))
	}
	want := []bool{true, true, false}
	for i, w := range want {
		if f.States[i] != w {
			t.Errorf("write %d: got %v, want %v", i, f.States[i], w)
		}
	}

	last, ok := f.Last()
	if !ok || last != false {
		t.Errorf("Last: got (%v, %v), want (false, true)", last, ok)
	}
}

func TestFakeDriverSetError(t *testing.T) {
	f := NewFakeDriver()
	f.SetError = errors.New("gpio busy")

	if err := f.Set(true); err == nil {
		t.Error("expected injected error")
	}
	if len(f.States) != 0 {
		t.Error("failed write must not be recorded")
	}
}

func TestFakeDriverCloseAndReset(t *testing.T) {
	f := NewFakeDriver()
	f.Set(true)
	f.Close()

	if !f.Closed {
		t.Error("Close should set Closed")
	}

	f.Reset()
	if f.Closed || len(f.States) != 0 {
		t.Error("Reset should clear state")
	}
}
