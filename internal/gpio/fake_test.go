package gpio

import (
	"errors"
	"testing"
	"time"
)

func TestFakeReaderRead(t *testing.T) {
	samples := []Sample{
		{A: true, B: false},
		{A: false, B: true},
		{A: true, B: true},
	}

	f := NewFakeReader(samples)

	for i, want := range samples {
		a, b, err := f.Read()
		if err != nil {
			t.Fatalf("sample %d: unexpected error: %v", i, err)
		}
		if a != want.A || b != want.B {
			t.Errorf("sample %d: expected (%v, %v), got (%v, %v)", i, want.A, want.B, a, b)
		}
	}

	// Fourth read should repeat last sample
	a, b, err := f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != true || b != true {
		t.Errorf("sample 3 (repeat): expected (true, true), got (%v, %v)", a, b)
	}
}

func TestFakeReaderNoSamples(t *testing.T) {
	f := NewFakeReader(nil)

	_, _, err := f.Read()
	if err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeReaderError(t *testing.T) {
	f := NewFakeReader([]Sample{{A: true, B: true}})
	f.ReadError = errors.New("simulated error")

	_, _, err := f.Read()
	if err == nil {
		t.Error("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeReaderCloseAndReset(t *testing.T) {
	f := NewFakeReader([]Sample{{A: true}, {B: true}})
	f.Read()

	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}

	f.Reset()
	a, b, _ := f.Read()
	if a != true || b != false {
		t.Errorf("after reset: expected (true, false), got (%v, %v)", a, b)
	}
}

func TestFakeHaptic(t *testing.T) {
	h := &FakeHaptic{}
	if err := h.Buzz(200 * time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.Pulses) != 1 || h.Pulses[0] != 200*time.Millisecond {
		t.Errorf("unexpected pulses: %v", h.Pulses)
	}

	h.BuzzError = errors.New("motor fault")
	if err := h.Buzz(time.Millisecond); err == nil {
		t.Error("expected error")
	}
}
