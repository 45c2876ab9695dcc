//go:build linux

package gpio

import (
	"time"

	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads the buttons from actual hardware using Linux GPIO character device.
type RealReader struct {
	chip *gpiocdev.Chip
	aPin *gpiocdev.Line
	bPin *gpiocdev.Line
}

// NewRealReader requests the two button lines on chipName.
func NewRealReader(chipName string, pinA, pinB int) (*RealReader, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, errors.Wrapf(err, "open gpio chip %s", chipName)
	}

	// The buttons short the line to ground, so hold it high when released.
	aLine, err := chip.RequestLine(pinA, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, errors.Wrapf(err, "request button A pin %d", pinA)
	}

	bLine, err := chip.RequestLine(pinB, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		aLine.Close()
		chip.Close()
		return nil, errors.Wrapf(err, "request button B pin %d", pinB)
	}

	return &RealReader{
		chip: chip,
		aPin: aLine,
		bPin: bLine,
	}, nil
}

// Read returns the pressed state of A and B.
// Inverts raw GPIO: raw 0 = pressed.
func (r *RealReader) Read() (bool, bool, error) {
	aRaw, err := r.aPin.Value()
	if err != nil {
		return false, false, errors.Wrap(err, "read button A")
	}

	bRaw, err := r.bPin.Value()
	if err != nil {
		return false, false, errors.Wrap(err, "read button B")
	}

	return aRaw == 0, bRaw == 0, nil
}

// Close releases GPIO resources.
func (r *RealReader) Close() error {
	var errs []error

	if r.aPin != nil {
		if err := r.aPin.Close(); err != nil {
			errs = append(errs, errors.Wrap(err, "close button A"))
		}
	}
	if r.bPin != nil {
		if err := r.bPin.Close(); err != nil {
			errs = append(errs, errors.Wrap(err, "close button B"))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, errors.Wrap(err, "close chip"))
		}
	}

	if len(errs) > 0 {
		return errors.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealHaptic pulses a vibration motor driven from an output line.
type RealHaptic struct {
	line *gpiocdev.Line
}

// NewRealHaptic requests pin on chipName as an output, initially off.
func NewRealHaptic(chipName string, pin int) (*RealHaptic, error) {
	line, err := gpiocdev.RequestLine(chipName, pin, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, errors.Wrapf(err, "request haptic pin %d", pin)
	}
	return &RealHaptic{line: line}, nil
}

// Buzz drives the motor for d.
func (h *RealHaptic) Buzz(d time.Duration) error {
	if err := h.line.SetValue(1); err != nil {
		return errors.Wrap(err, "start haptic")
	}
	time.Sleep(d)
	if err := h.line.SetValue(0); err != nil {
		return errors.Wrap(err, "stop haptic")
	}
	return nil
}

// Close turns the motor off and releases the line.
func (h *RealHaptic) Close() error {
	h.line.SetValue(0)
	return h.line.Close()
}
