//go:build !linux

package gpio

import (
	"time"

	"github.com/pkg/errors"
)

// RealReader is not available on non-Linux platforms.
type RealReader struct{}

// NewRealReader returns an error on non-Linux platforms.
func NewRealReader(chipName string, pinA, pinB int) (*RealReader, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Read is not implemented on non-Linux platforms.
func (r *RealReader) Read() (bool, bool, error) {
	return false, false, errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (r *RealReader) Close() error {
	return nil
}

// RealHaptic is not available on non-Linux platforms.
type RealHaptic struct{}

// NewRealHaptic returns an error on non-Linux platforms.
func NewRealHaptic(chipName string, pin int) (*RealHaptic, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Buzz is not implemented on non-Linux platforms.
func (h *RealHaptic) Buzz(time.Duration) error {
	return errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (h *RealHaptic) Close() error {
	return nil
}
