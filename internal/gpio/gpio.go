// Package gpio provides button and haptic-actuator access with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import "time"

// Reader reads the raw button levels.
type Reader interface {
	// Read returns whether buttons A and B are currently held down.
	// The buttons are active low: raw 0 = pressed.
	// Returns (aPressed, bPressed, error).
	Read() (bool, bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Haptic drives the vibration motor.
type Haptic interface {
	// Buzz runs the motor for d. It blocks for the duration of the pulse.
	Buzz(d time.Duration) error
}

// Line offsets on gpiochip0.
const (
	DefaultPinA      = 32
	DefaultPinB      = 33
	DefaultPinHaptic = -1 // disabled
)

// NoHaptic is a Haptic with no motor attached.
type NoHaptic struct{}

// Buzz does nothing.
func (NoHaptic) Buzz(time.Duration) error { return nil }
