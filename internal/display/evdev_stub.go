//go:build !linux

package display

import "github.com/pkg/errors"

// EvdevTouch is not available on non-Linux platforms.
type EvdevTouch struct{ NoTouch }

// OpenEvdevTouch returns an error on non-Linux platforms.
func OpenEvdevTouch(device string) (*EvdevTouch, error) {
	return nil, errors.New("display: evdev touch not supported on this platform (requires Linux)")
}
