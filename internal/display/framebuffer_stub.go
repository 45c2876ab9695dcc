//go:build !linux

package display

import (
	"image/color"

	"github.com/pkg/errors"
)

// Framebuffer is not available on non-Linux platforms.
type Framebuffer struct{}

// OpenFramebuffer returns an error on non-Linux platforms.
func OpenFramebuffer(device, blankPath string, width, height int16) (*Framebuffer, error) {
	return nil, errors.New("display: framebuffer not supported on this platform (requires Linux)")
}

// Size is not implemented on non-Linux platforms.
func (fb *Framebuffer) Size() (x, y int16) { return 0, 0 }

// SetPixel is not implemented on non-Linux platforms.
func (fb *Framebuffer) SetPixel(x, y int16, c color.RGBA) {}

// Display is not implemented on non-Linux platforms.
func (fb *Framebuffer) Display() error { return errors.New("display: not supported") }

// Blank is not implemented on non-Linux platforms.
func (fb *Framebuffer) Blank() error { return nil }

// Close is not implemented on non-Linux platforms.
func (fb *Framebuffer) Close() error { return nil }
