package display

import (
	"image"
	"image/color"
)

// ImageDisplay is an in-memory drivers.Displayer backed by an image.RGBA.
// It is used when no panel is configured and by tests.
type ImageDisplay struct {
	img     *image.RGBA
	flushes int
}

// NewImageDisplay creates a w x h display.
func NewImageDisplay(w, h int16) *ImageDisplay {
	return &ImageDisplay{img: image.NewRGBA(image.Rect(0, 0, int(w), int(h)))}
}

// Size returns the display dimensions.
func (d *ImageDisplay) Size() (x, y int16) {
	b := d.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

// SetPixel sets one pixel; writes outside the frame are dropped.
func (d *ImageDisplay) SetPixel(x, y int16, c color.RGBA) {
	d.img.SetRGBA(int(x), int(y), c)
}

// Display counts a flush; the image is always current.
func (d *ImageDisplay) Display() error {
	d.flushes++
	return nil
}

// At returns the colour of one pixel.
func (d *ImageDisplay) At(x, y int) color.RGBA {
	return d.img.RGBAAt(x, y)
}

// Flushes returns how many times Display was called.
func (d *ImageDisplay) Flushes() int {
	return d.flushes
}
