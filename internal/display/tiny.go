package display

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinydraw"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freesans"
)

// ascent is the baseline offset of each font from the top of its text box.
var ascent = map[Font]int16{
	FontSmall:  13,
	FontMedium: 17,
	FontTitle:  25,
	FontLarge:  34,
}

// rectFiller is implemented by panel drivers with a hardware rectangle fill.
type rectFiller interface {
	FillRectangle(x, y, width, height int16, c color.RGBA) error
}

// TinySurface adapts a tinygo drivers.Displayer into a Surface, using
// tinydraw for shapes and tinyfont for text.
type TinySurface struct {
	display drivers.Displayer
	fonts   map[Font]tinyfont.Fonter
}

// NewTinySurface wraps d.
func NewTinySurface(d drivers.Displayer) *TinySurface {
	return &TinySurface{
		display: d,
		fonts: map[Font]tinyfont.Fonter{
			FontSmall:  &freesans.Regular9pt7b,
			FontMedium: &freesans.Regular12pt7b,
			FontTitle:  &freesans.Bold18pt7b,
			FontLarge:  &freesans.Bold24pt7b,
		},
	}
}

// FillRect fills a w x h rectangle. Empty rectangles are ignored.
func (s *TinySurface) FillRect(x, y, w, h int16, c color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	if f, ok := s.display.(rectFiller); ok {
		if err := f.FillRectangle(x, y, w, h, c); err == nil {
			return
		}
	}
	tinydraw.FilledRectangle(s.display, x, y, w, h, c)
}

// DrawRect strokes the outline of a w x h rectangle.
func (s *TinySurface) DrawRect(x, y, w, h int16, c color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	tinydraw.Rectangle(s.display, x, y, w, h, c)
}

// DrawLine draws a straight line between two points.
func (s *TinySurface) DrawLine(x0, y0, x1, y1 int16, c color.RGBA) {
	tinydraw.Line(s.display, x0, y0, x1, y1, c)
}

// DrawText writes text with its top edge at y.
func (s *TinySurface) DrawText(x, y int16, text string, font Font, align Align, c color.RGBA) {
	f, ok := s.fonts[font]
	if !ok {
		f = s.fonts[FontSmall]
	}
	if align == AlignCenter {
		_, w := tinyfont.LineWidth(f, text)
		x -= int16(w / 2)
	}
	// tinyfont addresses the baseline.
	tinyfont.WriteLine(s.display, f, x, y+ascent[font], text, c)
}

// Flush pushes the frame to the panel.
func (s *TinySurface) Flush() error {
	return s.display.Display()
}

// Blank puts the panel to sleep when the driver supports it.
func (s *TinySurface) Blank() error {
	if b, ok := s.display.(Blanker); ok {
		return b.Blank()
	}
	return nil
}
