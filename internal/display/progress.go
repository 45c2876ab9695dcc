package display

import "image/color"

// ProgressBar renders a percentage as a horizontal fill, drawing only the
// columns that changed since the previous render.
type ProgressBar struct {
	surface Surface
	x, y    int16
	width   int16
	height  int16

	fill   color.RGBA
	bg     color.RGBA
	border color.RGBA

	// last is the boundary column drawn by the previous render, relative to x.
	last int16
}

// NewProgressBar creates a bar for the layout's bar region.
func NewProgressBar(s Surface, l Layout) *ProgressBar {
	return &ProgressBar{
		surface: s,
		x:       l.BarLeftMargin,
		y:       l.BarY(),
		width:   l.BarWidth(),
		height:  l.BarHeight,
		fill:    ColorGreen,
		bg:      ColorBlack,
		border:  ColorDarkGrey,
		last:    1,
	}
}

// DrawFrame draws the bar's border stroke.
func (b *ProgressBar) DrawFrame() {
	b.surface.DrawRect(b.x, b.y, b.width, b.height, b.border)
}

// Boundary maps percent onto a boundary column, keeping a one-pixel inset
// on both sides so the border stroke is never overdrawn.
func (b *ProgressBar) Boundary(percent int) int16 {
	switch {
	case percent >= 100:
		return b.width - 1
	case percent <= 0:
		return 1
	}
	x := int16(percent * int(b.width) / 100)
	if x < 1 {
		return 1
	}
	return x
}

// Render moves the fill edge to percent. It reports whether anything was drawn.
func (b *ProgressBar) Render(percent int) bool {
	target := b.Boundary(percent)
	last := b.last
	b.last = target

	switch {
	case target < last:
		b.surface.FillRect(b.x+target, b.y+1, last-target, b.height-2, b.bg)
	case target > last:
		b.surface.FillRect(b.x+last, b.y+1, target-last, b.height-2, b.fill)
	default:
		return false
	}
	return true
}

// Last returns the boundary column of the most recent render.
func (b *ProgressBar) Last() int16 {
	return b.last
}
