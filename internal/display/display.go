// Package display draws the countdown screen onto a drawing surface.
// Rasterisation is delegated to the Surface; this package only decides
// what to draw and where.
package display

import "image/color"

// Font selects one of the fixed text styles used on the screen.
type Font int

const (
	FontSmall  Font = iota // scale labels, battery text
	FontMedium             // update error details
	FontTitle              // title bar and messages
	FontLarge              // mm:ss countdown
)

// Align is the horizontal anchor of a text command.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// Surface accepts draw commands with explicit coordinates and colours.
// Text coordinates address the top of the text box.
type Surface interface {
	FillRect(x, y, w, h int16, c color.RGBA)
	DrawRect(x, y, w, h int16, c color.RGBA)
	DrawLine(x0, y0, x1, y1 int16, c color.RGBA)
	DrawText(x, y int16, text string, font Font, align Align, c color.RGBA)
	// Flush pushes pending commands to the panel.
	Flush() error
}

// Blanker is implemented by surfaces whose panel can be put to sleep.
type Blanker interface {
	Blank() error
}

var (
	ColorBlack     = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}
	ColorGreen     = color.RGBA{R: 0x00, G: 0xFF, B: 0x00, A: 0xFF}
	ColorDarkGreen = color.RGBA{R: 0x00, G: 0x80, B: 0x00, A: 0xFF}
	ColorYellow    = color.RGBA{R: 0xFF, G: 0xFF, B: 0x00, A: 0xFF}
	ColorOrange    = color.RGBA{R: 0xFF, G: 0xA5, B: 0x00, A: 0xFF}
	ColorRed       = color.RGBA{R: 0xFF, G: 0x00, B: 0x00, A: 0xFF}
	ColorLightGrey = color.RGBA{R: 0xD3, G: 0xD3, B: 0xD3, A: 0xFF}
	ColorDarkGrey  = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	ColorTitleBG   = color.RGBA{R: 0x99, G: 0xDD, B: 0xFF, A: 0xFF}
	ColorTitleText = color.RGBA{R: 0x26, G: 0x26, B: 0x26, A: 0xFF}
)

// Layout is the screen geometry in pixels.
type Layout struct {
	Width  int16
	Height int16

	TitleHeight int16

	BarLeftMargin   int16
	BarRightMargin  int16
	BarBottomMargin int16
	BarHeight       int16
}

// DefaultLayout is the 320x240 panel layout.
func DefaultLayout() Layout {
	return Layout{
		Width:           320,
		Height:          240,
		TitleHeight:     45,
		BarLeftMargin:   25,
		BarRightMargin:  25,
		BarBottomMargin: 37,
		BarHeight:       25,
	}
}

// BarWidth returns the pixel width of the progress bar.
func (l Layout) BarWidth() int16 {
	return l.Width - l.BarLeftMargin - l.BarRightMargin
}

// BarY returns the top row of the progress bar.
func (l Layout) BarY() int16 {
	return l.Height - l.BarHeight - l.BarBottomMargin
}

// messageY is the top of the message line above the countdown.
func (l Layout) messageY() int16 {
	return l.Height/2 - 50
}

// countdownY is the top of the mm:ss text.
func (l Layout) countdownY() int16 {
	return l.messageY() + 53
}
