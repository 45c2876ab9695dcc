package display

import (
	"fmt"
	"image/color"

	"github.com/sweeney/iron-timer/internal/logic"
)

// Messages shown above the countdown.
const (
	MessageConnecting = "Connecting"
	MessageDone       = "Done"
	MessageTimeLeft   = "Time Left"
	MessageSwitchOff  = "Switch off in"
)

const (
	title = "Iron Timer"

	scaleMajorTicks = 5

	battSpriteWidth  = 85
	battSpriteHeight = 42
	battRectWidth    = 16
	battRectHeight   = 35
	battNubWidth     = 6
	battNubHeight    = 4
	battOffsetX      = 9

	countdownBoxWidth  = 135
	countdownBoxHeight = 42
)

// Screen composes the single countdown screen and the transient update
// overlays from Surface commands. Redraws are skipped when nothing changed.
type Screen struct {
	surface Surface
	layout  Layout
	bar     *ProgressBar
	scale   *Scale
	version string

	message       string
	countdown     string
	countdownWarn bool
}

// NewScreen creates a screen for a countdown of totalSeconds.
func NewScreen(s Surface, l Layout, totalSeconds int, version string) *Screen {
	return &Screen{
		surface: s,
		layout:  l,
		bar:     NewProgressBar(s, l),
		scale:   NewScale(s, l, totalSeconds),
		version: version,
	}
}

// Bar returns the screen's progress bar.
func (sc *Screen) Bar() *ProgressBar {
	return sc.bar
}

// DrawTitle draws the title bar and screen border.
func (sc *Screen) DrawTitle() {
	l := sc.layout
	sc.surface.DrawRect(0, 0, l.Width, l.Height, ColorTitleBG)
	sc.surface.FillRect(0, 0, l.Width, l.TitleHeight, ColorTitleBG)
	sc.surface.DrawText(44, 8, title, FontTitle, AlignLeft, ColorTitleText)
	sc.surface.DrawText(5, 15, sc.version, FontSmall, AlignLeft, ColorTitleText)
}

// Boot draws the countdown furniture: message, bar frame, a full bar and the
// time scale.
func (sc *Screen) Boot() {
	sc.Message(MessageTimeLeft)
	sc.bar.DrawFrame()
	sc.bar.Render(100)
	sc.scale.Render(scaleMajorTicks, ScaleTime)
}

// Message replaces the line of text above the countdown.
func (sc *Screen) Message(msg string) {
	if msg == sc.message {
		return
	}
	sc.message = msg
	l := sc.layout
	sc.surface.FillRect(10, l.messageY(), l.Width-20, 30, ColorBlack)
	sc.surface.DrawText(l.Width/2, l.messageY(), msg, FontTitle, AlignCenter, ColorLightGrey)
}

// FormatCountdown renders seconds as mm:ss with a space-padded minute field.
func FormatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%2d:%02d", seconds/60, seconds%60)
}

// Countdown draws the remaining time, in the alert colour while warning.
// It reports whether anything was drawn.
func (sc *Screen) Countdown(remaining int, warning bool) bool {
	text := FormatCountdown(remaining)
	if text == sc.countdown && warning == sc.countdownWarn {
		return false
	}
	sc.countdown = text
	sc.countdownWarn = warning

	c := ColorYellow
	if warning {
		c = ColorRed
	}
	l := sc.layout
	sc.surface.FillRect(l.Width/2-countdownBoxWidth/2, l.countdownY(), countdownBoxWidth, countdownBoxHeight, ColorBlack)
	sc.surface.DrawText(l.Width/2, l.countdownY(), text, FontLarge, AlignCenter, c)
	return true
}

// BandColor returns the fill colour for a charge band.
func BandColor(b logic.ChargeBand) color.RGBA {
	switch b {
	case logic.BandAlert:
		return ColorRed
	case logic.BandWarning:
		return ColorOrange
	default:
		return ColorDarkGreen
	}
}

// Battery draws the battery icon, charge percentage and voltage in the
// right-hand corner of the title bar.
func (sc *Screen) Battery(r logic.BatteryReading) {
	percent := r.Percent()
	bx := sc.layout.Width - battSpriteWidth
	var by int16

	sc.surface.FillRect(bx, by, battSpriteWidth, battSpriteHeight, ColorTitleBG)

	textX := bx + battOffsetX + battRectWidth + 7
	sc.surface.DrawText(textX, by+8, fmt.Sprintf("%3d%%", percent), FontSmall, AlignLeft, ColorTitleText)
	sc.surface.DrawText(textX, by+26, fmt.Sprintf("%.2fV", r.Voltage), FontSmall, AlignLeft, ColorTitleText)

	top := by + battSpriteHeight - battRectHeight
	sc.surface.DrawRect(bx+battOffsetX, top, battRectWidth, battRectHeight, ColorBlack)
	sc.surface.FillRect(bx+battOffsetX+battRectWidth/2-battNubWidth/2, top-battNubHeight-1, battNubWidth, battNubHeight, ColorBlack)

	fill := int16(percent * battRectHeight / 100)
	if fill > 4 {
		sc.surface.FillRect(bx+battOffsetX+2, by+battSpriteHeight-fill+2, battRectWidth-4, fill-4, BandColor(logic.ChargeBandFor(percent)))
	}

	if r.Charging {
		cx := bx + battOffsetX + battRectWidth/2
		cy := by + battSpriteHeight - battRectHeight/2 - 3
		sc.surface.DrawLine(cx+3, cy-10, cx-3, cy, ColorOrange)
		sc.surface.DrawLine(cx-3, cy, cx+3, cy, ColorOrange)
		sc.surface.DrawLine(cx+3, cy, cx-3, cy+10, ColorOrange)
	}
}

// ClearCentre blanks the area between the title bar and the progress bar.
func (sc *Screen) ClearCentre() {
	l := sc.layout
	sc.surface.FillRect(2, l.TitleHeight+1, l.Width-4, l.Height-l.BarHeight-l.BarBottomMargin-l.TitleHeight-5, ColorBlack)
	sc.message = ""
	sc.countdown = ""
}

// RestoreCountdown puts the countdown furniture back after an update overlay.
func (sc *Screen) RestoreCountdown() {
	sc.ClearCentre()
	sc.Message(MessageTimeLeft)
	sc.scale.Render(scaleMajorTicks, ScaleTime)
}

// UpdateStarted shows the update overlay with a percent scale.
func (sc *Screen) UpdateStarted(detail string) {
	l := sc.layout
	sc.ClearCentre()
	sc.scale.Render(scaleMajorTicks, ScalePercent)
	sc.surface.DrawText(l.Width/2, l.TitleHeight+15, "Updating", FontTitle, AlignCenter, ColorLightGrey)
	if detail != "" {
		sc.surface.DrawText(20, l.TitleHeight+65, detail, FontSmall, AlignLeft, ColorGreen)
	}
}

// UpdateProgress shows the percentage received and moves the bar.
func (sc *Screen) UpdateProgress(percent int) {
	l := sc.layout
	sc.surface.FillRect(l.Width/2-40, l.Height-100, 80, 30, ColorBlack)
	sc.surface.DrawText(l.Width/2, l.Height-100, fmt.Sprintf("%2d%%", percent), FontTitle, AlignCenter, ColorYellow)
	sc.bar.Render(percent)
}

// UpdateFinished shows the completion overlay.
func (sc *Screen) UpdateFinished() {
	l := sc.layout
	sc.ClearCentre()
	sc.surface.DrawText(l.Width/2, l.TitleHeight+40, "Finished update!", FontTitle, AlignCenter, ColorLightGrey)
	sc.surface.DrawText(l.Width/2, l.TitleHeight+80, "Rebooting...", FontTitle, AlignCenter, ColorLightGrey)
}

// UpdateFailed shows an update error code and its category label.
func (sc *Screen) UpdateFailed(code int, label string) {
	l := sc.layout
	sc.ClearCentre()
	sc.surface.DrawText(l.Width/2, l.TitleHeight+15, "Update Error", FontMedium, AlignCenter, ColorYellow)
	sc.surface.DrawText(50, l.TitleHeight+45, fmt.Sprintf("Error[%d]:", code), FontMedium, AlignLeft, ColorRed)
	sc.surface.DrawText(150, l.TitleHeight+45, label, FontMedium, AlignLeft, ColorGreen)
}

// Flush pushes pending draw commands to the panel.
func (sc *Screen) Flush() error {
	return sc.surface.Flush()
}
