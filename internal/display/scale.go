package display

import "strconv"

// ScaleMode selects the labels printed under the bar.
type ScaleMode int

const (
	// ScaleTime labels major ticks in minutes of the full countdown.
	ScaleTime ScaleMode = iota
	// ScalePercent labels major ticks in percent.
	ScalePercent
)

// Scale draws ruler ticks and labels below the progress bar. It is redrawn
// only on boot and when the mode changes.
type Scale struct {
	surface      Surface
	layout       Layout
	totalSeconds int
}

// NewScale creates a scale for a countdown of totalSeconds.
func NewScale(s Surface, l Layout, totalSeconds int) *Scale {
	return &Scale{surface: s, layout: l, totalSeconds: totalSeconds}
}

// Render clears the scale area and draws majorTicks labelled intervals,
// each split by one minor tick.
func (sc *Scale) Render(majorTicks int, mode ScaleMode) {
	l := sc.layout
	width := int(l.BarWidth())
	if majorTicks <= 0 || width <= 0 {
		return
	}
	minorPx := width / (majorTicks * 2)
	if minorPx == 0 {
		minorPx = 1
	}
	majorPx := 2 * minorPx
	tickY := l.Height - l.BarBottomMargin + 3
	labelY := tickY + 14

	sc.surface.FillRect(l.BarLeftMargin-20, l.Height-l.BarBottomMargin+1, l.BarWidth()+30, l.BarBottomMargin-2, ColorBlack)

	for step := 0; step <= width; step++ {
		x := l.BarLeftMargin + int16(step)
		switch {
		case step%majorPx == 0:
			sc.surface.DrawLine(x, tickY, x, tickY+11, ColorLightGrey)
			sc.surface.DrawText(x, labelY, sc.label(step, width, mode), FontSmall, AlignCenter, ColorLightGrey)
		case step%minorPx == 0:
			sc.surface.DrawLine(x, tickY, x, tickY+4, ColorLightGrey)
		}
	}
}

func (sc *Scale) label(step, width int, mode ScaleMode) string {
	if mode == ScalePercent {
		return strconv.Itoa(step * 100 / width)
	}
	return strconv.Itoa(step * sc.totalSeconds / (width * 60))
}
