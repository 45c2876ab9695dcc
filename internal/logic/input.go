package logic

// TouchXToPercent maps a touch x-coordinate onto the bar that starts at
// leftMargin and spans barWidth pixels. Touches left of the bar read 0,
// touches at or past its right edge read 100.
func TouchXToPercent(x, leftMargin, barWidth int) int {
	if barWidth <= 0 || x <= leftMargin {
		return 0
	}
	if x >= leftMargin+barWidth {
		return 100
	}
	return (x - leftMargin) * 100 / barWidth
}

// PercentToX is the inverse of TouchXToPercent, rounding up so that the
// round trip never loses more than one percent to truncation.
func PercentToX(percent, leftMargin, barWidth int) int {
	percent = clampInt(percent, 0, 100)
	return leftMargin + (percent*barWidth+99)/100
}

// ButtonConfig holds the discrete adjustment sizes used by the buttons.
type ButtonConfig struct {
	StepSeconds  int
	FloorSeconds int
}

// DefaultButtonConfig returns the 120 s step with a 5 s floor.
func DefaultButtonConfig() ButtonConfig {
	return ButtonConfig{
		StepSeconds:  DefaultStepSeconds,
		FloorSeconds: DefaultFloorSeconds,
	}
}

// ApplyButton applies a classified button event to the timer.
// It reports whether the event changed anything the user can perceive.
func ApplyButton(t *Timer, ev ButtonEvent, cfg ButtonConfig) bool {
	switch {
	case ev.Button == ButtonA && ev.Gesture == GestureClick:
		t.AdjustRelative(-cfg.StepSeconds, cfg.FloorSeconds)
	case ev.Button == ButtonB && ev.Gesture == GestureClick:
		t.AdjustRelative(cfg.StepSeconds, cfg.FloorSeconds)
	case ev.Button == ButtonA && ev.Gesture == GestureLongPress:
		t.ResetToFloor(cfg.FloorSeconds)
	default:
		// B long-press is reserved.
		return false
	}
	return true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
