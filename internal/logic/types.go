// Package logic contains the pure countdown, input-mapping and battery-estimation
// rules of the iron timer.
// This package has NO external dependencies (no GPIO, MQTT, display, or time.Sleep).
package logic

// Default timing values, in seconds.
const (
	DefaultTotalSeconds   = 300
	DefaultWarningSeconds = 5
	DefaultFloorSeconds   = 5
	DefaultStepSeconds    = 120
)

// Button identifies one of the two physical push buttons.
type Button string

const (
	ButtonA Button = "A"
	ButtonB Button = "B"
)

// Gesture is an already-classified button action.
type Gesture string

const (
	GestureClick     Gesture = "CLICK"
	GestureLongPress Gesture = "LONG_PRESS"
)

// ButtonEvent is a single classified button action.
type ButtonEvent struct {
	Button  Button
	Gesture Gesture
}

// ChargeBand is the colour band used to draw the battery level.
type ChargeBand int

const (
	BandAlert ChargeBand = iota
	BandWarning
	BandNormal
)

func (b ChargeBand) String() string {
	switch b {
	case BandAlert:
		return "alert"
	case BandWarning:
		return "warning"
	default:
		return "normal"
	}
}

// BatteryReading is a raw sample from the power-management collaborator.
type BatteryReading struct {
	Voltage  float64 // volts
	Charging bool
}

// Percent returns the estimated charge of the reading.
func (r BatteryReading) Percent() int {
	return LipoCapacityPercent(r.Voltage)
}
