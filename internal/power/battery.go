package power

import (
	"github.com/distatus/battery"
	"github.com/pkg/errors"
	"github.com/sweeney/iron-timer/internal/logic"
)

// Sensor reads the battery.
type Sensor interface {
	Read() (logic.BatteryReading, error)
}

// HostSensor reads a battery exposed by the host's power supply class.
type HostSensor struct {
	Index int
}

// NewHostSensor returns a sensor for the battery at index.
func NewHostSensor(index int) *HostSensor {
	return &HostSensor{Index: index}
}

// Read returns the current voltage and charging flag.
func (h *HostSensor) Read() (logic.BatteryReading, error) {
	batteries, err := battery.GetAll()
	if err != nil && len(batteries) == 0 {
		return logic.BatteryReading{}, errors.Wrap(err, "read batteries")
	}
	if h.Index < 0 || h.Index >= len(batteries) {
		return logic.BatteryReading{}, errors.Errorf("battery %d not found (%d present)", h.Index, len(batteries))
	}

	bat := batteries[h.Index]
	if bat == nil {
		return logic.BatteryReading{}, errors.Errorf("battery %d unreadable", h.Index)
	}
	return logic.BatteryReading{
		Voltage:  bat.Voltage,
		Charging: bat.State == battery.Charging,
	}, nil
}
