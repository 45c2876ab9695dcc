package power

import "github.com/sweeney/iron-timer/internal/logic"

// FakeSensor returns queued readings, repeating the last one.
type FakeSensor struct {
	Readings []logic.BatteryReading
	Err      error
	Reads    int
}

// Read returns the next queued reading.
func (f *FakeSensor) Read() (logic.BatteryReading, error) {
	f.Reads++
	if f.Err != nil {
		return logic.BatteryReading{}, f.Err
	}
	if len(f.Readings) == 0 {
		return logic.BatteryReading{}, nil
	}
	r := f.Readings[0]
	if len(f.Readings) > 1 {
		f.Readings = f.Readings[1:]
	}
	return r, nil
}

// FakeSleeper counts DeepSleep calls.
type FakeSleeper struct {
	Calls int
	Err   error
}

// DeepSleep records the call.
func (f *FakeSleeper) DeepSleep() error {
	f.Calls++
	return f.Err
}

// FakeBlanker counts Blank calls.
type FakeBlanker struct {
	Calls int
	Err   error
}

// Blank records the call.
func (f *FakeBlanker) Blank() error {
	f.Calls++
	return f.Err
}
