// Package status provides a thread-safe status tracker for the iron-timer daemon.
// It is written by the scheduler and read by HTTP handlers and metrics.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/iron-timer/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	TotalSeconds   int
	WarningSeconds int
	StepSeconds    int
	FloorSeconds   int
	Broker         string
	HTTPAddr       string
	Version        string
}

// Counts tallies inputs since start.
type Counts struct {
	AClick    int
	ALong     int
	BClick    int
	BLong     int
	Touches   int
	RemoteOn  int
	RemoteOff int
}

// UpdateInfo describes the most recent firmware update.
type UpdateInfo struct {
	Active    bool
	Percent   int
	LastError string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Remaining     int
	Total         int
	Percent       int
	Warning       bool
	Power         string
	Battery       logic.BatteryReading
	BatteryRead   bool
	MQTTConnected bool
	Counts        Counts
	Update        UpdateInfo
	StartTime     time.Time
	Now           time.Time
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
			Total:     cfg.TotalSeconds,
			Remaining: cfg.TotalSeconds,
			Percent:   100,
			Power:     "ACTIVE",
		},
	}
}

// UpdateTimer records the countdown. Called from the scheduler every frame.
func (t *Tracker) UpdateTimer(remaining, total, percent int, warning bool) {
	t.mu.Lock()
	t.snap.Remaining = remaining
	t.snap.Total = total
	t.snap.Percent = percent
	t.snap.Warning = warning
	t.mu.Unlock()
}

// SetPower records the power state name.
func (t *Tracker) SetPower(state string) {
	t.mu.Lock()
	t.snap.Power = state
	t.mu.Unlock()
}

// SetBattery records the latest battery reading.
func (t *Tracker) SetBattery(r logic.BatteryReading) {
	t.mu.Lock()
	t.snap.Battery = r
	t.snap.BatteryRead = true
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// CountButton tallies a classified button event.
func (t *Tracker) CountButton(ev logic.ButtonEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c := &t.snap.Counts
	switch {
	case ev.Button == logic.ButtonA && ev.Gesture == logic.GestureClick:
		c.AClick++
	case ev.Button == logic.ButtonA && ev.Gesture == logic.GestureLongPress:
		c.ALong++
	case ev.Button == logic.ButtonB && ev.Gesture == logic.GestureClick:
		c.BClick++
	case ev.Button == logic.ButtonB && ev.Gesture == logic.GestureLongPress:
		c.BLong++
	}
}

// CountTouch tallies a touch adjustment.
func (t *Tracker) CountTouch() {
	t.mu.Lock()
	t.snap.Counts.Touches++
	t.mu.Unlock()
}

// CountRemote tallies a remote command.
func (t *Tracker) CountRemote(on bool) {
	t.mu.Lock()
	if on {
		t.snap.Counts.RemoteOn++
	} else {
		t.snap.Counts.RemoteOff++
	}
	t.mu.Unlock()
}

// SetUpdate records firmware update progress.
func (t *Tracker) SetUpdate(info UpdateInfo) {
	t.mu.Lock()
	t.snap.Update = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
