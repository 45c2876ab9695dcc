// Package scheduler runs the timer's cooperative main loop: one goroutine
// polls every collaborator in a fixed order and drives the fast (display)
// and slow (countdown) cadences from an injected clock.
package scheduler

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sweeney/iron-timer/internal/display"
	"github.com/sweeney/iron-timer/internal/gpio"
	"github.com/sweeney/iron-timer/internal/logic"
	"github.com/sweeney/iron-timer/internal/mqtt"
	"github.com/sweeney/iron-timer/internal/ota"
	"github.com/sweeney/iron-timer/internal/power"
	"github.com/sweeney/iron-timer/internal/status"
)

// Terminal results of Run.
var (
	// ErrAsleep means the device went to sleep and returned; the process
	// should exit so the supervisor starts it afresh.
	ErrAsleep = errors.New("asleep pending wake")
	// ErrRestart means a firmware update was installed.
	ErrRestart = errors.New("restart after update")
)

// Default loop timings.
const (
	DefaultFastInterval    = 250 * time.Millisecond
	DefaultSlowInterval    = time.Second
	DefaultTouchSettle     = 20 * time.Millisecond
	DefaultIdle            = 10 * time.Millisecond
	DefaultHapticDuration  = 200 * time.Millisecond
	DefaultUpdateErrorHold = 5 * time.Second
)

// ButtonSource yields classified button events.
type ButtonSource interface {
	Poll(now time.Time) ([]logic.ButtonEvent, error)
}

// Config holds loop timings and input mapping.
type Config struct {
	FastInterval    time.Duration
	SlowInterval    time.Duration
	TouchSettle     time.Duration
	Idle            time.Duration
	HapticDuration  time.Duration
	UpdateErrorHold time.Duration
	Buttons         logic.ButtonConfig
}

// DefaultConfig returns the stock loop settings.
func DefaultConfig() Config {
	return Config{
		FastInterval:    DefaultFastInterval,
		SlowInterval:    DefaultSlowInterval,
		TouchSettle:     DefaultTouchSettle,
		Idle:            DefaultIdle,
		HapticDuration:  DefaultHapticDuration,
		UpdateErrorHold: DefaultUpdateErrorHold,
		Buttons:         logic.DefaultButtonConfig(),
	}
}

// Deps are the collaborators polled by the loop. Timer, Screen, Power and
// Relay are required; the rest may be nil.
type Deps struct {
	Timer   *logic.Timer
	Screen  *display.Screen
	Layout  display.Layout
	Power   *power.Controller
	Relay   mqtt.Relay
	Buttons ButtonSource
	Touch   display.Touch
	Battery power.Sensor
	Haptic  gpio.Haptic
	Updates ota.Source
	Tracker *status.Tracker

	// Now and Sleep default to time.Now and time.Sleep.
	Now   func() time.Time
	Sleep func(time.Duration)
}

// Scheduler is the single-threaded main loop. Only its goroutine mutates
// the timer and the screen.
type Scheduler struct {
	cfg Config
	d   Deps

	started  bool
	lastFast time.Time
	lastSlow time.Time

	updating  bool
	restoreAt time.Time
}

// New creates a Scheduler.
func New(cfg Config, d Deps) *Scheduler {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Sleep == nil {
		d.Sleep = time.Sleep
	}
	if d.Touch == nil {
		d.Touch = display.NoTouch{}
	}
	if d.Updates == nil {
		d.Updates = ota.NoUpdates{}
	}
	return &Scheduler{cfg: cfg, d: d}
}

// Start draws the countdown screen and anchors both cadences at now.
func (s *Scheduler) Start(now time.Time) {
	s.started = true
	s.lastFast = now
	s.lastSlow = now

	s.d.Screen.Boot()
	s.readBattery()
	s.redraw()
	s.flush()
	logrus.Infof("scheduler: started, %ds on the clock", s.d.Timer.Remaining())
}

// Run loops Step until the device sleeps, an update completes, or ctx ends.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.started {
		s.Start(s.d.Now())
	}
	for {
		if err := s.Step(ctx, s.d.Now()); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		s.d.Sleep(s.cfg.Idle)
	}
}

// Step runs one non-blocking iteration of the loop, apart from the relay
// reconnect, the touch settle and the haptic pulse, which block briefly.
func (s *Scheduler) Step(ctx context.Context, now time.Time) error {
	if !s.started {
		s.Start(now)
	}
	if s.d.Power.State() != power.StateActive {
		return s.pollPower(now)
	}

	if s.pollUpdates(now) {
		s.flush()
		return ErrRestart
	}

	if err := s.pollRelay(ctx); err != nil {
		return err
	}

	if !s.overlay() {
		s.pollButtons(now)
		s.pollTouch()
	}

	if now.Sub(s.lastFast) >= s.cfg.FastInterval {
		s.lastFast = now

		if now.Sub(s.lastSlow) >= s.cfg.SlowInterval {
			s.lastSlow = now
			if !s.overlay() {
				s.readBattery()
			}
			if s.d.Timer.Tick() {
				logrus.Infof("scheduler: timer expired")
				s.d.Power.Expire(now)
				if s.d.Tracker != nil {
					s.d.Tracker.SetPower(s.d.Power.State().String())
				}
			}
		}

		if !s.overlay() {
			s.redraw()
			s.flush()
		}
		s.track()
	}

	return s.pollPower(now)
}

func (s *Scheduler) pollPower(now time.Time) error {
	err := s.d.Power.Poll(now)
	state := s.d.Power.State()
	if s.d.Tracker != nil {
		s.d.Tracker.SetPower(state.String())
	}
	if state != power.StateAsleepPendingWake {
		return nil
	}
	if err != nil {
		logrus.Errorf("scheduler: deep sleep: %v", err)
	}
	return ErrAsleep
}

// pollUpdates applies pending firmware update events. It reports whether
// an update completed.
func (s *Scheduler) pollUpdates(now time.Time) bool {
	sc := s.d.Screen
	for _, ev := range s.d.Updates.Poll() {
		logrus.Debugf("scheduler: update %s", ev)
		switch ev.Kind {
		case ota.KindStart:
			s.updating = true
			s.restoreAt = time.Time{}
			sc.UpdateStarted(ev.Detail)
			s.setUpdate(status.UpdateInfo{Active: true})
		case ota.KindProgress:
			if !s.updating {
				continue
			}
			sc.UpdateProgress(ev.Percent)
			s.setUpdate(status.UpdateInfo{Active: true, Percent: ev.Percent})
		case ota.KindEnd:
			s.updating = false
			sc.UpdateFinished()
			s.setUpdate(status.UpdateInfo{Percent: 100})
			return true
		case ota.KindError:
			s.updating = false
			sc.UpdateFailed(int(ev.Code), ev.Code.Label())
			s.restoreAt = now.Add(s.cfg.UpdateErrorHold)
			s.setUpdate(status.UpdateInfo{LastError: ev.Code.Label()})
		}
		s.flush()
	}

	if !s.restoreAt.IsZero() && !now.Before(s.restoreAt) {
		s.restoreAt = time.Time{}
		sc.RestoreCountdown()
		s.redraw()
		s.flush()
	}
	return false
}

// overlay reports whether an update screen is covering the countdown.
func (s *Scheduler) overlay() bool {
	return s.updating || !s.restoreAt.IsZero()
}

func (s *Scheduler) setUpdate(info status.UpdateInfo) {
	if s.d.Tracker != nil {
		s.d.Tracker.SetUpdate(info)
	}
}

func (s *Scheduler) pollRelay(ctx context.Context) error {
	if err := s.d.Relay.EnsureConnected(ctx); err != nil {
		return errors.Wrap(err, "relay")
	}
	if cs, ok := s.d.Relay.(mqtt.ConnectionStatus); ok && s.d.Tracker != nil {
		s.d.Tracker.SetMQTTConnected(cs.IsConnected())
	}

	for _, msg := range s.d.Relay.Poll() {
		cmd, ok := mqtt.ParseCommand(msg.Payload)
		if !ok {
			continue
		}
		logrus.WithFields(logrus.Fields{
			"topic":   msg.Topic,
			"command": cmd,
		}).Info("scheduler: remote command")

		if cmd == mqtt.CommandOn {
			s.d.Timer.Reset()
		} else {
			s.d.Timer.ResetToFloor(s.cfg.Buttons.FloorSeconds)
		}
		if s.d.Tracker != nil {
			s.d.Tracker.CountRemote(cmd == mqtt.CommandOn)
		}
	}
	return nil
}

func (s *Scheduler) pollButtons(now time.Time) {
	if s.d.Buttons == nil {
		return
	}
	events, err := s.d.Buttons.Poll(now)
	if err != nil {
		logrus.Warnf("scheduler: button read: %v", err)
		return
	}
	for _, ev := range events {
		applied := logic.ApplyButton(s.d.Timer, ev, s.cfg.Buttons)
		logrus.WithFields(logrus.Fields{
			"button":    ev.Button,
			"gesture":   ev.Gesture,
			"remaining": s.d.Timer.Remaining(),
		}).Debug("scheduler: button")
		if s.d.Tracker != nil {
			s.d.Tracker.CountButton(ev)
		}
		if applied && s.d.Haptic != nil {
			if err := s.d.Haptic.Buzz(s.cfg.HapticDuration); err != nil {
				logrus.Warnf("scheduler: haptic: %v", err)
			}
		}
	}
}

func (s *Scheduler) pollTouch() {
	x, _, ok := s.d.Touch.Contact()
	if !ok {
		return
	}
	l := s.d.Layout
	percent := logic.TouchXToPercent(x, int(l.BarLeftMargin), int(l.BarWidth()))
	s.d.Screen.Bar().Render(percent)
	s.flush()
	s.d.Timer.SetFromPercent(percent)
	if s.d.Tracker != nil {
		s.d.Tracker.CountTouch()
	}
	s.d.Sleep(s.cfg.TouchSettle)
}

func (s *Scheduler) readBattery() {
	if s.d.Battery == nil {
		return
	}
	r, err := s.d.Battery.Read()
	if err != nil {
		logrus.Debugf("scheduler: battery read: %v", err)
		return
	}
	s.d.Screen.Battery(r)
	if s.d.Tracker != nil {
		s.d.Tracker.SetBattery(r)
	}
}

// redraw brings the bar, message and countdown up to date with the timer.
func (s *Scheduler) redraw() {
	t := s.d.Timer
	sc := s.d.Screen
	sc.Bar().Render(t.Percent())
	if s.d.Power.WarningActive(t.Remaining()) {
		sc.Message(display.MessageSwitchOff)
		sc.Countdown(t.Remaining(), true)
	} else {
		sc.Message(display.MessageTimeLeft)
		sc.Countdown(t.Remaining(), false)
	}
}

func (s *Scheduler) track() {
	if s.d.Tracker == nil {
		return
	}
	t := s.d.Timer
	s.d.Tracker.UpdateTimer(t.Remaining(), t.Total(), t.Percent(), s.d.Power.WarningActive(t.Remaining()))
}

func (s *Scheduler) flush() {
	if err := s.d.Screen.Flush(); err != nil {
		logrus.Warnf("scheduler: display flush: %v", err)
	}
}
