// Package power owns the shutdown path: announcing "Off" to the relay,
// blanking the display and handing over to deep sleep.
package power

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sweeney/iron-timer/internal/mqtt"
)

// DefaultGrace is how long shutdown waits for the "Off" acknowledgement.
const DefaultGrace = 200 * time.Millisecond

// State is the power lifecycle state.
type State int

const (
	StateActive State = iota
	StateShuttingDown
	StateAsleepPendingWake
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "ACTIVE"
	case StateShuttingDown:
		return "SHUTTING_DOWN"
	case StateAsleepPendingWake:
		return "ASLEEP"
	default:
		return "UNKNOWN"
	}
}

// Notifier publishes relay state.
type Notifier interface {
	PublishState(payload string) mqtt.Ack
}

// Blanker puts the display to sleep.
type Blanker interface {
	Blank() error
}

// Sleeper enters deep sleep. On hardware that supports it, DeepSleep does
// not return until a wake button is pressed.
type Sleeper interface {
	DeepSleep() error
}

// Config configures a Controller.
type Config struct {
	Grace          time.Duration
	WarningSeconds int
}

// DefaultConfig returns the stock shutdown settings.
func DefaultConfig() Config {
	return Config{Grace: DefaultGrace, WarningSeconds: 5}
}

// Controller is the Active -> ShuttingDown -> AsleepPendingWake machine.
// It is driven from a single goroutine and never blocks.
type Controller struct {
	cfg      Config
	notifier Notifier
	blanker  Blanker
	sleeper  Sleeper

	state      State
	shutdownAt time.Time
	ack        mqtt.Ack
}

// NewController creates a Controller in StateActive. Any collaborator may
// be nil.
func NewController(cfg Config, n Notifier, b Blanker, s Sleeper) *Controller {
	return &Controller{cfg: cfg, notifier: n, blanker: b, sleeper: s}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// WarningActive reports whether the countdown should be shown as a warning.
func (c *Controller) WarningActive(remaining int) bool {
	return remaining <= c.cfg.WarningSeconds
}

// Expire starts shutdown. Only the first call from StateActive has any
// effect; it reports whether shutdown started.
func (c *Controller) Expire(now time.Time) bool {
	if c.state != StateActive {
		return false
	}
	c.state = StateShuttingDown
	c.shutdownAt = now
	logrus.Infof("power: timer expired, shutting down")

	if c.notifier != nil {
		c.ack = c.notifier.PublishState(mqtt.PayloadOff)
	}
	if c.blanker != nil {
		if err := c.blanker.Blank(); err != nil {
			logrus.Warnf("power: blank display: %v", err)
		}
	}
	return true
}

// Poll advances ShuttingDown to AsleepPendingWake once the "Off" ack has
// completed or the grace period has elapsed, then calls DeepSleep. It
// returns the sleeper's error, if any.
func (c *Controller) Poll(now time.Time) error {
	if c.state != StateShuttingDown {
		return nil
	}

	acked := false
	if c.ack != nil {
		select {
		case <-c.ack.Done():
			acked = true
			if err := c.ack.Error(); err != nil {
				logrus.Warnf("power: publish %s failed: %v", mqtt.PayloadOff, err)
			}
		default:
		}
	}

	if !acked {
		if now.Sub(c.shutdownAt) < c.cfg.Grace {
			return nil
		}
		logrus.WithFields(logrus.Fields{
			"grace": c.cfg.Grace,
		}).Warnf("power: %s not acknowledged, relay may still be on", mqtt.PayloadOff)
	}

	c.state = StateAsleepPendingWake
	if c.sleeper == nil {
		return nil
	}
	logrus.Infof("power: entering deep sleep")
	return c.sleeper.DeepSleep()
}
