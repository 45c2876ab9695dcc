// Package config loads the timer's YAML configuration.
package config

import (
	"math"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/sweeney/iron-timer/internal/display"
	"github.com/sweeney/iron-timer/internal/gpio"
	"github.com/sweeney/iron-timer/internal/logic"
	"github.com/sweeney/iron-timer/internal/mqtt"
	"github.com/sweeney/iron-timer/internal/power"
)

// DefaultPath is used when no --config flag or IRON_TIMER_CONFIG is given.
const DefaultPath = "/etc/iron-timer/config.yaml"

// Timer holds countdown settings.
type Timer struct {
	TotalSeconds   int           `yaml:"total_seconds"`
	MaxSeconds     int           `yaml:"max_seconds"`
	WarningSeconds int           `yaml:"warning_seconds"`
	FloorSeconds   int           `yaml:"floor_seconds"`
	StepSeconds    int           `yaml:"step_seconds"`
	FastInterval   time.Duration `yaml:"fast_interval"`
	SlowInterval   time.Duration `yaml:"slow_interval"`
}

// MQTT holds broker settings.
type MQTT struct {
	Broker         string        `yaml:"broker"`
	ClientID       string        `yaml:"client_id"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	StateTopic     string        `yaml:"state_topic"`
	CommandTopic   string        `yaml:"command_topic"`
	RetryInterval  time.Duration `yaml:"retry_interval"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// Display holds panel and touch settings.
type Display struct {
	Framebuffer     string `yaml:"framebuffer"`
	BlankPath       string `yaml:"blank_path"`
	TouchDevice     string `yaml:"touch_device"`
	Width           int    `yaml:"width"`
	Height          int    `yaml:"height"`
	TitleHeight     int    `yaml:"title_height"`
	BarLeftMargin   int    `yaml:"bar_left_margin"`
	BarRightMargin  int    `yaml:"bar_right_margin"`
	BarBottomMargin int    `yaml:"bar_bottom_margin"`
	BarHeight       int    `yaml:"bar_height"`
}

// GPIO holds button and haptic wiring.
type GPIO struct {
	Chip           string        `yaml:"chip"`
	ButtonA        int           `yaml:"button_a"`
	ButtonB        int           `yaml:"button_b"`
	Haptic         int           `yaml:"haptic"`
	Debounce       time.Duration `yaml:"debounce"`
	LongPress      time.Duration `yaml:"long_press"`
	HapticDuration time.Duration `yaml:"haptic_duration"`
}

// Power holds shutdown settings.
type Power struct {
	SleepCommand []string      `yaml:"sleep_command"`
	Grace        time.Duration `yaml:"grace"`
	BatteryIndex int           `yaml:"battery_index"`
}

// HTTP holds the status/update server settings.
type HTTP struct {
	Addr         string `yaml:"addr"`
	Token        string `yaml:"token"`
	FirmwarePath string `yaml:"firmware_path"`
}

// Config is the full configuration file.
type Config struct {
	Timer    Timer   `yaml:"timer"`
	MQTT     MQTT    `yaml:"mqtt"`
	Display  Display `yaml:"display"`
	GPIO     GPIO    `yaml:"gpio"`
	Power    Power   `yaml:"power"`
	HTTP     HTTP    `yaml:"http"`
	LogLevel string  `yaml:"log_level"`
}

// Default returns a Config with every field set.
func Default() Config {
	m := mqtt.DefaultConfig()
	l := display.DefaultLayout()
	return Config{
		Timer: Timer{
			TotalSeconds:   logic.DefaultTotalSeconds,
			MaxSeconds:     logic.DefaultTotalSeconds,
			WarningSeconds: logic.DefaultWarningSeconds,
			FloorSeconds:   logic.DefaultFloorSeconds,
			StepSeconds:    logic.DefaultStepSeconds,
			FastInterval:   250 * time.Millisecond,
			SlowInterval:   time.Second,
		},
		MQTT: MQTT{
			Broker:         m.Broker,
			StateTopic:     m.StateTopic,
			CommandTopic:   m.CommandTopic,
			RetryInterval:  m.RetryInterval,
			ConnectTimeout: m.ConnectTimeout,
		},
		Display: Display{
			Framebuffer:     "/dev/fb1",
			BlankPath:       "/sys/class/graphics/fb1/blank",
			TouchDevice:     "/dev/input/touchscreen0",
			Width:           int(l.Width),
			Height:          int(l.Height),
			TitleHeight:     int(l.TitleHeight),
			BarLeftMargin:   int(l.BarLeftMargin),
			BarRightMargin:  int(l.BarRightMargin),
			BarBottomMargin: int(l.BarBottomMargin),
			BarHeight:       int(l.BarHeight),
		},
		GPIO: GPIO{
			Chip:           "gpiochip0",
			ButtonA:        gpio.DefaultPinA,
			ButtonB:        gpio.DefaultPinB,
			Haptic:         gpio.DefaultPinHaptic,
			Debounce:       gpio.DefaultDebounce,
			LongPress:      gpio.DefaultLongPress,
			HapticDuration: 200 * time.Millisecond,
		},
		Power: Power{
			SleepCommand: []string{"systemctl", "suspend"},
			Grace:        power.DefaultGrace,
		},
		HTTP: HTTP{
			Addr:         ":80",
			FirmwarePath: "/opt/iron-timer/iron-timer.new",
		},
		LogLevel: "info",
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logrus.Warnf("config: %s not found, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "read %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "invalid %s", path)
	}
	return cfg, nil
}

// Validate rejects configurations the timer cannot run with.
func (c Config) Validate() error {
	t := c.Timer
	if t.TotalSeconds <= 0 {
		return errors.Errorf("timer.total_seconds must be positive, got %d", t.TotalSeconds)
	}
	if t.MaxSeconds != 0 && t.MaxSeconds < t.TotalSeconds {
		return errors.Errorf("timer.max_seconds (%d) below total_seconds (%d)", t.MaxSeconds, t.TotalSeconds)
	}
	if t.FloorSeconds < 0 || t.FloorSeconds > t.TotalSeconds {
		return errors.Errorf("timer.floor_seconds must be within [0, %d], got %d", t.TotalSeconds, t.FloorSeconds)
	}
	if t.WarningSeconds < 0 {
		return errors.Errorf("timer.warning_seconds must not be negative, got %d", t.WarningSeconds)
	}
	if t.StepSeconds <= 0 {
		return errors.Errorf("timer.step_seconds must be positive, got %d", t.StepSeconds)
	}
	if t.FastInterval <= 0 || t.SlowInterval < t.FastInterval {
		return errors.Errorf("timer intervals invalid: fast %v, slow %v", t.FastInterval, t.SlowInterval)
	}
	if c.MQTT.Broker == "" {
		return errors.New("mqtt.broker is required")
	}
	if c.MQTT.StateTopic == "" || c.MQTT.CommandTopic == "" {
		return errors.New("mqtt topics are required")
	}
	if c.MQTT.RetryInterval <= 0 {
		return errors.Errorf("mqtt.retry_interval must be positive, got %v", c.MQTT.RetryInterval)
	}
	if c.MQTT.ConnectTimeout <= 0 {
		return errors.Errorf("mqtt.connect_timeout must be positive, got %v", c.MQTT.ConnectTimeout)
	}
	d := c.Display
	if d.Width <= 0 || d.Height <= 0 {
		return errors.Errorf("display size invalid: %dx%d", d.Width, d.Height)
	}
	geometry := []struct {
		name  string
		value int
	}{
		{"width", d.Width},
		{"height", d.Height},
		{"title_height", d.TitleHeight},
		{"bar_left_margin", d.BarLeftMargin},
		{"bar_right_margin", d.BarRightMargin},
		{"bar_bottom_margin", d.BarBottomMargin},
		{"bar_height", d.BarHeight},
	}
	for _, g := range geometry {
		if g.value < 0 || g.value > math.MaxInt16 {
			return errors.Errorf("display.%s must be within [0, %d], got %d", g.name, math.MaxInt16, g.value)
		}
	}
	if d.BarLeftMargin+d.BarRightMargin >= d.Width {
		return errors.Errorf("display bar margins leave no bar width")
	}
	if d.BarHeight < 3 {
		return errors.Errorf("display.bar_height must be at least 3, got %d", d.BarHeight)
	}
	if c.GPIO.LongPress <= c.GPIO.Debounce {
		return errors.Errorf("gpio.long_press (%v) must exceed debounce (%v)", c.GPIO.LongPress, c.GPIO.Debounce)
	}
	if c.Power.Grace < 0 {
		return errors.Errorf("power.grace must not be negative, got %v", c.Power.Grace)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log_level")
	}
	return nil
}

// TimerConfig converts to the countdown's settings.
func (c Config) TimerConfig() logic.TimerConfig {
	return logic.TimerConfig{TotalSeconds: c.Timer.TotalSeconds, MaxSeconds: c.Timer.MaxSeconds}
}

// ButtonConfig converts to the button mapping settings.
func (c Config) ButtonConfig() logic.ButtonConfig {
	return logic.ButtonConfig{StepSeconds: c.Timer.StepSeconds, FloorSeconds: c.Timer.FloorSeconds}
}

// MQTTConfig converts to the relay settings.
func (c Config) MQTTConfig() mqtt.Config {
	m := c.MQTT
	return mqtt.Config{
		Broker:         m.Broker,
		ClientID:       m.ClientID,
		Username:       m.Username,
		Password:       m.Password,
		StateTopic:     m.StateTopic,
		CommandTopic:   m.CommandTopic,
		RetryInterval:  m.RetryInterval,
		ConnectTimeout: m.ConnectTimeout,
	}
}

// Layout converts to the screen geometry.
func (c Config) Layout() display.Layout {
	d := c.Display
	return display.Layout{
		Width:           int16(d.Width),
		Height:          int16(d.Height),
		TitleHeight:     int16(d.TitleHeight),
		BarLeftMargin:   int16(d.BarLeftMargin),
		BarRightMargin:  int16(d.BarRightMargin),
		BarBottomMargin: int16(d.BarBottomMargin),
		BarHeight:       int16(d.BarHeight),
	}
}

// PowerConfig converts to the shutdown settings.
func (c Config) PowerConfig() power.Config {
	return power.Config{Grace: c.Power.Grace, WarningSeconds: c.Timer.WarningSeconds}
}
