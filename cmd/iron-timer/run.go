package main

import (
	"context"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/sweeney/iron-timer/internal/config"
	"github.com/sweeney/iron-timer/internal/display"
	"github.com/sweeney/iron-timer/internal/gpio"
	"github.com/sweeney/iron-timer/internal/logic"
	"github.com/sweeney/iron-timer/internal/metrics"
	"github.com/sweeney/iron-timer/internal/mqtt"
	"github.com/sweeney/iron-timer/internal/ota"
	"github.com/sweeney/iron-timer/internal/power"
	"github.com/sweeney/iron-timer/internal/scheduler"
	"github.com/sweeney/iron-timer/internal/status"
	"github.com/sweeney/iron-timer/internal/web"
)

// bootRetryPause is how long a failed boot waits before exiting.
const bootRetryPause = 5 * time.Second

func openPanel(cfg config.Config) (*display.TinySurface, func() error) {
	d := cfg.Display
	fb, err := display.OpenFramebuffer(d.Framebuffer, d.BlankPath, int16(d.Width), int16(d.Height))
	if err != nil {
		logrus.Warnf("display: %v, drawing off-screen", err)
		img := display.NewImageDisplay(int16(d.Width), int16(d.Height))
		return display.NewTinySurface(img), func() error { return nil }
	}
	return display.NewTinySurface(fb), fb.Close
}

func openButtons(cfg config.Config) (*gpio.Buttons, gpio.Haptic) {
	g := cfg.GPIO
	var buttons *gpio.Buttons
	reader, err := gpio.NewRealReader(g.Chip, g.ButtonA, g.ButtonB)
	if err != nil {
		logrus.Warnf("gpio: buttons unavailable: %v", err)
	} else {
		buttons = gpio.NewButtons(reader, g.Debounce, g.LongPress)
	}

	var haptic gpio.Haptic = gpio.NoHaptic{}
	if g.Haptic >= 0 {
		h, err := gpio.NewRealHaptic(g.Chip, g.Haptic)
		if err != nil {
			logrus.Warnf("gpio: haptic unavailable: %v", err)
		} else {
			haptic = h
		}
	}
	return buttons, haptic
}

func openTouch(cfg config.Config) display.Touch {
	if cfg.Display.TouchDevice == "" {
		return display.NoTouch{}
	}
	t, err := display.OpenEvdevTouch(cfg.Display.TouchDevice)
	if err != nil {
		logrus.Warnf("touch: %v", err)
		return display.NoTouch{}
	}
	return t
}

func schedulerConfig(cfg config.Config) scheduler.Config {
	sc := scheduler.DefaultConfig()
	sc.FastInterval = cfg.Timer.FastInterval
	sc.SlowInterval = cfg.Timer.SlowInterval
	sc.HapticDuration = cfg.GPIO.HapticDuration
	sc.Buttons = cfg.ButtonConfig()
	return sc
}

func trackerConfig(cfg config.Config) status.Config {
	return status.Config{
		TotalSeconds:   cfg.Timer.TotalSeconds,
		WarningSeconds: cfg.Timer.WarningSeconds,
		StepSeconds:    cfg.Timer.StepSeconds,
		FloorSeconds:   cfg.Timer.FloorSeconds,
		Broker:         cfg.MQTT.Broker,
		HTTPAddr:       cfg.HTTP.Addr,
		Version:        version,
	}
}

// startHTTP serves status, metrics and firmware uploads. It returns a
// shutdown func.
func startHTTP(cfg config.Config, tracker *status.Tracker, updates *ota.Queue) (func(), error) {
	if cfg.HTTP.Addr == "" {
		return func() {}, nil
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := metrics.Register(reg, tracker); err != nil {
		return nil, errors.Wrap(err, "register metrics")
	}

	var receiver *ota.Receiver
	if cfg.HTTP.FirmwarePath != "" {
		receiver = ota.NewReceiver(cfg.HTTP.Token, cfg.HTTP.FirmwarePath, updates)
		if cfg.HTTP.Token == "" {
			logrus.Warnf("http: firmware uploads are not authenticated")
		}
	}

	srv := web.New(cfg.HTTP.Addr, tracker, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), receiver)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Errorf("http server error: %v", err)
		}
	}()
	logrus.Infof("http status server listening on %s", cfg.HTTP.Addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}, nil
}

func runDevice(parent context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	layout := cfg.Layout()
	surface, closePanel := openPanel(cfg)
	defer closePanel()

	screen := display.NewScreen(surface, layout, cfg.Timer.TotalSeconds, version)
	screen.DrawTitle()
	screen.Message(display.MessageConnecting)
	screen.Flush()

	relay, err := mqtt.NewRealRelay(cfg.MQTTConfig())
	if err != nil {
		logrus.Errorf("boot: %v, restarting in %v", err, bootRetryPause)
		time.Sleep(bootRetryPause)
		return errors.Wrap(err, "boot")
	}
	defer relay.Close()

	screen.Message(display.MessageDone)
	screen.Flush()

	buttons, haptic := openButtons(cfg)
	if buttons != nil {
		defer buttons.Close()
	}
	if c, ok := haptic.(io.Closer); ok {
		defer c.Close()
	}
	touch := openTouch(cfg)
	defer touch.Close()

	tracker := status.NewTracker(time.Now(), trackerConfig(cfg))
	updates := ota.NewQueue()
	stopHTTP, err := startHTTP(cfg, tracker, updates)
	if err != nil {
		return err
	}
	defer stopHTTP()

	controller := power.NewController(cfg.PowerConfig(), relay, surface, power.NewCommandSleeper(cfg.Power.SleepCommand))

	deps := scheduler.Deps{
		Timer:   logic.NewTimer(cfg.TimerConfig()),
		Screen:  screen,
		Layout:  layout,
		Power:   controller,
		Relay:   relay,
		Touch:   touch,
		Battery: power.NewHostSensor(cfg.Power.BatteryIndex),
		Haptic:  haptic,
		Updates: updates,
		Tracker: tracker,
	}
	if buttons != nil {
		deps.Buttons = buttons
	}

	logrus.WithFields(logrus.Fields{
		"version": version,
		"total":   cfg.Timer.TotalSeconds,
		"broker":  cfg.MQTT.Broker,
	}).Info("started")

	err = scheduler.New(schedulerConfig(cfg), deps).Run(ctx)
	switch {
	case errors.Is(err, scheduler.ErrAsleep):
		logrus.Infof("woke from sleep, exiting for a fresh start")
		return nil
	case errors.Is(err, scheduler.ErrRestart):
		logrus.Infof("update installed, exiting for restart")
		return nil
	case errors.Is(err, context.Canceled):
		logrus.Infof("received signal, shutting down")
		return nil
	default:
		return err
	}
}
