//go:build linux

package display

import (
	"io"
	"os"
	"sync"

	"github.com/holoplot/go-evdev"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// eventSource yields input events one at a time.
type eventSource interface {
	ReadOne() (*evdev.InputEvent, error)
}

// EvdevTouch reads a touchscreen from a Linux evdev device. Contact reports
// the state as of the last complete event frame.
type EvdevTouch struct {
	dev io.Closer

	mu      sync.Mutex
	x, y    int
	touched bool
}

// OpenEvdevTouch opens device (e.g. /dev/input/event0) and starts reading it.
func OpenEvdevTouch(device string) (*EvdevTouch, error) {
	dev, err := evdev.Open(device)
	if err != nil {
		return nil, errors.Wrapf(err, "open touch device %s", device)
	}
	if name, err := dev.Name(); err == nil {
		logrus.Infof("touch: using %s (%s)", device, name)
	}
	t := &EvdevTouch{dev: dev}
	go t.read(dev)
	return t, nil
}

// read applies events from src until it fails. Axis and button changes are
// staged and published together on SYN_REPORT.
func (t *EvdevTouch) read(src eventSource) {
	t.mu.Lock()
	x, y, touched := t.x, t.y, t.touched
	t.mu.Unlock()

	for {
		ev, err := src.ReadOne()
		if err != nil {
			if !errors.Is(err, os.ErrClosed) && !errors.Is(err, io.EOF) {
				logrus.Warnf("touch: read stopped: %v", err)
			}
			return
		}

		switch ev.Type {
		case evdev.EV_ABS:
			switch ev.Code {
			case evdev.ABS_X, evdev.ABS_MT_POSITION_X:
				x = int(ev.Value)
			case evdev.ABS_Y, evdev.ABS_MT_POSITION_Y:
				y = int(ev.Value)
			}
		case evdev.EV_KEY:
			if ev.Code == evdev.BTN_TOUCH {
				touched = ev.Value != 0
			}
		case evdev.EV_SYN:
			if ev.Code == evdev.SYN_REPORT {
				t.mu.Lock()
				t.x, t.y, t.touched = x, y, touched
				t.mu.Unlock()
			}
		}
	}
}

// Contact returns the last reported contact point.
func (t *EvdevTouch) Contact() (int, int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.x, t.y, t.touched
}

// Close stops reading and releases the device.
func (t *EvdevTouch) Close() error {
	return t.dev.Close()
}
