//go:build linux

package display

import (
	"errors"
	"io"
	"testing"

	"github.com/holoplot/go-evdev"
)

// scriptedEvents returns its events in order, then io.EOF.
type scriptedEvents struct {
	events []evdev.InputEvent
	err    error
}

func (s *scriptedEvents) ReadOne() (*evdev.InputEvent, error) {
	if len(s.events) == 0 {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return &ev, nil
}

func absX(v int32) evdev.InputEvent {
	return evdev.InputEvent{Type: evdev.EV_ABS, Code: evdev.ABS_X, Value: v}
}

func absY(v int32) evdev.InputEvent {
	return evdev.InputEvent{Type: evdev.EV_ABS, Code: evdev.ABS_Y, Value: v}
}

func btnTouch(down bool) evdev.InputEvent {
	var v int32
	if down {
		v = 1
	}
	return evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.BTN_TOUCH, Value: v}
}

func synReport() evdev.InputEvent {
	return evdev.InputEvent{Type: evdev.EV_SYN, Code: evdev.SYN_REPORT}
}

func TestEvdevTouchWaitsForSynReport(t *testing.T) {
	touch := &EvdevTouch{}
	touch.read(&scriptedEvents{events: []evdev.InputEvent{absX(100), absY(50), btnTouch(true)}})

	if x, y, ok := touch.Contact(); ok || x != 0 || y != 0 {
		t.Errorf("expected no contact before SYN_REPORT, got (%d,%d,%v)", x, y, ok)
	}
}

func TestEvdevTouchPublishesFrame(t *testing.T) {
	touch := &EvdevTouch{}
	touch.read(&scriptedEvents{events: []evdev.InputEvent{
		absX(100), absY(50), btnTouch(true), synReport(),
	}})

	x, y, ok := touch.Contact()
	if !ok || x != 100 || y != 50 {
		t.Errorf("expected contact at (100,50), got (%d,%d,%v)", x, y, ok)
	}
}

func TestEvdevTouchKeepsLastCompleteFrame(t *testing.T) {
	touch := &EvdevTouch{}
	touch.read(&scriptedEvents{events: []evdev.InputEvent{
		absX(100), absY(50), btnTouch(true), synReport(),
		absX(300), // frame never completed
	}})

	if x, _, _ := touch.Contact(); x != 100 {
		t.Errorf("expected x from the last complete frame (100), got %d", x)
	}
}

func TestEvdevTouchMultitouchAndRelease(t *testing.T) {
	touch := &EvdevTouch{}
	touch.read(&scriptedEvents{events: []evdev.InputEvent{
		{Type: evdev.EV_ABS, Code: evdev.ABS_MT_POSITION_X, Value: 200},
		{Type: evdev.EV_ABS, Code: evdev.ABS_MT_POSITION_Y, Value: 120},
		btnTouch(true), synReport(),
		btnTouch(false), synReport(),
	}})

	x, y, ok := touch.Contact()
	if ok {
		t.Error("expected contact released")
	}
	if x != 200 || y != 120 {
		t.Errorf("expected last position (200,120), got (%d,%d)", x, y)
	}
}

func TestEvdevTouchStopsOnReadError(t *testing.T) {
	touch := &EvdevTouch{}
	done := make(chan struct{})
	go func() {
		touch.read(&scriptedEvents{err: errors.New("device gone")})
		close(done)
	}()
	<-done
	if _, _, ok := touch.Contact(); ok {
		t.Error("expected no contact after a failed read")
	}
}
