package power

import (
	"errors"
	"testing"
	"time"

	"github.com/sweeney/iron-timer/internal/mqtt"
)

// Compile-time interface checks.
var (
	_ Notifier = (*mqtt.FakeRelay)(nil)
	_ Notifier = (*mqtt.RealRelay)(nil)
	_ Sleeper  = (*CommandSleeper)(nil)
	_ Sleeper  = (*FakeSleeper)(nil)
	_ Blanker  = (*FakeBlanker)(nil)
	_ Sensor   = (*HostSensor)(nil)
	_ Sensor   = (*FakeSensor)(nil)
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestController(relay *mqtt.FakeRelay) (*Controller, *FakeBlanker, *FakeSleeper) {
	b := &FakeBlanker{}
	s := &FakeSleeper{}
	return NewController(DefaultConfig(), relay, b, s), b, s
}

func TestExpirePublishesOffOnce(t *testing.T) {
	relay := mqtt.NewFakeRelay()
	c, b, _ := newTestController(relay)

	if !c.Expire(t0) {
		t.Fatal("expected first Expire to start shutdown")
	}
	if c.Expire(t0.Add(time.Millisecond)) {
		t.Error("expected second Expire to be ignored")
	}
	if got := relay.Count(mqtt.PayloadOff); got != 1 {
		t.Errorf("expected Off published once, got %d", got)
	}
	if b.Calls != 1 {
		t.Errorf("expected display blanked once, got %d", b.Calls)
	}
	if c.State() != StateShuttingDown {
		t.Errorf("expected SHUTTING_DOWN, got %s", c.State())
	}
}

func TestPollSleepsOnAck(t *testing.T) {
	relay := mqtt.NewFakeRelay()
	c, _, s := newTestController(relay)
	c.Expire(t0)

	// Ack completed synchronously by the fake; no need to wait for grace.
	if err := c.Poll(t0.Add(time.Millisecond)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.State() != StateAsleepPendingWake {
		t.Errorf("expected ASLEEP, got %s", c.State())
	}
	if s.Calls != 1 {
		t.Errorf("expected one DeepSleep, got %d", s.Calls)
	}

	// Further polls do nothing.
	c.Poll(t0.Add(time.Second))
	if s.Calls != 1 {
		t.Errorf("expected DeepSleep to stay at 1, got %d", s.Calls)
	}
}

func TestPollWaitsForGraceWhenUnacked(t *testing.T) {
	relay := mqtt.NewFakeRelay()
	relay.HoldAcks = true
	c, _, s := newTestController(relay)
	c.Expire(t0)

	c.Poll(t0.Add(199 * time.Millisecond))
	if c.State() != StateShuttingDown || s.Calls != 0 {
		t.Fatalf("expected still shutting down before grace, got %s with %d sleeps", c.State(), s.Calls)
	}

	c.Poll(t0.Add(200 * time.Millisecond))
	if c.State() != StateAsleepPendingWake || s.Calls != 1 {
		t.Errorf("expected asleep after grace, got %s with %d sleeps", c.State(), s.Calls)
	}
}

func TestPollLateAckBeforeGrace(t *testing.T) {
	relay := mqtt.NewFakeRelay()
	relay.HoldAcks = true
	c, _, s := newTestController(relay)
	c.Expire(t0)

	c.Poll(t0.Add(50 * time.Millisecond))
	relay.Acks[0].Complete(errors.New("not authorised"))
	c.Poll(t0.Add(60 * time.Millisecond))

	if s.Calls != 1 {
		t.Errorf("expected sleep once ack resolved (even with error), got %d", s.Calls)
	}
}

func TestPollBeforeExpireIsNoop(t *testing.T) {
	c, _, s := newTestController(mqtt.NewFakeRelay())
	if err := c.Poll(t0.Add(time.Hour)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.State() != StateActive || s.Calls != 0 {
		t.Errorf("expected ACTIVE with no sleep, got %s/%d", c.State(), s.Calls)
	}
}

func TestPollReturnsSleepError(t *testing.T) {
	relay := mqtt.NewFakeRelay()
	c, _, s := newTestController(relay)
	s.Err = errors.New("suspend refused")
	c.Expire(t0)
	if err := c.Poll(t0); err == nil {
		t.Error("expected sleeper error")
	}
}

func TestNilCollaborators(t *testing.T) {
	c := NewController(DefaultConfig(), nil, nil, nil)
	c.Expire(t0)
	c.Poll(t0.Add(100 * time.Millisecond))
	if c.State() != StateShuttingDown {
		t.Errorf("expected grace wait without notifier, got %s", c.State())
	}
	c.Poll(t0.Add(DefaultGrace))
	if c.State() != StateAsleepPendingWake {
		t.Errorf("expected ASLEEP, got %s", c.State())
	}
}

func TestBlankErrorDoesNotStopShutdown(t *testing.T) {
	relay := mqtt.NewFakeRelay()
	c, b, _ := newTestController(relay)
	b.Err = errors.New("panel gone")
	if !c.Expire(t0) {
		t.Fatal("expected shutdown to start")
	}
	if relay.Count(mqtt.PayloadOff) != 1 {
		t.Error("expected Off still published")
	}
}

func TestWarningActive(t *testing.T) {
	c := NewController(DefaultConfig(), nil, nil, nil)
	tests := []struct {
		remaining int
		want      bool
	}{
		{300, false},
		{6, false},
		{5, true},
		{0, true},
	}
	for _, tt := range tests {
		if got := c.WarningActive(tt.remaining); got != tt.want {
			t.Errorf("WarningActive(%d): expected %v, got %v", tt.remaining, tt.want, got)
		}
	}
}

func TestStateString(t *testing.T) {
	if StateActive.String() != "ACTIVE" || StateAsleepPendingWake.String() != "ASLEEP" {
		t.Error("unexpected state strings")
	}
	if State(99).String() != "UNKNOWN" {
		t.Error("expected UNKNOWN")
	}
}
