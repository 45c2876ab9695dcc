package logic

import "testing"

func newDefaultTimer() *Timer {
	return NewTimer(TimerConfig{TotalSeconds: 300})
}

func TestNewTimer(t *testing.T) {
	tm := newDefaultTimer()
	if tm.Remaining() != 300 {
		t.Errorf("expected remaining 300, got %d", tm.Remaining())
	}
	if tm.Total() != 300 {
		t.Errorf("expected total 300, got %d", tm.Total())
	}
	if tm.Percent() != 100 {
		t.Errorf("expected 100%%, got %d", tm.Percent())
	}
	if tm.Expired() {
		t.Error("new timer should not be expired")
	}
}

func TestNewTimerDefaults(t *testing.T) {
	tm := NewTimer(TimerConfig{})
	if tm.Total() != DefaultTotalSeconds {
		t.Errorf("expected default total %d, got %d", DefaultTotalSeconds, tm.Total())
	}
}

func TestTickDecrementsByOne(t *testing.T) {
	tm := NewTimer(TimerConfig{TotalSeconds: 3})

	for want := 2; want > 0; want-- {
		if tm.Tick() {
			t.Fatalf("tick reported expiry at remaining=%d", tm.Remaining())
		}
		if tm.Remaining() != want {
			t.Errorf("expected remaining %d, got %d", want, tm.Remaining())
		}
	}

	if !tm.Tick() {
		t.Error("tick reaching zero should report expiry")
	}
	if tm.Remaining() != 0 {
		t.Errorf("expected remaining 0, got %d", tm.Remaining())
	}

	// Zero is sticky and expiry is reported once.
	for i := 0; i < 5; i++ {
		if tm.Tick() {
			t.Errorf("tick %d after zero reported expiry again", i)
		}
		if tm.Remaining() != 0 {
			t.Errorf("expected remaining to stay 0, got %d", tm.Remaining())
		}
	}
}

func TestTickAfterTouchToZero(t *testing.T) {
	tm := newDefaultTimer()
	tm.SetFromPercent(0)
	if tm.Remaining() != 0 {
		t.Fatalf("expected remaining 0, got %d", tm.Remaining())
	}
	if !tm.Tick() {
		t.Error("first tick at zero should report expiry")
	}
	if tm.Tick() {
		t.Error("second tick at zero should not report expiry")
	}
}

func TestSetFromPercentThenTicks(t *testing.T) {
	tm := newDefaultTimer()
	tm.SetFromPercent(50)
	if tm.Remaining() != 150 {
		t.Fatalf("expected remaining 150, got %d", tm.Remaining())
	}
	for i := 0; i < 6; i++ {
		tm.Tick()
	}
	if tm.Remaining() != 144 {
		t.Errorf("expected remaining 144, got %d", tm.Remaining())
	}
}

func TestSetFromPercentTruncatesAndClamps(t *testing.T) {
	tests := []struct {
		percent int
		want    int
	}{
		{0, 0},
		{1, 3},
		{33, 99},
		{99, 297},
		{100, 300},
		{150, 300},
		{-10, 0},
	}
	for _, tt := range tests {
		tm := newDefaultTimer()
		tm.SetFromPercent(tt.percent)
		if tm.Remaining() != tt.want {
			t.Errorf("SetFromPercent(%d): got %d, want %d", tt.percent, tm.Remaining(), tt.want)
		}
	}
}

func TestAdjustRelative(t *testing.T) {
	tests := []struct {
		name  string
		start int
		delta int
		want  int
	}{
		{"decrement above threshold", 200, -120, 80},
		{"decrement at threshold", 125, -120, 5},
		{"decrement below threshold", 100, -120, 5},
		{"decrement below floor", 3, -120, 5},
		{"increment", 100, 120, 220},
		{"increment clamps to max", 250, 120, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := newDefaultTimer()
			tm.remaining = tt.start
			tm.AdjustRelative(tt.delta, 5)
			if tm.Remaining() != tt.want {
				t.Errorf("got %d, want %d", tm.Remaining(), tt.want)
			}
		})
	}
}

func TestAdjustRelativeRaisedCeiling(t *testing.T) {
	tm := NewTimer(TimerConfig{TotalSeconds: 300, MaxSeconds: 600})
	tm.AdjustRelative(120, 5)
	if tm.Remaining() != 420 {
		t.Errorf("expected 420, got %d", tm.Remaining())
	}
	if tm.Percent() != 100 {
		t.Errorf("percent above total should saturate at 100, got %d", tm.Percent())
	}
}

func TestResetToFloor(t *testing.T) {
	tm := newDefaultTimer()
	tm.ResetToFloor(5)
	if tm.Remaining() != 5 {
		t.Errorf("expected 5, got %d", tm.Remaining())
	}

	tm.remaining = 2
	tm.ResetToFloor(5)
	if tm.Remaining() != 2 {
		t.Errorf("below floor should be left alone, got %d", tm.Remaining())
	}
}

func TestReset(t *testing.T) {
	tm := newDefaultTimer()
	tm.SetFromPercent(10)
	tm.Reset()
	if tm.Remaining() != 300 {
		t.Errorf("expected 300, got %d", tm.Remaining())
	}
}

func TestExpiredTimerIgnoresInput(t *testing.T) {
	tm := NewTimer(TimerConfig{TotalSeconds: 1})
	if !tm.Tick() {
		t.Fatal("expected expiry")
	}

	tm.SetFromPercent(100)
	tm.AdjustRelative(120, 5)
	tm.Reset()
	if tm.Remaining() != 0 {
		t.Errorf("expired timer should stay at 0, got %d", tm.Remaining())
	}
}
