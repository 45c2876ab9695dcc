package logic

// TimerConfig configures a countdown Timer.
type TimerConfig struct {
	// TotalSeconds is the full countdown duration and the boot value.
	TotalSeconds int
	// MaxSeconds caps upward adjustments. Zero means TotalSeconds.
	MaxSeconds int
}

// Timer owns the countdown state. It is not safe for concurrent use;
// the scheduler is its only writer.
type Timer struct {
	total     int
	max       int
	remaining int
	// expired is set once Tick has reported reaching zero.
	expired bool
}

// NewTimer creates a timer initialised to its full duration.
func NewTimer(cfg TimerConfig) *Timer {
	total := cfg.TotalSeconds
	if total <= 0 {
		total = DefaultTotalSeconds
	}
	max := cfg.MaxSeconds
	if max < total {
		max = total
	}
	return &Timer{
		total:     total,
		max:       max,
		remaining: total,
	}
}

// Tick advances the countdown by one second. It returns true exactly once in
// the timer's life: on the first tick that observes the countdown at zero.
func (t *Timer) Tick() bool {
	if t.remaining > 0 {
		t.remaining--
		if t.remaining > 0 {
			return false
		}
	}
	if t.expired {
		return false
	}
	t.expired = true
	return true
}

// SetFromPercent sets the remaining time to percent of the full duration.
func (t *Timer) SetFromPercent(percent int) {
	if t.expired {
		return
	}
	t.remaining = clampInt(percent, 0, 100) * t.total / 100
}

// AdjustRelative moves the remaining time by delta seconds. Decrements that
// would leave less than floor clamp to floor; increments clamp to the
// configured maximum.
func (t *Timer) AdjustRelative(delta, floor int) {
	if t.expired {
		return
	}
	if delta < 0 {
		if t.remaining >= floor-delta {
			t.remaining += delta
		} else {
			t.remaining = floor
		}
		return
	}
	t.remaining += delta
	if t.remaining > t.max {
		t.remaining = t.max
	}
}

// ResetToFloor fast-forwards the countdown to floor so that the normal
// warning and shutdown path still runs.
func (t *Timer) ResetToFloor(floor int) {
	if t.expired {
		return
	}
	if t.remaining > floor {
		t.remaining = floor
	}
}

// Reset re-arms the countdown to its full duration.
func (t *Timer) Reset() {
	if t.expired {
		return
	}
	t.remaining = t.total
}

// Remaining returns the seconds left.
func (t *Timer) Remaining() int { return t.remaining }

// Total returns the configured full duration.
func (t *Timer) Total() int { return t.total }

// Expired reports whether Tick has already reported zero.
func (t *Timer) Expired() bool { return t.expired }

// Percent returns remaining as a percentage of total, saturated at 100.
func (t *Timer) Percent() int {
	p := t.remaining * 100 / t.total
	if p > 100 {
		return 100
	}
	return p
}
