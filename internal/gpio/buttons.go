package gpio

import (
	"time"

	"github.com/sweeney/iron-timer/internal/logic"
)

// Default classification timings.
const (
	DefaultDebounce  = 50 * time.Millisecond
	DefaultLongPress = 800 * time.Millisecond
)

// buttonState tracks debounce and press timing for a single button.
type buttonState struct {
	// Current stable (debounced) level
	stable bool
	// Pending level during debounce
	pending      bool
	pendingSince time.Time
	hasPending   bool
	// Whether the first sample has been seen
	baselined bool

	pressedAt time.Time
	longFired bool
	// ignore suppresses a press that was already held at startup, such as
	// the wake button.
	ignore bool
}

// Classifier turns raw button levels into click and long-press events.
// Time is always injected; it never sleeps.
type Classifier struct {
	debounce  time.Duration
	longPress time.Duration
	a, b      buttonState
}

// NewClassifier creates a classifier. A press held for at least longPress
// emits a long-press as soon as the threshold is reached; a shorter press
// emits a click on release.
func NewClassifier(debounce, longPress time.Duration) *Classifier {
	return &Classifier{debounce: debounce, longPress: longPress}
}

// Process takes one sample of both buttons and returns any events, A first.
func (c *Classifier) Process(aPressed, bPressed bool, now time.Time) []logic.ButtonEvent {
	var events []logic.ButtonEvent
	if g := c.processButton(&c.a, aPressed, now); g != "" {
		events = append(events, logic.ButtonEvent{Button: logic.ButtonA, Gesture: g})
	}
	if g := c.processButton(&c.b, bPressed, now); g != "" {
		events = append(events, logic.ButtonEvent{Button: logic.ButtonB, Gesture: g})
	}
	return events
}

func (c *Classifier) processButton(st *buttonState, pressed bool, now time.Time) logic.Gesture {
	if !st.baselined {
		st.baselined = true
		st.stable = pressed
		st.ignore = pressed
		return ""
	}

	if pressed == st.stable {
		st.hasPending = false
		return c.checkLongPress(st, now)
	}

	if !st.hasPending || st.pending != pressed {
		st.pending = pressed
		st.pendingSince = now
		st.hasPending = true
	}
	if now.Sub(st.pendingSince) < c.debounce {
		return c.checkLongPress(st, now)
	}

	// Debounced transition
	st.stable = pressed
	st.hasPending = false
	if pressed {
		st.pressedAt = st.pendingSince
		st.longFired = false
		return c.checkLongPress(st, now)
	}

	if st.ignore {
		st.ignore = false
		return ""
	}
	if st.longFired {
		return ""
	}
	return logic.GestureClick
}

func (c *Classifier) checkLongPress(st *buttonState, now time.Time) logic.Gesture {
	if !st.stable || st.ignore || st.longFired {
		return ""
	}
	if now.Sub(st.pressedAt) >= c.longPress {
		st.longFired = true
		return logic.GestureLongPress
	}
	return ""
}

// Buttons polls a Reader and classifies what it reads.
type Buttons struct {
	reader     Reader
	classifier *Classifier
}

// NewButtons creates a button event source.
func NewButtons(r Reader, debounce, longPress time.Duration) *Buttons {
	return &Buttons{reader: r, classifier: NewClassifier(debounce, longPress)}
}

// Poll samples the buttons once and returns the events classified at now.
func (b *Buttons) Poll(now time.Time) ([]logic.ButtonEvent, error) {
	a, bb, err := b.reader.Read()
	if err != nil {
		return nil, err
	}
	return b.classifier.Process(a, bb, now), nil
}

// Close releases the underlying reader.
func (b *Buttons) Close() error {
	return b.reader.Close()
}
