// Package ota receives firmware updates and reports their progress as
// events the scheduler polls between frames.
package ota

import (
	"fmt"
	"sync"
)

// Kind classifies an update event.
type Kind int

const (
	KindStart Kind = iota
	KindProgress
	KindEnd
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindStart:
		return "START"
	case KindProgress:
		return "PROGRESS"
	case KindEnd:
		return "END"
	case KindError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ErrorCode categorises a failed update.
type ErrorCode int

const (
	ErrorAuth ErrorCode = iota
	ErrorBegin
	ErrorConnect
	ErrorReceive
	ErrorEnd
)

// Label is the text shown on screen for the error.
func (c ErrorCode) Label() string {
	switch c {
	case ErrorAuth:
		return "Auth Failed"
	case ErrorBegin:
		return "Begin Failed"
	case ErrorConnect:
		return "Connect Failed"
	case ErrorReceive:
		return "Receive Failed"
	case ErrorEnd:
		return "End Failed"
	default:
		return "Update Failed"
	}
}

// Event is one step of an update.
type Event struct {
	Kind    Kind
	Percent int       // KindProgress
	Code    ErrorCode // KindError
	Detail  string
}

func (e Event) String() string {
	switch e.Kind {
	case KindProgress:
		return fmt.Sprintf("%s %d%%", e.Kind, e.Percent)
	case KindError:
		return fmt.Sprintf("%s %s: %s", e.Kind, e.Code.Label(), e.Detail)
	default:
		return e.Kind.String()
	}
}

// Source is polled by the scheduler for pending update events.
type Source interface {
	Poll() []Event
}

// Queue is a Source fed from another goroutine.
type Queue struct {
	mu     sync.Mutex
	events []Event
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends an event.
func (q *Queue) Push(e Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, e)
}

// Poll returns and clears the pending events.
func (q *Queue) Poll() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	events := q.events
	q.events = nil
	return events
}

// NoUpdates is a Source that never reports anything.
type NoUpdates struct{}

// Poll returns nil.
func (NoUpdates) Poll() []Event { return nil }
