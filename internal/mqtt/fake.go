package mqtt

import (
	"context"
	"sync"
)

// FakeAck is an Ack controlled by the test.
type FakeAck struct {
	done chan struct{}
	once sync.Once
	err  error
}

// NewFakeAck returns a pending ack.
func NewFakeAck() *FakeAck {
	return &FakeAck{done: make(chan struct{})}
}

// Complete resolves the ack with err.
func (a *FakeAck) Complete(err error) {
	a.once.Do(func() {
		a.err = err
		close(a.done)
	})
}

func (a *FakeAck) Done() <-chan struct{} { return a.done }
func (a *FakeAck) Error() error          { return a.err }

// FakeRelay records publishes and replays queued inbound messages.
type FakeRelay struct {
	mu sync.Mutex

	// Published contains every state payload, in order.
	Published []string

	// Inbound is returned, and cleared, by the next Poll.
	Inbound []Message

	// Connected controls IsConnected and whether EnsureConnected
	// performs a (simulated) reconnect.
	Connected bool

	// Reconnects counts simulated reconnects.
	Reconnects int

	// EnsureError, if set, is returned by EnsureConnected.
	EnsureError error

	// HoldAcks leaves acks pending; the test resolves them via Acks.
	HoldAcks bool

	// Acks holds the ack returned for each publish.
	Acks []*FakeAck

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeRelay creates a connected FakeRelay.
func NewFakeRelay() *FakeRelay {
	return &FakeRelay{Connected: true}
}

// EnsureConnected simulates a reconnect, which announces "On".
func (f *FakeRelay) EnsureConnected(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.EnsureError != nil {
		return f.EnsureError
	}
	if !f.Connected {
		f.Connected = true
		f.Reconnects++
		f.Published = append(f.Published, PayloadOn)
	}
	return nil
}

// PublishState records payload.
func (f *FakeRelay) PublishState(payload string) Ack {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Published = append(f.Published, payload)
	ack := NewFakeAck()
	if !f.HoldAcks {
		ack.Complete(nil)
	}
	f.Acks = append(f.Acks, ack)
	return ack
}

// Push queues an inbound message for the next Poll.
func (f *FakeRelay) Push(topic, payload string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Inbound = append(f.Inbound, Message{Topic: topic, Payload: []byte(payload)})
}

// Poll drains queued inbound messages.
func (f *FakeRelay) Poll() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.Inbound
	f.Inbound = nil
	return msgs
}

// IsConnected reports the Connected field.
func (f *FakeRelay) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Connected
}

// Close marks the relay as closed.
func (f *FakeRelay) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	f.Connected = false
	return nil
}

// Count returns how many times payload was published.
func (f *FakeRelay) Count(payload string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.Published {
		if p == payload {
			n++
		}
	}
	return n
}
