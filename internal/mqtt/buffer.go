package mqtt

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// inbox is a fixed-capacity FIFO holding messages delivered by the client's
// network goroutine until the scheduler polls them.
type inbox struct {
	mu       sync.Mutex
	buf      []Message
	capacity int
	head     int // next write position
	count    int
	overflow bool // true if any message was dropped since last drain
}

func newInbox(capacity int) *inbox {
	return &inbox{
		buf:      make([]Message, capacity),
		capacity: capacity,
	}
}

func (r *inbox) push(msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count == r.capacity {
		if !r.overflow {
			logrus.Warnf("mqtt: inbox full (%d messages), dropping oldest", r.capacity)
			r.overflow = true
		}
		// Overwrite oldest: head is already pointing at it
		r.buf[r.head] = msg
		r.head = (r.head + 1) % r.capacity
		return
	}
	r.buf[r.head] = msg
	r.head = (r.head + 1) % r.capacity
	r.count++
}

func (r *inbox) drainAll() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count == 0 {
		return nil
	}

	result := make([]Message, r.count)
	// Oldest item is at (head - count) mod capacity
	start := (r.head - r.count + r.capacity) % r.capacity
	for i := 0; i < r.count; i++ {
		result[i] = r.buf[(start+i)%r.capacity]
	}

	r.count = 0
	r.head = 0
	r.overflow = false
	return result
}

func (r *inbox) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
