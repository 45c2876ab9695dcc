package mqtt

import (
	"sync"
	"testing"
)

func TestInboxDrainEmpty(t *testing.T) {
	in := newInbox(4)
	if got := in.drainAll(); got != nil {
		t.Errorf("expected nil from empty inbox, got %v", got)
	}
}

func TestInboxPreservesOrder(t *testing.T) {
	in := newInbox(4)
	in.push(Message{Topic: "iron_cmd", Payload: []byte("1")})
	in.push(Message{Topic: "iron_cmd", Payload: []byte("0")})

	got := in.drainAll()
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if string(got[0].Payload) != "1" || string(got[1].Payload) != "0" {
		t.Errorf("expected payloads 1,0 got %s,%s", got[0].Payload, got[1].Payload)
	}
	if got[0].Topic != "iron_cmd" {
		t.Errorf("expected topic iron_cmd, got %s", got[0].Topic)
	}
}

func TestInboxOverflowDropsOldest(t *testing.T) {
	const capacity = 3
	in := newInbox(capacity)
	for i := 0; i < capacity+2; i++ {
		in.push(Message{Topic: "t", Payload: []byte{byte(i)}})
	}

	got := in.drainAll()
	if len(got) != capacity {
		t.Fatalf("expected %d messages, got %d", capacity, len(got))
	}
	for i := 0; i < capacity; i++ {
		want := byte(i + 2)
		if got[i].Payload[0] != want {
			t.Errorf("message %d: expected %d, got %d", i, want, got[i].Payload[0])
		}
	}
	if in.overflow {
		t.Error("expected overflow flag cleared after drain")
	}
}

func TestInboxMultipleCycles(t *testing.T) {
	in := newInbox(5)
	for i := 0; i < 3; i++ {
		in.push(Message{Payload: []byte{byte(i)}})
	}
	if got := in.drainAll(); len(got) != 3 {
		t.Fatalf("cycle 1: expected 3, got %d", len(got))
	}

	for i := 10; i < 14; i++ {
		in.push(Message{Payload: []byte{byte(i)}})
	}
	got := in.drainAll()
	if len(got) != 4 {
		t.Fatalf("cycle 2: expected 4, got %d", len(got))
	}
	for i, msg := range got {
		if msg.Payload[0] != byte(10+i) {
			t.Errorf("cycle 2 message %d: expected %d, got %d", i, 10+i, msg.Payload[0])
		}
	}
}

func TestInboxLen(t *testing.T) {
	in := newInbox(10)
	in.push(Message{})
	in.push(Message{})
	if in.len() != 2 {
		t.Errorf("expected len 2, got %d", in.len())
	}
	in.drainAll()
	if in.len() != 0 {
		t.Errorf("expected len 0 after drain, got %d", in.len())
	}
}

func TestInboxConcurrentPush(t *testing.T) {
	in := newInbox(100)
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				in.push(Message{Topic: "t"})
			}
		}()
	}
	wg.Wait()
	if got := len(in.drainAll()); got != 80 {
		t.Errorf("expected 80 messages, got %d", got)
	}
}
