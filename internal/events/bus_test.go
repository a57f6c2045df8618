// file: internal/events/bus_test.go
// version: 1.0.0
// guid: 843252b9-ea99-40b9-bf43-c3993ab368ea

package events

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
)

func TestPublishDrainOrder(t *testing.T) {
	b := NewBus(100)
	const n = 10
	for i := 0; i < n; i++ {
		if err := b.Publish(fmt.Sprintf("event-%d", i), map[string]int{"seq": i}); err != nil {
			t.Fatalf("Publish %d failed: %v", i, err)
		}
	}
	if b.Len() != n {
		t.Errorf("Len = %d, want %d", b.Len(), n)
	}

	drained := b.Drain()
	if len(drained) != n {
		t.Fatalf("drained %d events, want %d", len(drained), n)
	}
	for i, ev := range drained {
		if ev.Name != fmt.Sprintf("event-%d", i) {
			t.Errorf("event %d = %s, want insertion order preserved", i, ev.Name)
		}
		var payload map[string]int
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			t.Fatalf("payload %d: %v", i, err)
		}
		if payload["seq"] != i {
			t.Errorf("payload seq = %d, want %d", payload["seq"], i)
		}
		if ev.OccurredAt.IsZero() {
			t.Error("OccurredAt should be set")
		}
	}

	if second := b.Drain(); len(second) != 0 {
		t.Errorf("second drain yielded %d events, want 0", len(second))
	}
	if !b.IsEmpty() {
		t.Error("bus should be empty after drain")
	}
}

func TestBoundedBufferDropsOldest(t *testing.T) {
	b := NewBus(3)
	for i := 0; i < 5; i++ {
		if err := b.Publish(fmt.Sprintf("e%d", i), nil); err != nil {
			t.Fatal(err)
		}
	}
	drained := b.Drain()
	if len(drained) != 3 {
		t.Fatalf("drained %d, want 3", len(drained))
	}
	if drained[0].Name != "e2" || drained[2].Name != "e4" {
		t.Errorf("kept events = [%s..%s], want the newest three", drained[0].Name, drained[2].Name)
	}
}

func TestPublishUnserializablePayload(t *testing.T) {
	b := NewBus(10)
	if err := b.Publish("bad", make(chan int)); err == nil {
		t.Error("unserializable payload should fail")
	}
	if !b.IsEmpty() {
		t.Error("failed publish should not buffer an event")
	}
}

func TestConcurrentPublish(t *testing.T) {
	b := NewBus(1000)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = b.Publish("concurrent", map[string]int{"i": i})
		}(i)
	}
	wg.Wait()
	if got := b.Len(); got != 50 {
		t.Errorf("Len = %d, want 50", got)
	}
}
