// file: internal/events/bus.go
// version: 1.0.0
// guid: af4ea6fa-92d1-49bf-a3be-0697e388d655

// Package events is the in-process domain event bus. Delivery is
// at-most-once and non-transactional; observers drain the buffer.
package events

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// DefaultCapacity bounds the event buffer.
const DefaultCapacity = 1024

// Event is one serialized domain event.
type Event struct {
	Name       string          `json:"name"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// Bus buffers published events in insertion order.
type Bus struct {
	mu       sync.Mutex
	capacity int
	buf      []Event
}

// NewBus creates a bus holding at most capacity events. When full, the
// oldest event is dropped to admit the new one.
func NewBus(capacity int) *Bus {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Bus{capacity: capacity}
}

// Publish serializes payload and appends the event.
func (b *Bus) Publish(name string, payload any) error {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		raw = data
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.buf) >= b.capacity {
		log.Printf("[WARN] events: buffer full, dropping oldest event %s", b.buf[0].Name)
		b.buf = b.buf[1:]
	}
	b.buf = append(b.buf, Event{Name: name, OccurredAt: time.Now(), Payload: raw})
	return nil
}

// Drain atomically takes the buffered events and resets the buffer.
func (b *Bus) Drain() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.buf
	b.buf = nil
	return out
}

// Len reports the number of buffered events.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buf)
}

// IsEmpty reports whether the buffer holds no events.
func (b *Bus) IsEmpty() bool {
	return b.Len() == 0
}
