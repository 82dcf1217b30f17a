// Package events fans database mutations out to live clients. Services
// publish a change event after each successful write; subscribers stream
// them to the frontend so lists refresh without polling.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/henningcullin/service-system/internal/cache"
)

// Pub/sub channel names.
const (
	TaskChannel   = "task_changed"
	ReportChannel = "report_changed"
)

// Change describes a single mutation.
type Change struct {
	Action string    `json:"action"` // created | updated | deleted
	ID     uuid.UUID `json:"id"`
	At     time.Time `json:"at"`
}

// Publisher emits change events.
type Publisher interface {
	Publish(ctx context.Context, channel, action string, id uuid.UUID)
}

// Subscriber receives change events from a channel until the context ends.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string) <-chan Change
}

// Bus is a redis pub/sub backed Publisher and Subscriber. Events are
// best-effort: a dropped event only delays a client-side refresh.
type Bus struct {
	cache *cache.Client
}

// NewBus creates a Bus on top of the shared redis client.
func NewBus(cache *cache.Client) *Bus {
	return &Bus{cache: cache}
}

// Publish emits a change event. Failures are swallowed by the cache layer.
func (b *Bus) Publish(ctx context.Context, channel, action string, id uuid.UUID) {
	payload, err := json.Marshal(Change{Action: action, ID: id, At: time.Now()})
	if err != nil {
		return
	}
	_ = b.cache.Publish(ctx, channel, payload)
}

// Subscribe returns a channel of decoded change events. The channel closes
// when ctx is cancelled.
func (b *Bus) Subscribe(ctx context.Context, channel string) <-chan Change {
	out := make(chan Change)
	msgs, closeSub := b.cache.Subscribe(ctx, channel)

	go func() {
		defer close(out)
		defer func() { _ = closeSub() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var change Change
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					continue
				}
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
