package slack

import (
	"context"
	"time"

	"github.com/ternarybob/indago/internal/interfaces"
)

// EventDeduper suppresses Slack's at-least-once event redelivery by
// remembering seen event ids for a bounded window.
type EventDeduper struct {
	store interfaces.KeyValueStorage
	ttl   time.Duration
}

func NewEventDeduper(store interfaces.KeyValueStorage, ttl time.Duration) *EventDeduper {
	return &EventDeduper{store: store, ttl: ttl}
}

// Seen records the event id and reports whether it was already present.
// Store failures count as unseen so a broken store never drops events.
func (d *EventDeduper) Seen(ctx context.Context, eventID string) bool {
	if eventID == "" {
		return false
	}
	key := "event:" + eventID
	if d.store.Has(ctx, key) {
		return true
	}
	if err := d.store.SetWithTTL(ctx, key, "1", d.ttl); err != nil {
		return false
	}
	return false
}
