package service

import (
	"sync"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/models"
)

const subscriberBuffer = 16

type topic struct {
	userID string
	kind   models.EntityKind
}

type subscriber struct {
	events chan models.ChangeEvent
}

// eventBroker is an in-process fan-out of change events. A slow subscriber
// loses events instead of stalling writers; clients refetch on any event,
// so one delivered event per burst is enough.
type eventBroker struct {
	mu     sync.Mutex
	topics map[topic]map[*subscriber]struct{}

	logger *logger.Logger
}

func NewEventBroker(logger *logger.Logger) EventBroker {
	return &eventBroker{
		topics: make(map[topic]map[*subscriber]struct{}),
		logger: logger,
	}
}

func (b *eventBroker) Publish(event models.ChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.topics[topic{userID: event.UserID, kind: event.EntityKind}] {
		select {
		case sub.events <- event:
		default:
			b.logger.Debug().
				Str("user_id", event.UserID).
				Str("entity_kind", event.EntityKind.String()).
				Msg("subscriber is behind, change event dropped")
		}
	}
}

func (b *eventBroker) Subscribe(userID string, kind models.EntityKind) (<-chan models.ChangeEvent, func()) {
	key := topic{userID: userID, kind: kind}
	sub := &subscriber{events: make(chan models.ChangeEvent, subscriberBuffer)}

	b.mu.Lock()
	if b.topics[key] == nil {
		b.topics[key] = make(map[*subscriber]struct{})
	}
	b.topics[key][sub] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.topics[key], sub)
			if len(b.topics[key]) == 0 {
				delete(b.topics, key)
			}
			close(sub.events)
			b.mu.Unlock()
		})
	}

	return sub.events, cancel
}
