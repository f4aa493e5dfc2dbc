package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/models"
)

func TestEventBroker_RoutesByUserAndKind(t *testing.T) {
	b := NewEventBroker(logger.Nop())

	links, cancelLinks := b.Subscribe("u-1", models.EntityKindLinks)
	defer cancelLinks()
	collections, cancelCollections := b.Subscribe("u-1", models.EntityKindCollections)
	defer cancelCollections()
	other, cancelOther := b.Subscribe("u-2", models.EntityKindLinks)
	defer cancelOther()

	b.Publish(models.ChangeEvent{UserID: "u-1", EntityKind: models.EntityKindLinks, Event: models.RemoteEventInsert})

	assert.Len(t, links, 1)
	assert.Empty(t, collections)
	assert.Empty(t, other)
}

func TestEventBroker_DropsWhenSubscriberIsBehind(t *testing.T) {
	b := NewEventBroker(logger.Nop())
	events, cancel := b.Subscribe("u-1", models.EntityKindLinks)
	defer cancel()

	for range subscriberBuffer * 2 {
		b.Publish(models.ChangeEvent{UserID: "u-1", EntityKind: models.EntityKindLinks, Event: models.RemoteEventUpdate})
	}

	assert.Len(t, events, subscriberBuffer)
}

func TestEventBroker_CancelClosesChannel(t *testing.T) {
	b := NewEventBroker(logger.Nop())
	events, cancel := b.Subscribe("u-1", models.EntityKindLinks)

	cancel()
	cancel()

	_, open := <-events
	assert.False(t, open)

	// publishing to a topic without subscribers is a no-op
	b.Publish(models.ChangeEvent{UserID: "u-1", EntityKind: models.EntityKindLinks})
}
