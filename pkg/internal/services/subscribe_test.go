package services

import (
	"testing"

	"git.solsynth.dev/hypernet/colloquy/pkg/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	var first, second int
	id := bus.Subscribe(func(event models.Event) { first++ })
	bus.Subscribe(func(event models.Event) { second++ })

	bus.Publish(models.Event{Type: models.EventMessageNew})
	bus.Unsubscribe(id)
	bus.Publish(models.Event{Type: models.EventMessageNew})
	bus.UnsubscribeAll()
	bus.Publish(models.Event{Type: models.EventMessageNew})

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)

	var empty *EventBus
	assert.NotPanics(t, func() {
		empty.Publish(models.Event{Type: models.EventMessageNew})
	})
}
