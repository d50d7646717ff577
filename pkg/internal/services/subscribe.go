package services

import (
	"sync"

	"git.solsynth.dev/hypernet/colloquy/pkg/internal/models"
	"github.com/google/uuid"
)

type EventListener func(event models.Event)

// EventBus fans events out to the host. Listeners run synchronously
// on the goroutine that produced the event.
type EventBus struct {
	lock      sync.Mutex
	listeners map[string]EventListener
}

func NewEventBus() *EventBus {
	return &EventBus{listeners: make(map[string]EventListener)}
}

// Subscribe returns an id usable with Unsubscribe.
func (v *EventBus) Subscribe(listener EventListener) string {
	v.lock.Lock()
	defer v.lock.Unlock()
	id := uuid.NewString()
	v.listeners[id] = listener
	return id
}

func (v *EventBus) Unsubscribe(id string) {
	v.lock.Lock()
	defer v.lock.Unlock()
	delete(v.listeners, id)
}

func (v *EventBus) UnsubscribeAll() {
	v.lock.Lock()
	defer v.lock.Unlock()
	clear(v.listeners)
}

func (v *EventBus) Publish(event models.Event) {
	if v == nil {
		return
	}
	v.lock.Lock()
	targets := make([]EventListener, 0, len(v.listeners))
	for _, listener := range v.listeners {
		targets = append(targets, listener)
	}
	v.lock.Unlock()

	for _, listener := range targets {
		listener(event)
	}
}
