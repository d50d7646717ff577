package services

import (
	"slices"
	"sync"
	"time"

	"git.solsynth.dev/hypernet/colloquy/pkg/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// ReminderBook keeps the reminders set on messages until they are due.
type ReminderBook struct {
	lock      sync.Mutex
	reminders []models.Reminder
}

func NewReminderBook() *ReminderBook {
	return &ReminderBook{}
}

// Schedule records a reminder. Unknown offset codes are kept with an
// unspecified time and are never returned by Due.
func (v *ReminderBook) Schedule(message models.Message, code string, now time.Time) models.Reminder {
	offset := models.ParseReminderOffset(code)
	reminder := models.Reminder{
		ID:             uuid.NewString(),
		MessageID:      message.ID,
		ConversationID: message.ConversationID,
		Offset:         offset,
		Snapshot:       snapshotOf(message),
	}
	if due, ok := offset.DueAt(now); ok {
		reminder.DueAt = &due
	}

	v.lock.Lock()
	defer v.lock.Unlock()
	v.reminders = append(v.reminders, reminder)
	return reminder
}

// Due removes and returns the reminders due at or before now, earliest first.
func (v *ReminderBook) Due(now time.Time) []models.Reminder {
	v.lock.Lock()
	defer v.lock.Unlock()

	due, pending := lo.FilterReject(v.reminders, func(item models.Reminder, index int) bool {
		return item.DueAt != nil && !item.DueAt.After(now)
	})
	v.reminders = pending
	slices.SortStableFunc(due, func(a, b models.Reminder) int {
		return a.DueAt.Compare(*b.DueAt)
	})
	return due
}

func (v *ReminderBook) Pending() []models.Reminder {
	v.lock.Lock()
	defer v.lock.Unlock()
	return slices.Clone(v.reminders)
}

func (v *ReminderBook) DispatchDue(now time.Time, bus *EventBus) int {
	due := v.Due(now)
	for _, item := range due {
		bus.Publish(models.Event{
			Type:           models.EventMessageRemind,
			ConversationID: item.ConversationID,
			MessageID:      item.MessageID,
			Payload: models.EventRemindBody{
				Offset:   item.Offset,
				Label:    item.Offset.Label(),
				Original: item.Snapshot,
			},
		})
	}
	if len(due) > 0 {
		log.Debug().Int("count", len(due)).Time("now", now).Msg("Dispatched due reminders.")
	}
	return len(due)
}
