package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"git.solsynth.dev/hypernet/colloquy/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Session is the handle the host holds for one signed in user.
type Session struct {
	User    models.User
	IsAdmin bool

	Directory *Directory
	Messages  *MessageStore
	Reminders *ReminderBook
	Bus       *EventBus

	clock func() time.Time
}

func NewSession(user models.User, isAdmin bool, directory *Directory, source MessageSource) *Session {
	bus := NewEventBus()
	return &Session{
		User:      user,
		IsAdmin:   isAdmin,
		Directory: directory,
		Messages:  NewMessageStore(source, user, bus),
		Reminders: NewReminderBook(),
		Bus:       bus,
		clock:     time.Now,
	}
}

func (v *Session) SetClock(clock func() time.Time) {
	v.clock = clock
	v.Messages.SetClock(clock)
}

func (v *Session) Caller() Caller {
	return Caller{UserID: v.User.ID, IsAdmin: v.IsAdmin}
}

// SelectConversation marks the conversation read and starts loading it.
// The returned channel yields the load result once it settles.
func (v *Session) SelectConversation(ctx context.Context, id string) (<-chan error, error) {
	if !v.Directory.Has(id) {
		return nil, fmt.Errorf("%w: %s", ErrConversationNotFound, id)
	}
	v.Directory.MarkRead(id)

	load := v.Messages.beginLoad(ctx, id)
	done := make(chan error, 1)
	go func() {
		defer close(done)
		_, err := v.Messages.commitLoad(load)
		if err != nil && !errors.Is(err, ErrLoadSuperseded) {
			log.Warn().Err(err).Str("conversation", id).Msg("An error occurred when loading conversation...")
		}
		done <- err
	}()
	return done, nil
}

// Compose sends the content and uploads to the active conversation,
// threading it under the pending reply selection if there is one.
func (v *Session) Compose(content string, uploads []Upload) (models.Message, bool) {
	return v.Messages.Send(Draft{
		Content:     content,
		Attachments: lo.Map(uploads, NewAttachment),
		ReplyTo:     v.Messages.ReplyingTo(),
	})
}

// ReceiveActivity accounts a message that arrived outside the active conversation.
func (v *Session) ReceiveActivity(conversationID string, message models.Message) bool {
	if conversationID == v.Messages.ConversationID() {
		return false
	}
	return v.Directory.RecordActivity(conversationID, IsMentioned(message, v.User))
}

func (v *Session) Remind(messageID, code string) (models.Reminder, bool) {
	message, ok := v.Messages.Get(messageID)
	if !ok {
		return models.Reminder{}, false
	}
	reminder := v.Reminders.Schedule(message, code, v.clock())
	log.Debug().Str("message", messageID).Str("offset", reminder.Offset.Label()).Msg("Reminder scheduled.")
	return reminder, true
}

func (v *Session) DispatchDueReminders() {
	v.Reminders.DispatchDue(v.clock(), v.Bus)
}

func (v *Session) Forward(messageID, targetConversationID string) bool {
	message, ok := v.Messages.Get(messageID)
	if !ok || !v.Directory.Has(targetConversationID) {
		return false
	}
	v.Bus.Publish(newMessageEvent(models.EventMessageForward, message, models.EventForwardBody{
		TargetConversationID: targetConversationID,
		Original:             snapshotOf(message),
		Attachments:          message.Attachments,
	}))
	return true
}

func (v *Session) CopyLink(messageID string) (string, bool) {
	message, ok := v.Messages.Get(messageID)
	if !ok {
		return "", false
	}
	link, err := BuildMessageLink(message.ConversationID, message.ID)
	if err != nil {
		log.Error().Err(err).Str("message", messageID).Msg("An error occurred when building message link...")
		return "", false
	}
	return link, true
}

// DeleteChannel removes the channel and unloads it when it is the active conversation.
func (v *Session) DeleteChannel(id string) error {
	if err := v.Directory.DeleteChannel(v.Caller(), id); err != nil {
		return err
	}
	if v.Messages.ConversationID() == id {
		v.Messages.Unload()
	}
	return nil
}
