package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"git.solsynth.dev/hypernet/colloquy/pkg/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// MessageSource is the backing collaborator that owns stored conversations.
type MessageSource interface {
	ListMessages(ctx context.Context, conversationID string) ([]models.Message, error)
}

type Draft struct {
	Content     string
	Attachments []models.Attachment
	ReplyTo     *string
}

func (v Draft) IsEmpty() bool {
	return len(strings.TrimSpace(v.Content)) == 0 && len(v.Attachments) == 0
}

// MessageStore holds the message sequence of the active conversation.
// Only one load may be outstanding, older loads are discarded when they settle.
type MessageStore struct {
	lock   sync.Mutex
	source MessageSource
	bus    *EventBus
	user   models.User
	clock  func() time.Time

	conversationID string
	messages       []*models.Message
	loading        bool
	generation     uint64
	cancel         context.CancelFunc

	replyingTo *string
	bookmarks  map[string]struct{}
}

func NewMessageStore(source MessageSource, user models.User, bus *EventBus) *MessageStore {
	return &MessageStore{
		source:    source,
		bus:       bus,
		user:      user,
		clock:     time.Now,
		bookmarks: make(map[string]struct{}),
	}
}

func (v *MessageStore) SetClock(clock func() time.Time) {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.clock = clock
}

func (v *MessageStore) ConversationID() string {
	v.lock.Lock()
	defer v.lock.Unlock()
	return v.conversationID
}

func (v *MessageStore) Loading() bool {
	v.lock.Lock()
	defer v.lock.Unlock()
	return v.loading
}

func (v *MessageStore) LoadConversation(ctx context.Context, conversationID string) ([]models.Message, error) {
	return v.commitLoad(v.beginLoad(ctx, conversationID))
}

// pendingLoad is a load that already owns its generation.
type pendingLoad struct {
	ctx            context.Context
	cancel         context.CancelFunc
	generation     uint64
	conversationID string
}

// beginLoad supersedes any load in flight and switches the store to the
// conversation. It must run on the caller's goroutine so the request order
// decides which load wins.
func (v *MessageStore) beginLoad(ctx context.Context, conversationID string) *pendingLoad {
	v.lock.Lock()
	defer v.lock.Unlock()
	if v.cancel != nil {
		v.cancel()
	}
	v.generation++
	ctx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.loading = true
	v.conversationID = conversationID
	v.messages = nil
	v.replyingTo = nil

	log.Debug().Str("conversation", conversationID).Uint64("generation", v.generation).Msg("Loading conversation...")
	return &pendingLoad{
		ctx:            ctx,
		cancel:         cancel,
		generation:     v.generation,
		conversationID: conversationID,
	}
}

// commitLoad fetches the messages and publishes them unless a newer load started meanwhile.
func (v *MessageStore) commitLoad(load *pendingLoad) ([]models.Message, error) {
	defer load.cancel()
	conversationID := load.conversationID
	fetched, err := v.source.ListMessages(load.ctx, conversationID)

	v.lock.Lock()
	if load.generation != v.generation {
		v.lock.Unlock()
		log.Debug().Str("conversation", conversationID).Msg("Discarded result of a superseded conversation load.")
		return nil, ErrLoadSuperseded
	}
	v.loading = false
	v.cancel = nil
	if err != nil {
		v.lock.Unlock()
		return nil, fmt.Errorf("unable to load conversation %s: %v", conversationID, err)
	}

	messages := lo.Map(fetched, func(item models.Message, index int) *models.Message {
		message := models.CloneMessage(item)
		message.ConversationID = conversationID
		if message.Reactions == nil {
			message.Reactions = make(map[string]*models.Reaction)
		}
		return &message
	})
	slices.SortStableFunc(messages, func(a, b *models.Message) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	v.messages = messages
	v.refreshReplies()
	out := v.snapshot()
	v.lock.Unlock()

	v.bus.Publish(models.Event{
		Type:           models.EventConversationLoaded,
		ConversationID: conversationID,
		Payload:        len(out),
	})

	return out, nil
}

// Unload drops the active conversation and discards any load in flight.
func (v *MessageStore) Unload() {
	v.lock.Lock()
	defer v.lock.Unlock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.generation++
	v.loading = false
	v.conversationID = ""
	v.messages = nil
	v.replyingTo = nil
}

// Send appends a new message authored by the current user. Empty drafts are ignored.
func (v *MessageStore) Send(draft Draft) (models.Message, bool) {
	if draft.IsEmpty() {
		return models.Message{}, false
	}

	v.lock.Lock()
	if v.conversationID == "" || v.loading {
		v.lock.Unlock()
		log.Warn().Msg("Refused to send message while no conversation is ready.")
		return models.Message{}, false
	}

	annotations := Annotate(draft.Content)
	message := &models.Message{
		ID:             uuid.NewString(),
		ConversationID: v.conversationID,
		Content:        draft.Content,
		Sender:         v.user.AsSender(),
		Timestamp:      v.clock(),
		IsRead:         true,
		Attachments: lo.Map(draft.Attachments, func(item models.Attachment, index int) models.Attachment {
			if len(item.ID) == 0 {
				item.ID = uuid.NewString()
			}
			return item
		}),
		Reactions:       make(map[string]*models.Reaction),
		Mentions:        annotations.Mentions,
		DocumentRefs:    annotations.DocumentRefs,
		IsTaskCandidate: annotations.IsTaskCandidate,
	}

	if draft.ReplyTo != nil {
		if parent, ok := v.find(*draft.ReplyTo); ok {
			message.ReplyTo = lo.ToPtr(parent.ID)
			message.ReplyToSnapshot = lo.ToPtr(snapshotOf(*parent))
		} else {
			log.Warn().Str("reply", *draft.ReplyTo).Msg("Reply parent was not found, sending message without thread.")
		}
	}

	v.messages = append(v.messages, message)
	v.replyingTo = nil
	v.refreshReplies()
	out := models.CloneMessage(*message)
	v.lock.Unlock()

	v.bus.Publish(newMessageEvent(models.EventMessageNew, out, out))
	if out.IsTaskCandidate {
		v.bus.Publish(newMessageEvent(models.EventTaskCandidate, out, snapshotOf(out)))
	}

	return out, true
}

// React is not idempotent, the same user reacting twice counts twice.
func (v *MessageStore) React(messageID, emoji string) (models.Reaction, bool) {
	emoji = strings.TrimSpace(emoji)
	if len(emoji) == 0 {
		return models.Reaction{}, false
	}

	v.lock.Lock()
	message, ok := v.find(messageID)
	if !ok {
		v.lock.Unlock()
		return models.Reaction{}, false
	}
	reaction, ok := message.Reactions[emoji]
	if !ok {
		reaction = &models.Reaction{Emoji: emoji}
		message.Reactions[emoji] = reaction
	}
	reaction.Count++
	reaction.Users = append(reaction.Users, v.user.ID)
	out := models.Reaction{
		Emoji: reaction.Emoji,
		Count: reaction.Count,
		Users: slices.Clone(reaction.Users),
	}
	event := newMessageEvent(models.EventMessageReact, *message, out)
	v.lock.Unlock()

	v.bus.Publish(event)
	return out, true
}

func (v *MessageStore) MarkTaskCreated(messageID string) bool {
	v.lock.Lock()
	defer v.lock.Unlock()
	message, ok := v.find(messageID)
	if !ok || message.TaskCreated {
		return false
	}
	message.TaskCreated = true
	return true
}

func (v *MessageStore) MarkEdited(messageID string) bool {
	v.lock.Lock()
	defer v.lock.Unlock()
	message, ok := v.find(messageID)
	if !ok {
		return false
	}
	message.Edited = true
	return true
}

// Edit replaces the content of a message. Mentions, document references and
// the task flag keep the values derived at send time.
func (v *MessageStore) Edit(messageID, content string) bool {
	v.lock.Lock()
	message, ok := v.find(messageID)
	if !ok {
		v.lock.Unlock()
		return false
	}
	if len(strings.TrimSpace(content)) == 0 && len(message.Attachments) == 0 {
		v.lock.Unlock()
		return false
	}
	message.Content = content
	message.Edited = true
	message.EditedAt = lo.ToPtr(v.clock())
	event := newMessageEvent(models.EventMessageEdit, *message, content)
	v.lock.Unlock()

	v.bus.Publish(event)
	return true
}

// Delete removes a message. Replies to it keep a dangling ReplyTo and their snapshot.
func (v *MessageStore) Delete(messageID string) bool {
	v.lock.Lock()
	idx := slices.IndexFunc(v.messages, func(item *models.Message) bool {
		return item.ID == messageID
	})
	if idx < 0 {
		v.lock.Unlock()
		return false
	}
	removed := *v.messages[idx]
	v.messages = slices.Delete(v.messages, idx, idx+1)
	if v.replyingTo != nil && *v.replyingTo == messageID {
		v.replyingTo = nil
	}
	delete(v.bookmarks, messageID)
	v.refreshReplies()
	event := newMessageEvent(models.EventMessageDelete, removed, nil)
	v.lock.Unlock()

	v.bus.Publish(event)
	return true
}

func (v *MessageStore) MarkUnread(messageID string) bool {
	v.lock.Lock()
	defer v.lock.Unlock()
	message, ok := v.find(messageID)
	if !ok {
		return false
	}
	message.IsRead = false
	return true
}

// LatestReplyTo returns the newest direct reply to the message.
func (v *MessageStore) LatestReplyTo(messageID string) (models.Message, bool) {
	v.lock.Lock()
	defer v.lock.Unlock()

	var latest *models.Message
	for _, item := range v.messages {
		if !item.IsReplyTo(messageID) {
			continue
		}
		if latest == nil || !item.Timestamp.Before(latest.Timestamp) {
			latest = item
		}
	}
	if latest == nil {
		return models.Message{}, false
	}
	return models.CloneMessage(*latest), true
}

func (v *MessageStore) StartReply(messageID string) bool {
	v.lock.Lock()
	defer v.lock.Unlock()
	if _, ok := v.find(messageID); !ok {
		return false
	}
	v.replyingTo = lo.ToPtr(messageID)
	return true
}

func (v *MessageStore) CancelReply() {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.replyingTo = nil
}

func (v *MessageStore) ReplyingTo() *string {
	v.lock.Lock()
	defer v.lock.Unlock()
	if v.replyingTo == nil {
		return nil
	}
	return lo.ToPtr(*v.replyingTo)
}

// ToggleBookmark flips the bookmark and reports the new state.
func (v *MessageStore) ToggleBookmark(messageID string) (bool, bool) {
	v.lock.Lock()
	defer v.lock.Unlock()
	if _, ok := v.find(messageID); !ok {
		return false, false
	}
	if _, ok := v.bookmarks[messageID]; ok {
		delete(v.bookmarks, messageID)
		return false, true
	}
	v.bookmarks[messageID] = struct{}{}
	return true, true
}

func (v *MessageStore) Bookmarked(messageID string) bool {
	v.lock.Lock()
	defer v.lock.Unlock()
	_, ok := v.bookmarks[messageID]
	return ok
}

func (v *MessageStore) Get(messageID string) (models.Message, bool) {
	v.lock.Lock()
	defer v.lock.Unlock()
	message, ok := v.find(messageID)
	if !ok {
		return models.Message{}, false
	}
	return models.CloneMessage(*message), true
}

func (v *MessageStore) Messages() []models.Message {
	v.lock.Lock()
	defer v.lock.Unlock()
	return v.snapshot()
}

func (v *MessageStore) find(messageID string) (*models.Message, bool) {
	return lo.Find(v.messages, func(item *models.Message) bool {
		return item.ID == messageID
	})
}

func (v *MessageStore) refreshReplies() {
	parents := make(map[string]struct{}, len(v.messages))
	for _, item := range v.messages {
		if item.ReplyTo != nil {
			parents[*item.ReplyTo] = struct{}{}
		}
	}
	for _, item := range v.messages {
		_, item.HasReplies = parents[item.ID]
	}
}

func (v *MessageStore) snapshot() []models.Message {
	return lo.Map(v.messages, func(item *models.Message, index int) models.Message {
		return models.CloneMessage(*item)
	})
}
