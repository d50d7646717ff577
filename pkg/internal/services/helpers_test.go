package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/colloquy/pkg/internal/models"
	"github.com/samber/lo"
)

var (
	testUser  = models.User{ID: "u-test", Name: "Andrei Popescu"}
	testOther = models.User{ID: "u-maria", Name: "Maria Ionescu"}
	testEpoch = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
)

type memorySource struct {
	conversations map[string][]models.Message
}

func (v memorySource) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	return lo.Map(v.conversations[conversationID], func(item models.Message, index int) models.Message {
		return models.CloneMessage(item)
	}), nil
}

// gatedSource holds every load until its conversation is released.
type gatedSource struct {
	memorySource
	lock  sync.Mutex
	gates map[string]chan struct{}
}

func newGatedSource(conversations map[string][]models.Message) *gatedSource {
	gates := make(map[string]chan struct{})
	for id := range conversations {
		gates[id] = make(chan struct{})
	}
	return &gatedSource{memorySource: memorySource{conversations}, gates: gates}
}

func (v *gatedSource) release(conversationID string) {
	v.lock.Lock()
	defer v.lock.Unlock()
	close(v.gates[conversationID])
}

func (v *gatedSource) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	v.lock.Lock()
	gate := v.gates[conversationID]
	v.lock.Unlock()
	<-gate
	return v.memorySource.ListMessages(ctx, conversationID)
}

func testMessage(id string, sender models.User, content string, offset time.Duration) models.Message {
	return models.Message{
		ID:        id,
		Content:   content,
		Sender:    sender.AsSender(),
		Timestamp: testEpoch.Add(offset),
		IsRead:    true,
	}
}

func testConversations() map[string][]models.Message {
	parent := testMessage("m-1", testOther, "Oferta e gata #OF123", 0)
	child := testMessage("m-2", testUser, "Mulțumesc", time.Minute)
	child.ReplyTo = lo.ToPtr("m-1")
	child.ReplyToSnapshot = &models.ReplySnapshot{SenderName: testOther.Name, Content: parent.Content}
	return map[string][]models.Message{
		"c-a": {
			// Out of order on purpose, loads sort by timestamp.
			testMessage("m-3", testOther, "Altceva", 2*time.Minute),
			parent,
			child,
		},
		"c-b": {
			testMessage("m-b1", testOther, "Salut din B", 0),
		},
	}
}

func newLoadedStore(t testing.TB, bus *EventBus) *MessageStore {
	store := NewMessageStore(memorySource{testConversations()}, testUser, bus)
	store.SetClock(func() time.Time { return testEpoch.Add(time.Hour) })
	if _, err := store.LoadConversation(context.Background(), "c-a"); err != nil {
		t.Fatalf("unable to load conversation: %v", err)
	}
	return store
}

func expectedReplyFlags(messages []models.Message) map[string]bool {
	expected := make(map[string]bool)
	for _, item := range messages {
		expected[item.ID] = lo.ContainsBy(messages, func(other models.Message) bool {
			return other.IsReplyTo(item.ID)
		})
	}
	return expected
}

func replyFlags(messages []models.Message) map[string]bool {
	return lo.SliceToMap(messages, func(item models.Message) (string, bool) {
		return item.ID, item.HasReplies
	})
}
