package services

import (
	"context"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/colloquy/pkg/internal/models"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	now time.Time
}

func (v *testClock) Now() time.Time {
	return v.now
}

func newTestSession(t *testing.T, isAdmin bool) (*Session, *testClock, *[]models.Event) {
	viper.Set("links.base_url", "https://chat.test/")
	viper.Set("security.link_token_secret", "test-secret")
	t.Cleanup(viper.Reset)

	conversations := testConversations()
	source := memorySource{map[string][]models.Message{
		"c-general": conversations["c-a"],
		"c-vanzari": conversations["c-b"],
	}}

	clock := &testClock{now: testEpoch}
	session := NewSession(testUser, isAdmin, newTestDirectory(), source)
	session.SetClock(clock.Now)

	var events []models.Event
	session.Bus.Subscribe(func(event models.Event) {
		events = append(events, event)
	})
	return session, clock, &events
}

func selectConversation(t *testing.T, session *Session, id string) {
	done, err := session.SelectConversation(context.Background(), id)
	require.NoError(t, err)
	require.NoError(t, <-done)
}

func TestSelectConversation(t *testing.T) {
	session, _, _ := newTestSession(t, false)

	selectConversation(t, session, "c-vanzari")
	assert.Equal(t, "c-vanzari", session.Messages.ConversationID())
	assert.Len(t, session.Messages.Messages(), 1)

	channel, _ := session.Directory.GetChannel("c-vanzari")
	assert.Zero(t, channel.UnreadCount)

	_, err := session.SelectConversation(context.Background(), "c-missing")
	assert.ErrorIs(t, err, ErrConversationNotFound)
	assert.Equal(t, "c-vanzari", session.Messages.ConversationID())
}

func TestSelectConversationKeepsLatestRequest(t *testing.T) {
	for _, releaseOrder := range [][]string{
		{"c-vanzari", "c-general"},
		{"c-general", "c-vanzari"},
	} {
		t.Run("release "+releaseOrder[0]+" first", func(t *testing.T) {
			conversations := testConversations()
			source := newGatedSource(map[string][]models.Message{
				"c-general": conversations["c-a"],
				"c-vanzari": conversations["c-b"],
			})
			session := NewSession(testUser, false, newTestDirectory(), source)

			first, err := session.SelectConversation(context.Background(), "c-general")
			require.NoError(t, err)
			second, err := session.SelectConversation(context.Background(), "c-vanzari")
			require.NoError(t, err)
			assert.Equal(t, "c-vanzari", session.Messages.ConversationID())
			assert.True(t, session.Messages.Loading())

			for _, id := range releaseOrder {
				source.release(id)
			}
			assert.ErrorIs(t, <-first, ErrLoadSuperseded)
			require.NoError(t, <-second)

			assert.Equal(t, "c-vanzari", session.Messages.ConversationID())
			assert.False(t, session.Messages.Loading())
			assert.Equal(t, []string{"m-b1"}, lo.Map(session.Messages.Messages(), func(item models.Message, index int) string {
				return item.ID
			}))
		})
	}
}

func TestComposeConvertsUploads(t *testing.T) {
	session, _, events := newTestSession(t, false)
	selectConversation(t, session, "c-general")

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	message, ok := session.Compose("Poza de pe șantier", []Upload{
		{Name: "santier.png", Data: png},
		{Data: []byte("note simple")},
	})
	require.True(t, ok)
	require.Len(t, message.Attachments, 2)

	first := message.Attachments[0]
	assert.Equal(t, "santier.png", first.Name)
	assert.Equal(t, "image/png", first.MimeType)
	assert.Equal(t, int64(len(png)), first.SizeBytes)
	assert.Equal(t, "https://chat.test/attachments/"+first.ID, first.URL)

	second := message.Attachments[1]
	assert.Equal(t, "attachment-2", second.Name)
	assert.Equal(t, "text/plain; charset=utf-8", second.MimeType)

	assert.Equal(t, models.EventMessageNew, (*events)[len(*events)-1].Type)

	_, ok = session.Compose("  ", nil)
	assert.False(t, ok)
}

func TestComposeUsesReplySelection(t *testing.T) {
	session, _, _ := newTestSession(t, false)
	selectConversation(t, session, "c-general")

	require.True(t, session.Messages.StartReply("m-1"))
	message, ok := session.Compose("Confirm", nil)
	require.True(t, ok)
	require.NotNil(t, message.ReplyTo)
	assert.Equal(t, "m-1", *message.ReplyTo)
	assert.Nil(t, session.Messages.ReplyingTo())
}

func TestReceiveActivity(t *testing.T) {
	session, _, _ := newTestSession(t, false)
	selectConversation(t, session, "c-general")

	mention := models.Message{Content: "@Andrei vezi", Mentions: ExtractMentions("@Andrei vezi")}
	assert.True(t, session.ReceiveActivity("c-logistica", mention))
	assert.True(t, session.ReceiveActivity("c-logistica", models.Message{Content: "salut"}))
	channel, _ := session.Directory.GetChannel("c-logistica")
	assert.Equal(t, 2, channel.UnreadCount)
	assert.Equal(t, 1, channel.MentionCount)

	// Activity in the open conversation is already on screen.
	assert.False(t, session.ReceiveActivity("c-general", mention))
}

func TestRemindDispatchesWhenDue(t *testing.T) {
	session, clock, events := newTestSession(t, false)
	selectConversation(t, session, "c-general")

	reminder, ok := session.Remind("m-1", "30m")
	require.True(t, ok)
	require.NotNil(t, reminder.DueAt)
	assert.Equal(t, models.Reminder30Minutes, reminder.Offset)

	unspecified, ok := session.Remind("m-1", "later")
	require.True(t, ok)
	assert.Equal(t, models.ReminderUnspecified, unspecified.Offset)
	assert.Nil(t, unspecified.DueAt)

	_, ok = session.Remind("m-missing", "1h")
	assert.False(t, ok)

	*events = nil
	session.DispatchDueReminders()
	assert.Empty(t, *events)

	clock.now = testEpoch.Add(31 * time.Minute)
	session.DispatchDueReminders()
	require.Len(t, *events, 1)
	event := (*events)[0]
	assert.Equal(t, models.EventMessageRemind, event.Type)
	assert.Equal(t, "m-1", event.MessageID)
	body, ok := event.Payload.(models.EventRemindBody)
	require.True(t, ok)
	assert.Equal(t, "în 30 de minute", body.Label)
	assert.Equal(t, "Oferta e gata #OF123", body.Original.Content)

	assert.Len(t, session.Reminders.Pending(), 1)
}

func TestForward(t *testing.T) {
	session, _, events := newTestSession(t, false)
	selectConversation(t, session, "c-general")

	*events = nil
	assert.True(t, session.Forward("m-1", "d-maria"))
	require.Len(t, *events, 1)
	body, ok := (*events)[0].Payload.(models.EventForwardBody)
	require.True(t, ok)
	assert.Equal(t, "d-maria", body.TargetConversationID)
	assert.Equal(t, testOther.Name, body.Original.SenderName)

	assert.False(t, session.Forward("m-1", "c-missing"))
	assert.False(t, session.Forward("m-missing", "d-maria"))
}

func TestCopyLink(t *testing.T) {
	session, _, _ := newTestSession(t, false)
	selectConversation(t, session, "c-general")

	link, ok := session.CopyLink("m-2")
	require.True(t, ok)
	assert.Contains(t, link, "https://chat.test/c/c-general/m/m-2?token=")

	claims, err := ParseMessageLink(link)
	require.NoError(t, err)
	assert.Equal(t, "c-general", claims.ConversationID)
	assert.Equal(t, "m-2", claims.MessageID)

	_, ok = session.CopyLink("m-missing")
	assert.False(t, ok)
}

func TestSessionDeleteChannel(t *testing.T) {
	session, _, _ := newTestSession(t, false)
	selectConversation(t, session, "c-general")
	assert.ErrorIs(t, session.DeleteChannel("c-general"), ErrUnauthorized)

	session.IsAdmin = true
	require.NoError(t, session.DeleteChannel("c-general"))
	assert.Empty(t, session.Messages.ConversationID())
	assert.Empty(t, session.Messages.Messages())
}
