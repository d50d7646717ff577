package services

import (
	"strings"

	"git.solsynth.dev/hypernet/colloquy/pkg/internal/models"
	"github.com/samber/lo"
)

// RecordActivity bumps the counters of a conversation for one new message.
func (v *Directory) RecordActivity(conversationID string, mentioned bool) bool {
	return v.updateCounters(conversationID, func(unread, mention *int) {
		*unread++
		if mentioned {
			*mention++
		}
	})
}

func (v *Directory) MarkRead(conversationID string) bool {
	return v.updateCounters(conversationID, func(unread, mention *int) {
		*unread = 0
		*mention = 0
	})
}

func (v *Directory) updateCounters(conversationID string, apply func(unread, mention *int)) bool {
	v.lock.Lock()
	defer v.lock.Unlock()
	if channel, ok := v.findChannel(conversationID); ok {
		apply(&channel.UnreadCount, &channel.MentionCount)
		return true
	}
	if thread, ok := v.findDirect(conversationID); ok {
		apply(&thread.UnreadCount, &thread.MentionCount)
		return true
	}
	return false
}

// IsMentioned reports whether message mentions user, either by the full
// display name or by its first word, ignoring case.
func IsMentioned(message models.Message, user models.User) bool {
	fields := strings.Fields(user.Name)
	if len(fields) == 0 {
		return false
	}
	return lo.ContainsBy(message.Mentions, func(name string) bool {
		return strings.EqualFold(name, user.Name) || strings.EqualFold(name, fields[0])
	})
}
