package fixtures

import (
	"time"

	"git.solsynth.dev/hypernet/colloquy/pkg/internal/models"
	"git.solsynth.dev/hypernet/colloquy/pkg/internal/services"
	"github.com/samber/lo"
)

var (
	CurrentUser = models.User{ID: "u-andrei", Name: "Andrei Popescu", Avatar: "/avatars/andrei.png", IsOnline: true}
	Maria       = models.User{ID: "u-maria", Name: "Maria Ionescu", Avatar: "/avatars/maria.png", IsOnline: true}
	Ana         = models.User{ID: "u-ana", Name: "Ana Dumitru", Avatar: "/avatars/ana.png"}
	Bogdan      = models.User{ID: "u-bogdan", Name: "Bogdan Stan", Avatar: "/avatars/bogdan.png", IsOnline: true}
)

func Users() []models.User {
	return []models.User{CurrentUser, Maria, Ana, Bogdan}
}

func Channels() []models.Channel {
	created := time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)
	return []models.Channel{
		{ID: "c-general", Name: "general", IsPinned: true, UnreadCount: 3, CreatedAt: created},
		{ID: "c-vanzari", Name: "vânzări", UnreadCount: 1, MentionCount: 1, CreatedAt: created},
		{ID: "c-logistica", Name: "logistică", CreatedAt: created},
		{ID: "c-conducere", Name: "conducere", IsPrivate: true, AllowedUsers: []string{CurrentUser.ID, Maria.ID}, CreatedAt: created},
		{ID: "c-arhiva-2025", Name: "arhivă-2025", IsArchived: true, CreatedAt: created},
	}
}

func DirectThreads() []models.DirectMessageThread {
	return []models.DirectMessageThread{
		{ID: "d-maria", Users: []models.User{CurrentUser, Maria}, UnreadCount: 2, MentionCount: 1},
		{ID: "d-ana", Users: []models.User{CurrentUser, Ana}},
		{ID: "d-bogdan", Users: []models.User{CurrentUser, Bogdan}},
	}
}

// Conversations returns the seeded message history keyed by conversation id.
func Conversations() map[string][]models.Message {
	base := time.Date(2026, time.October, 12, 8, 30, 0, 0, time.UTC)
	at := func(minutes int) time.Time {
		return base.Add(time.Duration(minutes) * time.Minute)
	}

	conversations := map[string][]models.Message{
		"c-general": {
			message("m-g1", Maria, "Bună dimineața! Ședința e la 10.", at(0)),
			message("m-g2", Bogdan, "@Andrei poți să verifici #OF123 înainte?", at(4)),
			reply(message("m-g3", CurrentUser, "Sigur, mă uit acum.", at(6)), "m-g2"),
			message("m-g4", Ana, "Am încărcat lista de prețuri.", at(9), models.Attachment{
				ID:        "a-preturi",
				Name:      "preturi.pdf",
				MimeType:  "application/pdf",
				SizeBytes: 48213,
				URL:       "/attachments/a-preturi",
			}),
		},
		"c-vanzari": {
			message("m-v1", Maria, "Andrei, te rog să trimiți oferta #OF200 clientului.", at(15)),
			message("m-v2", Bogdan, "Comanda #CMD456 a plecat.", at(21)),
		},
		"d-maria": {
			message("m-d1", Maria, "Ai putea să te uiți pe contractul nou?", at(30)),
			message("m-d2", Maria, "@Andrei e urgent", at(31)),
		},
	}
	for id, messages := range conversations {
		conversations[id] = fillSnapshots(id, messages)
	}
	return conversations
}

func message(id string, sender models.User, content string, timestamp time.Time, attachments ...models.Attachment) models.Message {
	return models.Message{
		ID:           id,
		Content:      content,
		Sender:       sender.AsSender(),
		Timestamp:    timestamp,
		IsRead:       true,
		Attachments:  lo.Ternary(len(attachments) > 0, attachments, []models.Attachment{}),
		Reactions:    map[string]*models.Reaction{},
		Mentions:     services.ExtractMentions(content),
		DocumentRefs: services.ExtractDocumentRefs(content),
	}
}

func reply(child models.Message, parentID string) models.Message {
	child.ReplyTo = lo.ToPtr(parentID)
	return child
}

func fillSnapshots(conversationID string, messages []models.Message) []models.Message {
	byID := lo.KeyBy(messages, func(item models.Message) string {
		return item.ID
	})
	for idx := range messages {
		messages[idx].ConversationID = conversationID
		if messages[idx].ReplyTo == nil {
			continue
		}
		if parent, ok := byID[*messages[idx].ReplyTo]; ok {
			messages[idx].ReplyToSnapshot = &models.ReplySnapshot{
				SenderName: parent.Sender.Name,
				Content:    parent.Content,
			}
		}
	}
	return messages
}
