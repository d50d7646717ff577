package models

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

type Channel struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	IsPrivate    bool      `json:"is_private"`
	IsPinned     bool      `json:"is_pinned"`
	IsArchived   bool      `json:"is_archived"`
	UnreadCount  int       `json:"unread_count"`
	MentionCount int       `json:"mention_count"`
	AllowedUsers []string  `json:"allowed_users,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (v Channel) HasUnread() bool {
	return v.UnreadCount > 0
}

// DirectMessageThread always has exactly two participants.
// It is implicitly private and is never pinned or archived.
type DirectMessageThread struct {
	ID           string `json:"id"`
	Users        []User `json:"users"`
	UnreadCount  int    `json:"unread_count"`
	MentionCount int    `json:"mention_count"`
}

func (v DirectMessageThread) HasUnread() bool {
	return v.UnreadCount > 0
}

// Other returns the participant that is not self.
func (v DirectMessageThread) Other(selfID string) User {
	other, ok := lo.Find(v.Users, func(item User) bool {
		return item.ID != selfID
	})
	if !ok && len(v.Users) > 0 {
		return v.Users[0]
	}
	return other
}

func (v DirectMessageThread) HasParticipant(id string) bool {
	return lo.ContainsBy(v.Users, func(item User) bool {
		return item.ID == id
	})
}

func (v DirectMessageThread) DisplayText(selfID string) string {
	return strings.TrimSpace(v.Other(selfID).Name)
}
