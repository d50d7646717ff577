package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseReminderOffset(t *testing.T) {
	assert.Equal(t, Reminder30Minutes, ParseReminderOffset("30m"))
	assert.Equal(t, ReminderNextWeek, ParseReminderOffset("nextweek"))
	assert.Equal(t, ReminderUnspecified, ParseReminderOffset("2d"))
	assert.Equal(t, ReminderUnspecified, ParseReminderOffset(""))
}

func TestReminderLabels(t *testing.T) {
	assert.Equal(t, "mâine", ReminderTomorrow.Label())
	assert.Equal(t, "timp nespecificat", ParseReminderOffset("whenever").Label())
}

func TestReminderDueAt(t *testing.T) {
	// Wednesday
	now := time.Date(2026, time.October, 14, 15, 20, 0, 0, time.UTC)

	due, ok := Reminder1Hour.DueAt(now)
	assert.True(t, ok)
	assert.Equal(t, now.Add(time.Hour), due)

	due, ok = ReminderTomorrow.DueAt(now)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, time.October, 15, 9, 0, 0, 0, time.UTC), due)

	due, ok = ReminderNextWeek.DueAt(now)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC), due)

	monday := time.Date(2026, time.October, 19, 8, 0, 0, 0, time.UTC)
	due, _ = ReminderNextWeek.DueAt(monday)
	assert.Equal(t, time.Date(2026, time.October, 26, 9, 0, 0, 0, time.UTC), due)

	_, ok = ReminderUnspecified.DueAt(now)
	assert.False(t, ok)
}

func TestDirectThreadOther(t *testing.T) {
	thread := DirectMessageThread{
		ID: "dm-1",
		Users: []User{
			{ID: "me", Name: "Andrei"},
			{ID: "u2", Name: "Maria"},
		},
	}
	assert.Equal(t, "Maria", thread.Other("me").Name)
	assert.Equal(t, "Andrei", thread.Other("u2").Name)
	assert.True(t, thread.HasParticipant("u2"))
	assert.False(t, thread.HasParticipant("u3"))
}

func TestCloneMessageDetaches(t *testing.T) {
	parent := "m-0"
	src := Message{
		ID:        "m-1",
		Content:   "salut",
		ReplyTo:   &parent,
		Reactions: map[string]*Reaction{"👍": {Emoji: "👍", Count: 1, Users: []string{"u1"}}},
		Mentions:  []string{"Ana"},
	}
	out := CloneMessage(src)
	out.Reactions["👍"].Count = 5
	out.Mentions[0] = "Bob"
	*out.ReplyTo = "m-9"

	assert.Equal(t, 1, src.Reactions["👍"].Count)
	assert.Equal(t, "Ana", src.Mentions[0])
	assert.Equal(t, "m-0", parent)
}

func TestCloneMessageKeepsTimes(t *testing.T) {
	now := time.Now()
	edited := now.Add(time.Minute)
	src := Message{
		ID:              "m-1",
		Timestamp:       now,
		EditedAt:        &edited,
		ReplyToSnapshot: &ReplySnapshot{SenderName: "Maria", Content: "salut"},
	}
	out := CloneMessage(src)

	assert.Equal(t, now, out.Timestamp)
	assert.Same(t, time.Local, out.Timestamp.Location())
	assert.Equal(t, edited, *out.EditedAt)
	assert.NotSame(t, src.EditedAt, out.EditedAt)

	out.ReplyToSnapshot.Content = "changed"
	assert.Equal(t, "salut", src.ReplyToSnapshot.Content)

	empty := CloneMessage(Message{ID: "m-2"})
	assert.Nil(t, empty.Reactions)
	assert.Nil(t, empty.Mentions)
}
