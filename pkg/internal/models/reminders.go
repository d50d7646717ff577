package models

import "time"

type ReminderOffset string

const (
	Reminder30Minutes   = ReminderOffset("30m")
	Reminder1Hour       = ReminderOffset("1h")
	Reminder3Hours      = ReminderOffset("3h")
	ReminderTomorrow    = ReminderOffset("tomorrow")
	ReminderNextWeek    = ReminderOffset("nextweek")
	ReminderUnspecified = ReminderOffset("")
)

var reminderLabels = map[ReminderOffset]string{
	Reminder30Minutes: "în 30 de minute",
	Reminder1Hour:     "într-o oră",
	Reminder3Hours:    "în 3 ore",
	ReminderTomorrow:  "mâine",
	ReminderNextWeek:  "săptămâna viitoare",
}

const reminderUnspecifiedLabel = "timp nespecificat"

// ParseReminderOffset never fails, unknown codes become ReminderUnspecified.
func ParseReminderOffset(code string) ReminderOffset {
	offset := ReminderOffset(code)
	if _, ok := reminderLabels[offset]; ok {
		return offset
	}
	return ReminderUnspecified
}

func (v ReminderOffset) Label() string {
	if label, ok := reminderLabels[v]; ok {
		return label
	}
	return reminderUnspecifiedLabel
}

// DueAt resolves the offset against now. Day based offsets land on 09:00
// in the location of now. The second value is false for unspecified offsets.
func (v ReminderOffset) DueAt(now time.Time) (time.Time, bool) {
	switch v {
	case Reminder30Minutes:
		return now.Add(30 * time.Minute), true
	case Reminder1Hour:
		return now.Add(time.Hour), true
	case Reminder3Hours:
		return now.Add(3 * time.Hour), true
	case ReminderTomorrow:
		return morningOf(now.AddDate(0, 0, 1)), true
	case ReminderNextWeek:
		days := (int(time.Monday) - int(now.Weekday()) + 7) % 7
		if days == 0 {
			days = 7
		}
		return morningOf(now.AddDate(0, 0, days)), true
	default:
		return time.Time{}, false
	}
}

func morningOf(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, day.Location())
}

type Reminder struct {
	ID             string         `json:"id"`
	MessageID      string         `json:"message_id"`
	ConversationID string         `json:"conversation_id"`
	Offset         ReminderOffset `json:"offset"`
	DueAt          *time.Time     `json:"due_at,omitempty"`
	Snapshot       ReplySnapshot  `json:"snapshot"`
}
