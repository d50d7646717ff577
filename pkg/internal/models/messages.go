package models

import "time"

type Message struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversation_id"`
	Content        string     `json:"content"`
	Sender         Sender     `json:"sender"`
	Timestamp      time.Time  `json:"timestamp"`
	IsRead         bool       `json:"is_read"`
	Edited         bool       `json:"edited"`
	EditedAt       *time.Time `json:"edited_at,omitempty"`

	Attachments []Attachment         `json:"attachments"`
	Reactions   map[string]*Reaction `json:"reactions"`

	// ReplyTo is fixed once the message is sent.
	ReplyTo         *string        `json:"reply_to,omitempty"`
	ReplyToSnapshot *ReplySnapshot `json:"reply_to_snapshot,omitempty"`

	Mentions        []string `json:"mentions"`
	DocumentRefs    []string `json:"document_refs"`
	IsTaskCandidate bool     `json:"is_task_candidate"`
	TaskCreated     bool     `json:"task_created"`

	// HasReplies is derived from the loaded message set, never taken from input.
	HasReplies bool `json:"has_replies"`
}

func (v Message) IsReplyTo(id string) bool {
	return v.ReplyTo != nil && *v.ReplyTo == id
}

type Attachment struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
	URL       string `json:"url"`
}

type Reaction struct {
	Emoji string   `json:"emoji"`
	Count int      `json:"count"`
	Users []string `json:"users"`
}

// ReplySnapshot is a copy of the parent taken at reply time.
// Later edits or deletion of the parent never reach it.
type ReplySnapshot struct {
	SenderName string `json:"sender_name"`
	Content    string `json:"content"`
}
