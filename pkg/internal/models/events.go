package models

const (
	EventMessageNew         = "messages.new"
	EventMessageEdit        = "messages.edit"
	EventMessageDelete      = "messages.delete"
	EventMessageReact       = "messages.react"
	EventMessageForward     = "messages.forward"
	EventMessageRemind      = "messages.remind"
	EventTaskCandidate      = "tasks.candidate"
	EventConversationLoaded = "conversations.loaded"
)

type Event struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id,omitempty"`
	Payload        any    `json:"payload,omitempty"`
}

// Event Payloads

type EventForwardBody struct {
	TargetConversationID string        `json:"target_conversation_id"`
	Original             ReplySnapshot `json:"original"`
	Attachments          []Attachment  `json:"attachments,omitempty"`
}

type EventRemindBody struct {
	Offset   ReminderOffset `json:"offset"`
	Label    string         `json:"label"`
	Original ReplySnapshot  `json:"original"`
}
