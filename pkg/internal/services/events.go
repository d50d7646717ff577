package services

import (
	"git.solsynth.dev/hypernet/colloquy/pkg/internal/models"
)

func newMessageEvent(kind string, message models.Message, payload any) models.Event {
	return models.Event{
		Type:           kind,
		ConversationID: message.ConversationID,
		MessageID:      message.ID,
		Payload:        payload,
	}
}

func snapshotOf(message models.Message) models.ReplySnapshot {
	return models.ReplySnapshot{
		SenderName: message.Sender.Name,
		Content:    message.Content,
	}
}
