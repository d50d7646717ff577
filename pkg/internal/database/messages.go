package database

import (
	"context"
	"fmt"
	"time"

	"git.solsynth.dev/hypernet/colloquy/pkg/internal/models"
	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MessageRecord is the stored shape of a message. HasReplies is not stored,
// it is derived by the message store after loading.
type MessageRecord struct {
	ID             string    `gorm:"primaryKey;size:64"`
	ConversationID string    `gorm:"index;size:64"`
	Content        string    `gorm:"type:text"`
	SenderID       string    `gorm:"size:64"`
	SenderName     string
	SenderAvatar   string
	Timestamp      time.Time `gorm:"index"`
	IsRead         bool      `gorm:"default:true"`
	Edited         bool
	EditedAt       *time.Time

	Attachments     datatypes.JSONSlice[models.Attachment]
	Reactions       datatypes.JSONType[map[string]*models.Reaction]
	ReplyTo         *string `gorm:"size:64"`
	ReplyToSnapshot datatypes.JSONType[*models.ReplySnapshot]
	Mentions        datatypes.JSONSlice[string]
	DocumentRefs    datatypes.JSONSlice[string]
	IsTaskCandidate bool
	TaskCreated     bool
}

func (v MessageRecord) ToModel() models.Message {
	reactions := v.Reactions.Data()
	if reactions == nil {
		reactions = make(map[string]*models.Reaction)
	}
	return models.Message{
		ID:             v.ID,
		ConversationID: v.ConversationID,
		Content:        v.Content,
		Sender: models.Sender{
			ID:     v.SenderID,
			Name:   v.SenderName,
			Avatar: v.SenderAvatar,
		},
		Timestamp:       v.Timestamp,
		IsRead:          v.IsRead,
		Edited:          v.Edited,
		EditedAt:        v.EditedAt,
		Attachments:     lo.Ternary(v.Attachments == nil, []models.Attachment{}, []models.Attachment(v.Attachments)),
		Reactions:       reactions,
		ReplyTo:         v.ReplyTo,
		ReplyToSnapshot: v.ReplyToSnapshot.Data(),
		Mentions:        lo.Ternary(v.Mentions == nil, []string{}, []string(v.Mentions)),
		DocumentRefs:    lo.Ternary(v.DocumentRefs == nil, []string{}, []string(v.DocumentRefs)),
		IsTaskCandidate: v.IsTaskCandidate,
		TaskCreated:     v.TaskCreated,
	}
}

func NewMessageRecord(message models.Message) MessageRecord {
	return MessageRecord{
		ID:              message.ID,
		ConversationID:  message.ConversationID,
		Content:         message.Content,
		SenderID:        message.Sender.ID,
		SenderName:      message.Sender.Name,
		SenderAvatar:    message.Sender.Avatar,
		Timestamp:       message.Timestamp,
		IsRead:          message.IsRead,
		Edited:          message.Edited,
		EditedAt:        message.EditedAt,
		Attachments:     message.Attachments,
		Reactions:       datatypes.NewJSONType(message.Reactions),
		ReplyTo:         message.ReplyTo,
		ReplyToSnapshot: datatypes.NewJSONType(message.ReplyToSnapshot),
		Mentions:        message.Mentions,
		DocumentRefs:    message.DocumentRefs,
		IsTaskCandidate: message.IsTaskCandidate,
		TaskCreated:     message.TaskCreated,
	}
}

// Source reads conversations from the database. It never writes.
type Source struct {
	db   *gorm.DB
	take int
}

func NewMessageSource(db *gorm.DB, take int) *Source {
	if take <= 0 {
		take = 500
	}
	return &Source{db: db, take: take}
}

// ListMessages returns the latest messages of a conversation, oldest first.
func (v *Source) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	var records []MessageRecord
	if err := v.db.WithContext(ctx).
		Where(&MessageRecord{ConversationID: conversationID}).
		Order("timestamp DESC").
		Limit(v.take).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("unable to list messages: %v", err)
	}

	out := make([]models.Message, len(records))
	for idx, record := range records {
		out[len(records)-1-idx] = record.ToModel()
	}
	return out, nil
}
