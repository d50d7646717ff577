package services

import (
	"fmt"
	"strings"

	"git.solsynth.dev/hypernet/colloquy/pkg/internal/models"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// Upload is a binary blob handed over by the composer.
type Upload struct {
	Name string
	Data []byte
}

// NewAttachment describes an upload. The MIME type is sniffed from the content.
func NewAttachment(upload Upload, index int) models.Attachment {
	id := uuid.NewString()
	name := strings.TrimSpace(upload.Name)
	if len(name) == 0 {
		name = fmt.Sprintf("attachment-%d", index+1)
	}
	return models.Attachment{
		ID:        id,
		Name:      name,
		MimeType:  mimetype.Detect(upload.Data).String(),
		SizeBytes: int64(len(upload.Data)),
		URL:       fmt.Sprintf("%s/attachments/%s", strings.TrimRight(viper.GetString("links.base_url"), "/"), id),
	}
}
