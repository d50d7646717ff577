package services

import "errors"

var (
	ErrValidation           = errors.New("validation failed")
	ErrUnauthorized         = errors.New("admin capability required")
	ErrChannelNotFound      = errors.New("channel not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrLoadSuperseded       = errors.New("conversation load superseded")
)
