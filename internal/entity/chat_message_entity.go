package entity

import (
	"time"

	"github.com/google/uuid"

	"rtl-support-chatbot-be/pkg/kb"
)

type ChatMessage struct {
	Id            uuid.UUID
	Chat          string
	Role          string
	ChatSessionId uuid.UUID
	Sources       []kb.SourceMetadata
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}
