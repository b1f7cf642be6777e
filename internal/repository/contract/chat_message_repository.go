package contract

import (
	"context"

	"github.com/google/uuid"

	"rtl-support-chatbot-be/internal/entity"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindOne(ctx context.Context, id uuid.UUID) (*entity.ChatMessage, error)
	// FindAllBySession returns messages in chronological order.
	FindAllBySession(ctx context.Context, sessionId uuid.UUID) ([]*entity.ChatMessage, error)
	DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error
}
