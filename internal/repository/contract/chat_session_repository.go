package contract

import (
	"context"

	"github.com/google/uuid"

	"rtl-support-chatbot-be/internal/entity"
)

type ChatSessionRepository interface {
	Create(ctx context.Context, session *entity.ChatSession) error
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) error
	Delete(ctx context.Context, id uuid.UUID) error
	// FindOwned returns nil, nil when the session does not exist or
	// belongs to another user.
	FindOwned(ctx context.Context, id, userId uuid.UUID) (*entity.ChatSession, error)
	FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.ChatSession, error)
}
