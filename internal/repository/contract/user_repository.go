package contract

import (
	"context"

	"github.com/google/uuid"

	"rtl-support-chatbot-be/internal/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	// FindByEmail returns nil, nil when no user matches.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindOne(ctx context.Context, id uuid.UUID) (*entity.User, error)
}
