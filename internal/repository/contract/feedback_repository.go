package contract

import (
	"context"

	"rtl-support-chatbot-be/internal/entity"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entity.Feedback) error
}
