package dto

import (
	"time"

	"github.com/google/uuid"

	"rtl-support-chatbot-be/pkg/kb"
	"rtl-support-chatbot-be/pkg/rag"
)

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type GetAllSessionsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type GetChatHistoryResponse struct {
	Id        uuid.UUID           `json:"id"`
	Role      string              `json:"role"`
	Chat      string              `json:"chat"`
	Sources   []kb.SourceMetadata `json:"sources,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

type SendChatRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
	Chat          string    `json:"chat" validate:"required"`
}

type SendChatResponseChat struct {
	Id        uuid.UUID           `json:"id"`
	Chat      string              `json:"chat"`
	Role      string              `json:"role"`
	Sources   []kb.SourceMetadata `json:"sources,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

type SendChatResponse struct {
	ChatSessionId    uuid.UUID             `json:"chat_session_id"`
	ChatSessionTitle string                `json:"title"`
	Sent             *SendChatResponseChat `json:"sent"`
	Reply            *SendChatResponseChat `json:"reply"`
	IsMock           bool                  `json:"is_mock,omitempty"`
}

type DeleteSessionRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
}

// Stateless chat: the caller supplies its own history instead of a
// persisted session.

type ChatHistoryEntryDTO struct {
	Role    string `json:"role" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type ChatRequest struct {
	Query   string                `json:"query" validate:"required"`
	History []ChatHistoryEntryDTO `json:"history,omitempty"`
}

type ChatResponse struct {
	Answer           string                `json:"answer"`
	Sources          []kb.SourceMetadata   `json:"sources"`
	DocumentContents []rag.DocumentContent `json:"document_contents"`
	IsMock           bool                  `json:"is_mock,omitempty"`
}

type FeedbackRequest struct {
	ChatMessageId uuid.UUID `json:"chat_message_id" validate:"required"`
	Rating        string    `json:"rating" validate:"required,oneof=helpful not_helpful"`
	Comment       string    `json:"comment,omitempty" validate:"max=2000"`
}

type FeedbackResponse struct {
	Id uuid.UUID `json:"id"`
}
