package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rtl-support-chatbot-be/internal/constant"
	"rtl-support-chatbot-be/internal/dto"
	"rtl-support-chatbot-be/internal/pkg/logger"
	"rtl-support-chatbot-be/internal/repository/memory"
	"rtl-support-chatbot-be/pkg/kb"
	"rtl-support-chatbot-be/pkg/rag"
	ragmemory "rtl-support-chatbot-be/pkg/rag/memory"
)

type stubProcessor struct {
	lastQuery string
	resp      *rag.Response
	err       error
}

func (s *stubProcessor) ProcessQuery(ctx context.Context, query string, history rag.History) (*rag.Response, error) {
	s.lastQuery = query
	return s.resp, s.err
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

var _ logger.ILogger = noopLogger{}

func TestChatStateless(t *testing.T) {
	processor := &stubProcessor{resp: &rag.Response{
		Message: "answer",
		Sources: []kb.SourceMetadata{{KBNumber: "KB-1"}},
	}}
	svc := NewChatbotService(nil, processor, true, memory.NewHistoryCache(), noopLogger{})

	res, err := svc.Chat(context.Background(), &dto.ChatRequest{
		Query: "how do I log in?",
		History: []dto.ChatHistoryEntryDTO{
			{Role: "user", Content: "hi"},
			{Role: "ai", Content: "hello"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "how do I log in?", processor.lastQuery)
	assert.Equal(t, "answer", res.Answer)
	assert.Len(t, res.Sources, 1)
	assert.True(t, res.IsMock, "mock flag not propagated")
}

func TestAppendTurnsDoesNotShareBackingArray(t *testing.T) {
	shared := make([]ragmemory.Entry, 1, 4)
	shared[0] = ragmemory.Entry{Role: ragmemory.RoleHuman, Content: "first"}

	a := appendTurns(shared, "question a", "answer a")
	b := appendTurns(shared, "question b", "answer b")

	assert.Equal(t, "question a", a[1].Content, "second append must not overwrite the first")
	assert.Equal(t, "question b", b[1].Content)
	assert.Len(t, shared, 1, "input history must stay untouched")
}

func TestSessionTitleFrom(t *testing.T) {
	tests := []struct {
		name string
		chat string
		want string
	}{
		{"plain", "How do I log in?", "How do I log in?"},
		{"trimmed", "  spaced out  ", "spaced out"},
		{"empty", "   ", constant.ChatSessionDefaultTitle},
		{
			"truncated",
			"This is a very long first message that keeps going well past the title limit",
			"This is a very long first message that keeps going well past...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sessionTitleFrom(tt.chat))
		})
	}
}
