package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rtl-support-chatbot-be/internal/constant"
	"rtl-support-chatbot-be/internal/dto"
	"rtl-support-chatbot-be/internal/entity"
	"rtl-support-chatbot-be/internal/pkg/logger"
	"rtl-support-chatbot-be/internal/repository/contract"
	"rtl-support-chatbot-be/internal/repository/implementation"
	"rtl-support-chatbot-be/internal/repository/memory"
	"rtl-support-chatbot-be/pkg/rag"
	ragmemory "rtl-support-chatbot-be/pkg/rag/memory"
)

// IChatbotService defines the chatbot service interface
type IChatbotService interface {
	CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error
	SubmitFeedback(ctx context.Context, userId uuid.UUID, request *dto.FeedbackRequest) (*dto.FeedbackResponse, error)
	IsMock() bool
}

type chatbotService struct {
	db           *gorm.DB
	sessionRepo  contract.ChatSessionRepository
	messageRepo  contract.ChatMessageRepository
	feedbackRepo contract.FeedbackRepository
	historyCache *memory.HistoryCache
	processor    rag.QueryProcessor
	isMock       bool
	log          logger.ILogger
}

func NewChatbotService(
	db *gorm.DB,
	processor rag.QueryProcessor,
	isMock bool,
	historyCache *memory.HistoryCache,
	log logger.ILogger,
) IChatbotService {
	return &chatbotService{
		db:           db,
		sessionRepo:  implementation.NewChatSessionRepository(db),
		messageRepo:  implementation.NewChatMessageRepository(db),
		feedbackRepo: implementation.NewFeedbackRepository(db),
		historyCache: historyCache,
		processor:    processor,
		isMock:       isMock,
		log:          log,
	}
}

func (cs *chatbotService) IsMock() bool {
	return cs.isMock
}

// CreateSession creates a new chat session seeded with a greeting
func (cs *chatbotService) CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error) {
	now := time.Now()

	chatSession := entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     constant.ChatSessionDefaultTitle,
		CreatedAt: now,
	}
	greeting := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          constant.ChatSessionGreeting,
		Role:          constant.ChatMessageRoleModel,
		ChatSessionId: chatSession.Id,
		CreatedAt:     now,
	}

	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := implementation.NewChatSessionRepository(tx).Create(ctx, &chatSession); err != nil {
			return err
		}
		return implementation.NewChatMessageRepository(tx).Create(ctx, &greeting)
	})
	if err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{Id: chatSession.Id}, nil
}

// GetAllSessions retrieves all chat sessions owned by the user
func (cs *chatbotService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error) {
	chatSessions, err := cs.sessionRepo.FindAllByUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.GetAllSessionsResponse, 0, len(chatSessions))
	for _, s := range chatSessions {
		response = append(response, &dto.GetAllSessionsResponse{
			Id:        s.Id,
			Title:     s.Title,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		})
	}

	return response, nil
}

// GetChatHistory retrieves chat history for a session
func (cs *chatbotService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	sess, err := cs.sessionRepo.FindOwned(ctx, sessionId, userId)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}

	chatMessages, err := cs.messageRepo.FindAllBySession(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	resp := make([]*dto.GetChatHistoryResponse, 0, len(chatMessages))
	for _, msg := range chatMessages {
		resp = append(resp, &dto.GetChatHistoryResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Chat:      msg.Chat,
			Sources:   msg.Sources,
			CreatedAt: msg.CreatedAt,
		})
	}

	return resp, nil
}

// SendChat processes a user message within a persisted session
func (cs *chatbotService) SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	chatSession, err := cs.sessionRepo.FindOwned(ctx, request.ChatSessionId, userId)
	if err != nil {
		return nil, err
	}
	if chatSession == nil {
		return nil, ErrSessionNotFound
	}

	history, err := cs.loadHistory(ctx, request.ChatSessionId)
	if err != nil {
		cs.log.Warn("chatbot", "Failed to load history, continuing without", map[string]interface{}{
			"session_id": request.ChatSessionId.String(),
			"error":      err.Error(),
		})
		history = nil
	}

	result, err := cs.processor.ProcessQuery(ctx, request.Chat, rag.HistoryFromEntries(history))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	userMessage := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          request.Chat,
		Role:          constant.ChatMessageRoleUser,
		ChatSessionId: chatSession.Id,
		CreatedAt:     now,
	}
	modelMessage := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          result.Message,
		Role:          constant.ChatMessageRoleModel,
		ChatSessionId: chatSession.Id,
		Sources:       result.Sources,
		CreatedAt:     now.Add(1 * time.Millisecond),
	}

	// Title the session from the first user message
	updateTitle := chatSession.Title == constant.ChatSessionDefaultTitle
	newTitle := sessionTitleFrom(request.Chat)

	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		messageRepo := implementation.NewChatMessageRepository(tx)
		if err := messageRepo.Create(ctx, &userMessage); err != nil {
			return err
		}
		if err := messageRepo.Create(ctx, &modelMessage); err != nil {
			return err
		}
		if updateTitle {
			return implementation.NewChatSessionRepository(tx).UpdateTitle(ctx, chatSession.Id, newTitle)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if updateTitle {
		chatSession.Title = newTitle
	}

	cs.historyCache.Save(chatSession.Id.String(), appendTurns(history, userMessage.Chat, modelMessage.Chat))

	return &dto.SendChatResponse{
		ChatSessionId:    chatSession.Id,
		ChatSessionTitle: chatSession.Title,
		IsMock:           cs.isMock,
		Sent: &dto.SendChatResponseChat{
			Id:        userMessage.Id,
			Chat:      userMessage.Chat,
			Role:      userMessage.Role,
			CreatedAt: userMessage.CreatedAt,
		},
		Reply: &dto.SendChatResponseChat{
			Id:        modelMessage.Id,
			Chat:      modelMessage.Chat,
			Role:      modelMessage.Role,
			Sources:   modelMessage.Sources,
			CreatedAt: modelMessage.CreatedAt,
		},
	}, nil
}

// Chat answers a stateless query with caller-supplied history
func (cs *chatbotService) Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	entries := make([]ragmemory.Entry, 0, len(request.History))
	for _, h := range request.History {
		entries = append(entries, ragmemory.Entry{Role: h.Role, Content: h.Content})
	}

	result, err := cs.processor.ProcessQuery(ctx, request.Query, rag.HistoryFromEntries(entries))
	if err != nil {
		return nil, err
	}

	return &dto.ChatResponse{
		Answer:           result.Message,
		Sources:          result.Sources,
		DocumentContents: result.DocumentContents,
		IsMock:           cs.isMock,
	}, nil
}

// DeleteSession removes a chat session and its messages
func (cs *chatbotService) DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error {
	sess, err := cs.sessionRepo.FindOwned(ctx, request.ChatSessionId, userId)
	if err != nil {
		return err
	}
	if sess == nil {
		return ErrSessionNotFound
	}

	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := implementation.NewChatSessionRepository(tx).Delete(ctx, request.ChatSessionId); err != nil {
			return err
		}
		return implementation.NewChatMessageRepository(tx).DeleteByChatSessionId(ctx, request.ChatSessionId)
	})
	if err != nil {
		return err
	}

	cs.historyCache.Delete(request.ChatSessionId.String())
	return nil
}

// SubmitFeedback records a helpful / not helpful rating on a model reply
func (cs *chatbotService) SubmitFeedback(ctx context.Context, userId uuid.UUID, request *dto.FeedbackRequest) (*dto.FeedbackResponse, error) {
	msg, err := cs.messageRepo.FindOne(ctx, request.ChatMessageId)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrMessageNotFound
	}
	sess, err := cs.sessionRepo.FindOwned(ctx, msg.ChatSessionId, userId)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrMessageNotFound
	}

	feedback := entity.Feedback{
		Id:            uuid.New(),
		ChatMessageId: request.ChatMessageId,
		UserId:        userId,
		Rating:        request.Rating,
		Comment:       request.Comment,
		CreatedAt:     time.Now(),
	}
	if err := cs.feedbackRepo.Create(ctx, &feedback); err != nil {
		return nil, err
	}

	return &dto.FeedbackResponse{Id: feedback.Id}, nil
}

// loadHistory reads the session conversation, preferring the in-memory
// cache. The greeting turn is skipped so history starts with the user.
func (cs *chatbotService) loadHistory(ctx context.Context, sessionId uuid.UUID) ([]ragmemory.Entry, error) {
	if cached, found := cs.historyCache.Get(sessionId.String()); found {
		return cached, nil
	}

	messages, err := cs.messageRepo.FindAllBySession(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	entries := make([]ragmemory.Entry, 0, len(messages))
	for i, msg := range messages {
		if i == 0 && msg.Role == constant.ChatMessageRoleModel {
			continue
		}
		entries = append(entries, ragmemory.Entry{Role: msg.Role, Content: msg.Chat})
	}
	return entries, nil
}

// appendTurns copies the history into a fresh slice before adding the
// new turns. The cached slice may be shared with concurrent readers of
// the same session, so it must never be written through.
func appendTurns(history []ragmemory.Entry, userChat, modelChat string) []ragmemory.Entry {
	updated := make([]ragmemory.Entry, 0, len(history)+2)
	updated = append(updated, history...)
	return append(updated,
		ragmemory.Entry{Role: ragmemory.RoleHuman, Content: userChat},
		ragmemory.Entry{Role: ragmemory.RoleAssistant, Content: modelChat},
	)
}

func sessionTitleFrom(chat string) string {
	title := strings.TrimSpace(chat)
	if len(title) > constant.ChatSessionTitleMaxLen {
		title = strings.TrimSpace(title[:constant.ChatSessionTitleMaxLen]) + "..."
	}
	if title == "" {
		title = constant.ChatSessionDefaultTitle
	}
	return title
}
