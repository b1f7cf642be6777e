package bootstrap

import (
	"context"
	"log"
	"os"

	"gorm.io/gorm"

	"rtl-support-chatbot-be/internal/config"
	"rtl-support-chatbot-be/internal/controller"
	"rtl-support-chatbot-be/internal/pkg/logger"
	"rtl-support-chatbot-be/internal/repository/implementation"
	"rtl-support-chatbot-be/internal/repository/memory"
	"rtl-support-chatbot-be/internal/service"
	"rtl-support-chatbot-be/pkg/awsclient"
	"rtl-support-chatbot-be/pkg/rag"
	"rtl-support-chatbot-be/pkg/rag/tracing"
)

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	ChatbotController controller.IChatbotController

	// Exposed for the health endpoint
	ChatbotService service.IChatbotService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. RAG Orchestrator
	// Construction never fails: missing knowledge base or AWS problems
	// degrade the service into mock mode.
	ragLogger := initRagLogger()
	ragService := rag.NewFromAWS(context.Background(), rag.Config{
		KnowledgeBaseID:    cfg.Rag.KnowledgeBaseID,
		ModelID:            cfg.Rag.ModelID,
		RetrievalResults:   cfg.Rag.RetrievalResults,
		SearchType:         cfg.Rag.SearchType,
		TemplatesDir:       cfg.Rag.TemplatesDir,
		Temperature:        cfg.Rag.Temperature,
		MaxTokens:          cfg.Rag.MaxTokens,
		TopK:               cfg.Rag.TopK,
		EnableQueryRewrite: cfg.Rag.QueryRewrite,
	}, awsclient.Options{
		Region:  cfg.Aws.Region,
		RoleARN: cfg.Aws.RoleARN,
	}, ragLogger)
	if ragService.IsMock() {
		sysLogger.Warn("bootstrap", "RAG service running in mock mode", nil)
	}
	processor := tracing.NewTracedProcessor(ragService, ragLogger)

	// 3. Services
	historyCache := memory.NewHistoryCache()
	chatbotService := service.NewChatbotService(db, processor, ragService.IsMock(), historyCache, sysLogger)
	authService := service.NewAuthService(implementation.NewUserRepository(db), cfg.Auth)

	// 4. Controllers
	return &Container{
		AuthController:    controller.NewAuthController(authService),
		ChatbotController: controller.NewChatbotController(chatbotService),
		ChatbotService:    chatbotService,
		Logger:            sysLogger,
	}
}

func initRagLogger() *log.Logger {
	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile("logs/rag.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[RAG] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}
