package rag

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"rtl-support-chatbot-be/pkg/awsclient"
	"rtl-support-chatbot-be/pkg/bedrock"
	"rtl-support-chatbot-be/pkg/kb"
	"rtl-support-chatbot-be/pkg/rag/memory"
	"rtl-support-chatbot-be/pkg/rag/prompt"
	"rtl-support-chatbot-be/pkg/rag/response"
)

// Config holds everything the orchestrator needs at construction time.
type Config struct {
	KnowledgeBaseID  string
	ModelID          string
	RetrievalResults int
	SearchType       string
	TemplatesDir     string

	Temperature float64
	MaxTokens   int
	TopK        int

	// EnableQueryRewrite turns on standalone-question rewriting for
	// follow-ups. Off by default: rewriting degraded answer quality in
	// practice, so the original query is used as-is.
	EnableQueryRewrite bool
}

// Service is the RAG orchestrator. Constructed once at process start
// and shared by all requests: the adapters and prompt bundle are
// read-only after construction, conversation memory is request-scoped,
// so ProcessQuery is safe to call concurrently.
type Service struct {
	model     ModelInvoker
	retriever PassageRetriever
	bundle    *prompt.Bundle
	cfg       Config
	isMock    bool
	logger    *log.Logger
}

// NewService wires pre-built adapters. A nil model or retriever flips
// the service into mock mode; construction itself never fails.
func NewService(model ModelInvoker, retriever PassageRetriever, cfg Config, logger *log.Logger) *Service {
	s := &Service{
		model:     model,
		retriever: retriever,
		bundle:    prompt.NewBundle(prompt.LoadTemplates(cfg.TemplatesDir, logger)),
		cfg:       cfg,
		logger:    logger,
	}
	if cfg.KnowledgeBaseID == "" {
		logger.Printf("[RAG] No knowledge base ID configured - using mock implementation")
		s.isMock = true
		return s
	}
	if model == nil || retriever == nil {
		logger.Printf("[RAG] Missing model or retriever dependency - using mock implementation")
		s.isMock = true
	}
	return s
}

// NewFromAWS performs full construction: AWS session, Bedrock runtime
// and agent-runtime clients, prompt bundle. Any initialization failure
// (missing KB id, credentials, region, network) degrades to mock mode
// instead of propagating, so the chat surface stays available.
func NewFromAWS(ctx context.Context, cfg Config, awsOpts awsclient.Options, logger *log.Logger) *Service {
	if cfg.KnowledgeBaseID == "" {
		return NewService(nil, nil, cfg, logger)
	}

	aws, err := awsclient.New(ctx, awsOpts)
	if err != nil {
		logger.Printf("[RAG] AWS configuration error: %v - falling back to mock implementation", err)
		return NewService(nil, nil, cfg, logger)
	}

	model := bedrock.NewService(
		bedrockruntime.NewFromConfig(aws.Config()),
		cfg.ModelID,
		bedrock.Params{Temperature: cfg.Temperature, MaxTokens: cfg.MaxTokens, TopK: cfg.TopK},
		logger,
	)
	retriever := kb.NewRetriever(
		bedrockagentruntime.NewFromConfig(aws.Config()),
		cfg.KnowledgeBaseID,
		logger,
	)

	logger.Printf("[RAG] Initialized with model %s and knowledge base %s", cfg.ModelID, cfg.KnowledgeBaseID)
	return NewService(model, retriever, cfg, logger)
}

// IsMock reports whether the service runs degraded without a knowledge
// backend. Fixed at construction time.
func (s *Service) IsMock() bool {
	return s.isMock
}

// ProcessQuery runs one query end to end: conversation memory,
// retrieval, prompt assembly, model invocation, citation enhancement.
// On primary-path failure it attempts a single context-free model call;
// only a double failure surfaces as ProcessingFailedError.
func (s *Service) ProcessQuery(ctx context.Context, query string, history History) (*Response, error) {
	query = strings.TrimSpace(query)
	s.logger.Printf("[RAG] Processing query: %q", query)
	start := time.Now()

	if s.isMock {
		resp := s.mockResponse(query)
		s.logger.Printf("[RAG] Mock response generated in %.2fs", time.Since(start).Seconds())
		return resp, nil
	}

	mem := history.toMemory(s.logger)

	resp, primaryErr := s.attemptPrimary(ctx, query, mem)
	if primaryErr == nil {
		s.logger.Printf("[RAG] Query processed in %.2fs with %d docs",
			time.Since(start).Seconds(), len(resp.DocumentContents))
		return resp, nil
	}
	s.logger.Printf("[RAG] Error in RAG processing: %v", primaryErr)

	// Second attempt: answer without retrieval context, clearly labeled.
	answer, fallbackErr := s.model.Invoke(ctx, fallbackPrompt(query))
	if fallbackErr != nil {
		s.logger.Printf("[RAG] Fallback response also failed: %v", fallbackErr)
		return nil, &ProcessingFailedError{Err: primaryErr}
	}

	return &Response{
		Message:          answer + "\n\n(Note: This response was generated without access to the knowledge base.)",
		Sources:          []kb.SourceMetadata{},
		DocumentContents: []DocumentContent{},
	}, nil
}

// attemptPrimary is the happy path: retrieve, assemble, invoke, enhance.
// Everything per-request lives on the stack; nothing is shared.
func (s *Service) attemptPrimary(ctx context.Context, query string, mem *memory.Memory) (*Response, error) {
	standalone := s.standaloneQuestion(ctx, query, mem)

	passages, err := s.retriever.Retrieve(ctx, standalone, s.cfg.RetrievalResults, s.cfg.SearchType)
	if err != nil {
		return nil, err
	}

	promptText := s.bundle.RenderQA(joinPassages(passages), mem.Format(), standalone)

	answer, err := s.model.Invoke(ctx, promptText)
	if err != nil {
		return nil, err
	}

	sources := make([]kb.SourceMetadata, len(passages))
	docs := make([]DocumentContent, len(passages))
	for i, p := range passages {
		sources[i] = p.Metadata
		docs[i] = DocumentContent{Content: p.Content, Metadata: p.Metadata}
	}

	return &Response{
		Message:          response.Enhance(answer, sources),
		Sources:          sources,
		DocumentContents: docs,
	}, nil
}

// standaloneQuestion returns the query to retrieve against. With
// rewriting disabled (the default) this is the original query. When
// enabled and history exists, the condense prompt asks the model for a
// self-contained rephrasing; any failure falls back to the original.
func (s *Service) standaloneQuestion(ctx context.Context, query string, mem *memory.Memory) string {
	if !s.cfg.EnableQueryRewrite || mem.Len() == 0 {
		return query
	}

	rewritten, err := s.model.Invoke(ctx, s.bundle.RenderCondense(mem.Format(), query))
	if err != nil {
		s.logger.Printf("[RAG] Query rewriting failed: %v", err)
		return query
	}
	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return query
	}
	if rewritten != query {
		s.logger.Printf("[RAG] Rewrote query %q -> %q", query, rewritten)
	}
	return rewritten
}

func joinPassages(passages []kb.RetrievedPassage) string {
	parts := make([]string, len(passages))
	for i, p := range passages {
		parts[i] = p.Content
	}
	return strings.Join(parts, "\n\n")
}

func fallbackPrompt(query string) string {
	return fmt.Sprintf(`I'm an AI assistant for educational technology.
I'm having trouble accessing my knowledge base right now, but I'll try to help with: %s`, query)
}
