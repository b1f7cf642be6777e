package rag

import (
	"context"
	"fmt"
	"log"

	"rtl-support-chatbot-be/pkg/bedrock"
	"rtl-support-chatbot-be/pkg/kb"
	"rtl-support-chatbot-be/pkg/rag/memory"
)

// Response is the result of one processed query. Ownership transfers
// to the caller; the HTTP layer serializes it as-is.
type Response struct {
	Message          string              `json:"message"`
	Sources          []kb.SourceMetadata `json:"sources"`
	DocumentContents []DocumentContent   `json:"document_contents"`
}

// DocumentContent pairs a retrieved passage with its canonical metadata.
type DocumentContent struct {
	Content  string            `json:"content"`
	Metadata kb.SourceMetadata `json:"metadata"`
}

// History carries caller-supplied conversation history in either
// accepted shape: flat alternating strings (legacy) or role-tagged
// entries.
type History struct {
	flat    []string
	entries []memory.Entry
	isFlat  bool
}

func HistoryFromStrings(flat []string) History {
	return History{flat: flat, isFlat: true}
}

func HistoryFromEntries(entries []memory.Entry) History {
	return History{entries: entries}
}

func (h History) toMemory(logger *log.Logger) *memory.Memory {
	if h.isFlat {
		return memory.FromStrings(h.flat)
	}
	return memory.FromEntries(h.entries, logger)
}

// QueryProcessor is the inbound contract of the orchestration core.
// The tracing middleware and the chat service both depend on it.
type QueryProcessor interface {
	ProcessQuery(ctx context.Context, query string, history History) (*Response, error)
}

// ModelInvoker is the outbound contract to the model invocation
// adapter. Implementations must be safe for concurrent invocation.
type ModelInvoker interface {
	Invoke(ctx context.Context, prompt string, opts ...bedrock.Option) (string, error)
}

// PassageRetriever is the outbound contract to the knowledge-base
// retriever adapter. Implementations must be safe for concurrent use.
type PassageRetriever interface {
	Retrieve(ctx context.Context, query string, k int, mode string) ([]kb.RetrievedPassage, error)
}

// ProcessingFailedError is terminal: both the primary RAG path and the
// direct-model fallback failed. It carries the primary failure.
type ProcessingFailedError struct{ Err error }

func (e *ProcessingFailedError) Error() string {
	return fmt.Sprintf("unexpected error in RAG service: %v", e.Err)
}
func (e *ProcessingFailedError) Unwrap() error { return e.Err }
