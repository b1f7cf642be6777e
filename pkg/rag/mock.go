package rag

import (
	"fmt"
	"strings"

	"rtl-support-chatbot-be/pkg/kb"
	"rtl-support-chatbot-be/pkg/rag/prompt"
)

const mockNotice = "This is a mock response based on a similar question:\n\n"

// mockResponse produces a synthetic but well-formed response without
// any network call. It prefers the few-shot exemplar sharing the most
// words with the query; with no overlap it falls back to a generic
// placeholder. It never fails.
func (s *Service) mockResponse(query string) *Response {
	var message string
	if best, score := matchExemplar(query, s.bundle.Exemplars()); best != nil && score > 0 {
		message = mockNotice + strings.Join(best.Output, "\n")
	} else {
		message = fmt.Sprintf("Mock response to: %s\n\n"+
			"This is a placeholder response since the RAG service is running in mock mode. "+
			"Please configure AWS Bedrock for full functionality.", query)
	}

	// Synthetic source so downstream consumers exercise the same
	// response shape as live mode.
	meta := kb.SourceMetadata{
		Source:           "mock-document",
		KBURL:            "https://example.com/kb/123",
		KBNumber:         "KB-123",
		KBCategory:       "Educational Technology",
		ShortDescription: "Mock KB article for development",
		Project:          "Chatbot",
		IngestionDate:    "2023-07-01",
	}

	return &Response{
		Message: message,
		Sources: []kb.SourceMetadata{meta},
		DocumentContents: []DocumentContent{
			{Content: "This is mock content for testing purposes.", Metadata: meta},
		},
	}
}

// matchExemplar scores each exemplar by the number of distinct words it
// shares with the lowercased query. Ties keep the first-seen exemplar;
// zero overlap means no match.
func matchExemplar(query string, exemplars []prompt.Exemplar) (*prompt.Exemplar, int) {
	queryWords := wordSet(query)

	var best *prompt.Exemplar
	bestScore := 0
	for i := range exemplars {
		overlap := 0
		for word := range wordSet(exemplars[i].Input) {
			if _, ok := queryWords[word]; ok {
				overlap++
			}
		}
		if overlap > bestScore {
			bestScore = overlap
			best = &exemplars[i]
		}
	}
	return best, bestScore
}

func wordSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
