package response

import (
	"strings"

	"rtl-support-chatbot-be/pkg/kb"
)

// maxReferences caps the injected References: line.
const maxReferences = 3

// Enhance post-processes a raw model answer: it appends a References
// line when the model used passages without citing them, and normalizes
// numbered-list formatting. Pure function, idempotent: enhancing an
// already-enhanced answer changes nothing.
func Enhance(answer string, metas []kb.SourceMetadata) string {
	candidates := referenceTokens(metas)

	cited := false
	for _, ref := range candidates {
		if strings.Contains(answer, ref) {
			cited = true
			break
		}
	}

	if len(candidates) > 0 && !cited {
		if len(candidates) > maxReferences {
			candidates = candidates[:maxReferences]
		}
		answer += "\n\nReferences: " + strings.Join(candidates, ", ")
	}

	// Numbered lists read poorly when the model inlines "1." mid-sentence.
	if strings.Contains(answer, "1.") && !strings.Contains(answer, "\n1.") {
		answer = strings.ReplaceAll(answer, "1.", "\n1.")
	}

	return answer
}

// referenceTokens builds KB-<number> tokens for every passage with a
// usable kb_number, deduplicated in first-seen order.
func referenceTokens(metas []kb.SourceMetadata) []string {
	seen := make(map[string]struct{}, len(metas))
	tokens := make([]string, 0, len(metas))
	for _, meta := range metas {
		if meta.KBNumber == "" || meta.KBNumber == "N/A" {
			continue
		}
		token := "KB-" + meta.KBNumber
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}
	return tokens
}
