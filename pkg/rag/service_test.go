package rag

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rtl-support-chatbot-be/pkg/bedrock"
	"rtl-support-chatbot-be/pkg/kb"
	"rtl-support-chatbot-be/pkg/rag/prompt"
)

type fakeModel struct {
	prompts []string
	answers []string
	errs    []error
	calls   int
}

func (f *fakeModel) Invoke(ctx context.Context, p string, opts ...bedrock.Option) (string, error) {
	f.prompts = append(f.prompts, p)
	i := f.calls
	f.calls++
	var answer string
	if i < len(f.answers) {
		answer = f.answers[i]
	}
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return answer, err
}

type fakeRetriever struct {
	passages []kb.RetrievedPassage
	err      error
	calls    int
	lastK    int
	lastMode string
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query string, k int, mode string) ([]kb.RetrievedPassage, error) {
	f.calls++
	f.lastK = k
	f.lastMode = mode
	return f.passages, f.err
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testConfig() Config {
	return Config{
		KnowledgeBaseID:  "KB123",
		ModelID:          "anthropic.claude-instant-v1",
		RetrievalResults: 3,
		SearchType:       "HYBRID",
		TemplatesDir:     "does-not-exist",
		Temperature:      0.1,
		MaxTokens:        500,
	}
}

func passage(content, kbNumber string) kb.RetrievedPassage {
	return kb.RetrievedPassage{
		Content:  content,
		Metadata: kb.SourceMetadata{KBNumber: kbNumber, Source: "doc"},
	}
}

func TestProcessQueryHappyPath(t *testing.T) {
	model := &fakeModel{answers: []string{"Use the reset link."}}
	retriever := &fakeRetriever{passages: []kb.RetrievedPassage{
		passage("passage one", "101"),
		passage("passage two", "214"),
	}}
	svc := NewService(model, retriever, testConfig(), testLogger())

	if svc.IsMock() {
		t.Fatal("service should not be mock with full dependencies")
	}

	resp, err := svc.ProcessQuery(context.Background(), "  how do I reset?  ", HistoryFromStrings(nil))
	if err != nil {
		t.Fatal(err)
	}

	if retriever.calls != 1 || retriever.lastK != 3 || retriever.lastMode != "HYBRID" {
		t.Errorf("retriever called with k=%d mode=%q calls=%d", retriever.lastK, retriever.lastMode, retriever.calls)
	}
	if len(resp.Sources) != 2 || len(resp.DocumentContents) != 2 {
		t.Fatalf("sources/docs = %d/%d", len(resp.Sources), len(resp.DocumentContents))
	}
	if !strings.Contains(resp.Message, "References: KB-101, KB-214") {
		t.Errorf("citation enhancement missing: %q", resp.Message)
	}
	// The rendered prompt carries the passages and the trimmed query.
	if !strings.Contains(model.prompts[0], "passage one\n\npassage two") {
		t.Errorf("prompt missing joined passages: %q", model.prompts[0])
	}
	if !strings.Contains(model.prompts[0], "how do I reset?") {
		t.Errorf("prompt missing trimmed query: %q", model.prompts[0])
	}
}

func TestProcessQueryFallbackOnRetrievalFailure(t *testing.T) {
	model := &fakeModel{answers: []string{"General advice."}}
	retriever := &fakeRetriever{err: &kb.RetrievalError{Err: errors.New("kb down")}}
	svc := NewService(model, retriever, testConfig(), testLogger())

	resp, err := svc.ProcessQuery(context.Background(), "help", HistoryFromStrings(nil))
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(resp.Message, "General advice.") {
		t.Errorf("fallback answer missing: %q", resp.Message)
	}
	if !strings.Contains(resp.Message, "without access to the knowledge base") {
		t.Errorf("fallback annotation missing: %q", resp.Message)
	}
	if len(resp.Sources) != 0 || len(resp.DocumentContents) != 0 {
		t.Errorf("fallback response must carry no sources: %+v", resp)
	}
	if !strings.Contains(model.prompts[0], "help") {
		t.Errorf("fallback prompt missing query: %q", model.prompts[0])
	}
}

func TestProcessQueryDoubleFailure(t *testing.T) {
	primaryErr := errors.New("kb down")
	model := &fakeModel{errs: []error{errors.New("model down")}}
	retriever := &fakeRetriever{err: primaryErr}
	svc := NewService(model, retriever, testConfig(), testLogger())

	_, err := svc.ProcessQuery(context.Background(), "help", HistoryFromStrings(nil))

	var procErr *ProcessingFailedError
	if !errors.As(err, &procErr) {
		t.Fatalf("error = %T, want *ProcessingFailedError", err)
	}
	if !errors.Is(err, primaryErr) {
		t.Error("terminal error should carry the primary failure")
	}
}

func TestProcessQueryModelFailureFallsBack(t *testing.T) {
	// First invocation (QA) fails, second (fallback) succeeds.
	model := &fakeModel{
		answers: []string{"", "Plan B."},
		errs:    []error{errors.New("throttled"), nil},
	}
	retriever := &fakeRetriever{passages: []kb.RetrievedPassage{passage("p", "1")}}
	svc := NewService(model, retriever, testConfig(), testLogger())

	resp, err := svc.ProcessQuery(context.Background(), "query", HistoryFromStrings(nil))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resp.Message, "Plan B.") {
		t.Errorf("fallback not used: %q", resp.Message)
	}
	if model.calls != 2 {
		t.Errorf("model calls = %d, want 2", model.calls)
	}
}

func TestMockModeWithoutKnowledgeBase(t *testing.T) {
	model := &fakeModel{}
	retriever := &fakeRetriever{}
	cfg := testConfig()
	cfg.KnowledgeBaseID = ""

	svc := NewService(model, retriever, cfg, testLogger())
	if !svc.IsMock() {
		t.Fatal("empty knowledge base id should force mock mode")
	}

	resp, err := svc.ProcessQuery(context.Background(), "anything", HistoryFromStrings(nil))
	if err != nil {
		t.Fatal(err)
	}
	if model.calls != 0 || retriever.calls != 0 {
		t.Error("mock mode must not touch the adapters")
	}
	if len(resp.Sources) != 1 || resp.Sources[0].Source != "mock-document" {
		t.Errorf("mock response missing synthetic source: %+v", resp.Sources)
	}
	if resp.Message == "" {
		t.Error("mock response must carry a message")
	}
}

func TestMockModeWithNilDependencies(t *testing.T) {
	svc := NewService(nil, nil, testConfig(), testLogger())
	if !svc.IsMock() {
		t.Fatal("nil dependencies should force mock mode")
	}
	if _, err := svc.ProcessQuery(context.Background(), "q", HistoryFromStrings(nil)); err != nil {
		t.Fatalf("mock mode must never error: %v", err)
	}
}

func TestMockModeMatchesExemplar(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"prompt_prefix.txt":      "prefix {context} {chat_history}",
		"prompt_suffix.txt":      "suffix {question}",
		"few_shot_examples.json": `[{"input":"reset my password","output":["Use the reset link."]},{"input":"enroll students","output":"Use the CSV upload."}]`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := testConfig()
	cfg.KnowledgeBaseID = ""
	cfg.TemplatesDir = dir
	svc := NewService(nil, nil, cfg, testLogger())

	resp, err := svc.ProcessQuery(context.Background(), "how do I reset my password?", HistoryFromStrings(nil))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resp.Message, "Use the reset link.") {
		t.Errorf("exemplar answer not used: %q", resp.Message)
	}
	if !strings.Contains(resp.Message, "mock response") {
		t.Errorf("mock notice missing: %q", resp.Message)
	}
}

func TestMockModeMatchesExemplarWithoutPromptFiles(t *testing.T) {
	dir := t.TempDir()
	examples := `[{"input":"reset my password","output":["Use the reset link."]}]`
	if err := os.WriteFile(filepath.Join(dir, "few_shot_examples.json"), []byte(examples), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	cfg.KnowledgeBaseID = ""
	cfg.TemplatesDir = dir
	svc := NewService(nil, nil, cfg, testLogger())

	resp, err := svc.ProcessQuery(context.Background(), "how do I reset my password?", HistoryFromStrings(nil))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resp.Message, "Use the reset link.") {
		t.Errorf("exemplar answer not used when prompt files are absent: %q", resp.Message)
	}
}

func TestMatchExemplar(t *testing.T) {
	exemplars := []prompt.Exemplar{
		{Input: "reset my password", Output: prompt.ExemplarOutput{"a"}},
		{Input: "share my screen", Output: prompt.ExemplarOutput{"b"}},
	}

	best, score := matchExemplar("how can I reset the password for my account", exemplars)
	if best == nil || score == 0 {
		t.Fatal("expected a match")
	}
	if best.Input != "reset my password" {
		t.Errorf("matched %q", best.Input)
	}

	if best, score := matchExemplar("completely unrelated", exemplars); best != nil || score != 0 {
		t.Errorf("expected no match, got %v score %d", best, score)
	}
}

func TestQueryRewriteDisabledByDefault(t *testing.T) {
	model := &fakeModel{answers: []string{"answer"}}
	retriever := &fakeRetriever{passages: []kb.RetrievedPassage{passage("p", "1")}}
	svc := NewService(model, retriever, testConfig(), testLogger())

	history := HistoryFromStrings([]string{"earlier question", "earlier answer"})
	if _, err := svc.ProcessQuery(context.Background(), "what about that?", history); err != nil {
		t.Fatal(err)
	}

	// Only the QA invocation, no condense round-trip.
	if model.calls != 1 {
		t.Errorf("model calls = %d, want 1 with rewriting disabled", model.calls)
	}
}

func TestQueryRewriteEnabled(t *testing.T) {
	model := &fakeModel{answers: []string{"standalone question", "answer"}}
	retriever := &fakeRetriever{passages: []kb.RetrievedPassage{passage("p", "1")}}
	cfg := testConfig()
	cfg.EnableQueryRewrite = true
	svc := NewService(model, retriever, cfg, testLogger())

	history := HistoryFromStrings([]string{"earlier question", "earlier answer"})
	if _, err := svc.ProcessQuery(context.Background(), "what about that?", history); err != nil {
		t.Fatal(err)
	}

	if model.calls != 2 {
		t.Fatalf("model calls = %d, want condense + QA", model.calls)
	}
	if !strings.Contains(model.prompts[0], "Follow Up Input: what about that?") {
		t.Errorf("first call should be the condense prompt: %q", model.prompts[0])
	}
	if !strings.Contains(model.prompts[1], "standalone question") {
		t.Errorf("QA prompt should use the rewritten question: %q", model.prompts[1])
	}
}
