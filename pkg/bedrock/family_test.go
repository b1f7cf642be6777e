package bedrock

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestResolveFamily(t *testing.T) {
	tests := []struct {
		modelID string
		want    ModelFamily
	}{
		{"anthropic.claude-3-sonnet-20240229-v1:0", FamilyChat},
		{"anthropic.claude-3-haiku-20240307-v1:0", FamilyChat},
		{"anthropic.claude-instant-v1", FamilyCompletion},
		{"anthropic.claude-v2", FamilyCompletion},
		{"amazon.titan-text-express-v1", FamilyGeneric},
		{"", FamilyGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.modelID, func(t *testing.T) {
			if got := ResolveFamily(tt.modelID); got != tt.want {
				t.Errorf("ResolveFamily(%q) = %s, want %s", tt.modelID, got, tt.want)
			}
		})
	}
}

func TestMarshalChat(t *testing.T) {
	body, err := marshalChat("hello", Params{MaxTokens: 500, Temperature: 0.1})
	if err != nil {
		t.Fatal(err)
	}

	var req chatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatal(err)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != "user" || req.Messages[0].Content != "hello" {
		t.Errorf("unexpected messages: %+v", req.Messages)
	}
	if req.MaxTokens != 500 || req.Temperature != 0.1 {
		t.Errorf("unexpected params: %+v", req)
	}
}

func TestMarshalCompletionWrapsPrompt(t *testing.T) {
	body, err := marshalCompletion("hello", Params{MaxTokens: 500, Temperature: 0.1})
	if err != nil {
		t.Fatal(err)
	}

	var req completionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(req.Prompt, "\n\nHuman: hello") || !strings.HasSuffix(req.Prompt, "\n\nAssistant:") {
		t.Errorf("prompt not wrapped in Human/Assistant markers: %q", req.Prompt)
	}
}

func TestMarshalGeneric(t *testing.T) {
	body, err := marshalGeneric("hello", Params{MaxTokens: 300, Temperature: 0.5})
	if err != nil {
		t.Fatal(err)
	}

	var req genericRequest
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatal(err)
	}
	if req.InputText != "hello" {
		t.Errorf("InputText = %q", req.InputText)
	}
	if req.TextGenerationConfig.MaxTokenCount != 300 || req.TextGenerationConfig.Temperature != 0.5 {
		t.Errorf("unexpected config: %+v", req.TextGenerationConfig)
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		extract func([]byte) (string, error)
		body    string
		want    string
	}{
		{"chat", extractChat, `{"content":[{"text":"answer"}]}`, "answer"},
		{"chat empty content", extractChat, `{"content":[]}`, ""},
		{"completion", extractCompletion, `{"completion":"answer"}`, "answer"},
		{"generic", extractGeneric, `{"results":[{"outputText":"answer"}]}`, "answer"},
		{"generic empty results", extractGeneric, `{"results":[]}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.extract([]byte(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("extract = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractMalformedBody(t *testing.T) {
	if _, err := extractChat([]byte("not json")); err == nil {
		t.Error("expected error for malformed chat body")
	}
	if _, err := extractCompletion([]byte("not json")); err == nil {
		t.Error("expected error for malformed completion body")
	}
}
