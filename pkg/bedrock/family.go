package bedrock

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ModelFamily selects the request/response payload shape for a model.
// The set is closed: Bedrock exposes chat-style models (structured
// message list), legacy completion-style models (single text block with
// Human/Assistant markers) and generic text models (flat inputText).
type ModelFamily int

const (
	FamilyGeneric ModelFamily = iota
	FamilyChat
	FamilyCompletion
)

func (f ModelFamily) String() string {
	switch f {
	case FamilyChat:
		return "chat"
	case FamilyCompletion:
		return "completion"
	default:
		return "generic"
	}
}

// ResolveFamily classifies a model identifier once, at configuration
// time. Order matters: "claude-3" identifiers also contain
// "anthropic.claude", so the chat check comes first.
func ResolveFamily(modelID string) ModelFamily {
	switch {
	case strings.Contains(modelID, "claude-3"):
		return FamilyChat
	case strings.Contains(modelID, "anthropic.claude"):
		return FamilyCompletion
	default:
		return FamilyGeneric
	}
}

// familyCodec carries the family-specific payload mapping as data so
// Invoke never inspects the model identifier.
type familyCodec struct {
	marshal func(prompt string, p Params) ([]byte, error)
	extract func(body []byte) (string, error)
}

func (f ModelFamily) codec() familyCodec {
	switch f {
	case FamilyChat:
		return familyCodec{marshal: marshalChat, extract: extractChat}
	case FamilyCompletion:
		return familyCodec{marshal: marshalCompletion, extract: extractCompletion}
	default:
		return familyCodec{marshal: marshalGeneric, extract: extractGeneric}
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func marshalChat(prompt string, p Params) ([]byte, error) {
	return json.Marshal(chatRequest{
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   p.MaxTokens,
		Temperature: p.Temperature,
	})
}

func extractChat(body []byte) (string, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", nil
	}
	return resp.Content[0].Text, nil
}

type completionRequest struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type completionResponse struct {
	Completion string `json:"completion"`
}

func marshalCompletion(prompt string, p Params) ([]byte, error) {
	return json.Marshal(completionRequest{
		Prompt:      fmt.Sprintf("\n\nHuman: %s\n\nAssistant:", prompt),
		MaxTokens:   p.MaxTokens,
		Temperature: p.Temperature,
	})
}

func extractCompletion(body []byte) (string, error) {
	var resp completionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	return resp.Completion, nil
}

type genericRequest struct {
	InputText            string `json:"inputText"`
	TextGenerationConfig struct {
		MaxTokenCount int     `json:"maxTokenCount"`
		Temperature   float64 `json:"temperature"`
	} `json:"textGenerationConfig"`
}

type genericResponse struct {
	Results []struct {
		OutputText string `json:"outputText"`
	} `json:"results"`
}

func marshalGeneric(prompt string, p Params) ([]byte, error) {
	req := genericRequest{InputText: prompt}
	req.TextGenerationConfig.MaxTokenCount = p.MaxTokens
	req.TextGenerationConfig.Temperature = p.Temperature
	return json.Marshal(req)
}

func extractGeneric(body []byte) (string, error) {
	var resp genericResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode text response: %w", err)
	}
	if len(resp.Results) == 0 {
		return "", nil
	}
	return resp.Results[0].OutputText, nil
}
