package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
)

type fakeInvokeClient struct {
	lastInput *bedrockruntime.InvokeModelInput
	output    []byte
	err       error
}

func (f *fakeInvokeClient) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.lastInput = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: f.output}, nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestInvokeCompletionModel(t *testing.T) {
	client := &fakeInvokeClient{output: []byte(`{"completion":" the answer "}`)}
	svc := NewService(client, "anthropic.claude-instant-v1", Params{Temperature: 0.1, MaxTokens: 500}, testLogger())

	got, err := svc.Invoke(context.Background(), "what is RAG?")
	if err != nil {
		t.Fatal(err)
	}
	if got != " the answer " {
		t.Errorf("Invoke() = %q", got)
	}

	if client.lastInput == nil || *client.lastInput.ModelId != "anthropic.claude-instant-v1" {
		t.Fatalf("unexpected input: %+v", client.lastInput)
	}
	if *client.lastInput.ContentType != "application/json" {
		t.Errorf("ContentType = %q", *client.lastInput.ContentType)
	}

	var req completionRequest
	if err := json.Unmarshal(client.lastInput.Body, &req); err != nil {
		t.Fatal(err)
	}
	if req.MaxTokens != 500 || req.Temperature != 0.1 {
		t.Errorf("defaults not applied: %+v", req)
	}
}

func TestInvokeOptionOverrides(t *testing.T) {
	client := &fakeInvokeClient{output: []byte(`{"completion":"ok"}`)}
	svc := NewService(client, "anthropic.claude-v2", Params{Temperature: 0.1, MaxTokens: 500}, testLogger())

	if _, err := svc.Invoke(context.Background(), "q", WithTemperature(0.9), WithMaxTokens(50)); err != nil {
		t.Fatal(err)
	}

	var req completionRequest
	if err := json.Unmarshal(client.lastInput.Body, &req); err != nil {
		t.Fatal(err)
	}
	if req.Temperature != 0.9 || req.MaxTokens != 50 {
		t.Errorf("overrides not applied: %+v", req)
	}
}

func TestInvokeMapsProviderError(t *testing.T) {
	client := &fakeInvokeClient{err: &smithy.GenericAPIError{Code: "ThrottlingException"}}
	svc := NewService(client, "anthropic.claude-instant-v1", Params{}, testLogger())

	_, err := svc.Invoke(context.Background(), "q")
	var rateErr *RateLimitError
	if !errors.As(err, &rateErr) {
		t.Errorf("Invoke error = %T, want *RateLimitError", err)
	}
}
