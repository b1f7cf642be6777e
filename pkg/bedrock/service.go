package bedrock

import (
	"context"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// InvokeModelAPI is the slice of the bedrock-runtime client used here.
// Tests substitute a fake; production passes *bedrockruntime.Client.
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Params are the generation parameters sent with every invocation.
type Params struct {
	Temperature float64
	MaxTokens   int
	TopK        int
}

// Option overrides a default parameter for a single invocation.
type Option func(*Params)

func WithTemperature(temp float64) Option {
	return func(p *Params) { p.Temperature = temp }
}

func WithMaxTokens(n int) Option {
	return func(p *Params) { p.MaxTokens = n }
}

// Service invokes a single configured Bedrock model. The model family
// is resolved once at construction; Invoke is safe for concurrent use
// (the client is read-only after construction, per-call state is local).
// Timeouts are the transport's concern: the service imposes none of
// its own beyond what ctx carries.
type Service struct {
	client   InvokeModelAPI
	modelID  string
	codec    familyCodec
	defaults Params
	logger   *log.Logger
}

func NewService(client InvokeModelAPI, modelID string, defaults Params, logger *log.Logger) *Service {
	family := ResolveFamily(modelID)
	logger.Printf("[BEDROCK] Model %s resolved to %s family", modelID, family)
	return &Service{
		client:   client,
		modelID:  modelID,
		codec:    family.codec(),
		defaults: defaults,
		logger:   logger,
	}
}

func (s *Service) ModelID() string {
	return s.modelID
}

// Invoke sends a single prompt and returns the generated text. Provider
// failures come back as the typed errors of this package; the service
// never retries on its own.
func (s *Service) Invoke(ctx context.Context, prompt string, opts ...Option) (string, error) {
	params := s.defaults
	for _, opt := range opts {
		opt(&params)
	}

	body, err := s.codec.marshal(prompt, params)
	if err != nil {
		return "", &ValidationError{Err: err}
	}

	out, err := s.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(s.modelID),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		mapped := mapProviderError(s.modelID, err)
		s.logger.Printf("[BEDROCK] Invoke failed: %v", mapped)
		return "", mapped
	}

	text, err := s.codec.extract(out.Body)
	if err != nil {
		return "", &UnhandledProviderError{Err: err}
	}
	return text, nil
}
