package kb

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
)

// RetrievalError wraps any failure to reach the knowledge base or to
// decode its results. The orchestrator catches it on the fallback path;
// it must never be swallowed silently.
type RetrievalError struct{ Err error }

func (e *RetrievalError) Error() string { return fmt.Sprintf("knowledge base retrieval: %v", e.Err) }
func (e *RetrievalError) Unwrap() error { return e.Err }

// RetrieveAPI is the slice of the bedrock-agent-runtime client used by
// the retriever. Tests substitute a fake.
type RetrieveAPI interface {
	Retrieve(ctx context.Context, params *bedrockagentruntime.RetrieveInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.RetrieveOutput, error)
}

// Retriever queries a Bedrock knowledge base and returns ranked
// passages, most relevant first. Tie-break order among equal scores is
// provider-defined. Safe for concurrent use.
type Retriever struct {
	api             RetrieveAPI
	knowledgeBaseID string
	logger          *log.Logger
}

func NewRetriever(api RetrieveAPI, knowledgeBaseID string, logger *log.Logger) *Retriever {
	return &Retriever{
		api:             api,
		knowledgeBaseID: knowledgeBaseID,
		logger:          logger,
	}
}

// Retrieve fetches up to k passages for the query. mode selects the
// provider search type ("HYBRID" or "SEMANTIC").
func (r *Retriever) Retrieve(ctx context.Context, query string, k int, mode string) ([]RetrievedPassage, error) {
	out, err := r.api.Retrieve(ctx, &bedrockagentruntime.RetrieveInput{
		KnowledgeBaseId: aws.String(r.knowledgeBaseID),
		RetrievalQuery:  &types.KnowledgeBaseQuery{Text: aws.String(query)},
		RetrievalConfiguration: &types.KnowledgeBaseRetrievalConfiguration{
			VectorSearchConfiguration: &types.KnowledgeBaseVectorSearchConfiguration{
				NumberOfResults:    aws.Int32(int32(k)),
				OverrideSearchType: types.SearchType(mode),
			},
		},
	})
	if err != nil {
		r.logger.Printf("[KB] Retrieve failed: %v", err)
		return nil, &RetrievalError{Err: err}
	}

	passages := make([]RetrievedPassage, 0, len(out.RetrievalResults))
	for _, result := range out.RetrievalResults {
		content := ""
		if result.Content != nil && result.Content.Text != nil {
			content = *result.Content.Text
		}

		raw := make(map[string]any, len(result.Metadata))
		for key, doc := range result.Metadata {
			var v any
			if err := doc.UnmarshalSmithyDocument(&v); err != nil {
				r.logger.Printf("[KB] Skipping undecodable metadata field %q: %v", key, err)
				continue
			}
			raw[key] = v
		}

		passages = append(passages, RetrievedPassage{
			Content:  content,
			Metadata: MapMetadata(raw, result.Score),
		})
	}

	r.logger.Printf("[KB] Retrieved %d passages for query (k=%d, mode=%s)", len(passages), k, mode)
	return passages, nil
}
