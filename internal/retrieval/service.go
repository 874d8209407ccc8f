// internal/retrieval/service.go
package retrieval

import (
	"context"
	"time"

	"rag-workbench/internal/common/errors"
	"rag-workbench/internal/common/logger"
	"rag-workbench/internal/common/metrics"
	"rag-workbench/internal/filter"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	smithydocument "github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/document"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// retrievalAPI is the slice of the data-plane client this service uses.
type retrievalAPI interface {
	Retrieve(ctx context.Context, input *bedrockagentruntime.RetrieveInput) (*bedrockagentruntime.RetrieveOutput, error)
	RetrieveAndGenerate(ctx context.Context, input *bedrockagentruntime.RetrieveAndGenerateInput) (*bedrockagentruntime.RetrieveAndGenerateOutput, error)
}

type Config struct {
	DefaultTopK int
	CacheTTL    time.Duration
}

func (c *Config) applyDefaults() {
	if c.DefaultTopK == 0 {
		c.DefaultTopK = 5
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
}

type Service struct {
	config *Config
	api    retrievalAPI
	cache  *passageCache
	logger logger.Logger
}

// NewService wires the retrieval service. redisClient may be nil to run
// without caching.
func NewService(config *Config, api retrievalAPI, redisClient *redis.Client, log logger.Logger) *Service {
	config.applyDefaults()
	return &Service{
		config: config,
		api:    api,
		cache:  newPassageCache(redisClient, config.CacheTTL),
		logger: log.WithFields(map[string]interface{}{"component": "retrieval"}),
	}
}

// Retrieve runs a vector search and unwraps the scored passages.
func (s *Service) Retrieve(ctx context.Context, q Query) ([]Passage, error) {
	if q.TopK == 0 {
		q.TopK = s.config.DefaultTopK
	}

	if passages, ok := s.cache.get(ctx, q); ok {
		s.logger.Debug("retrieval served from cache", map[string]interface{}{
			"query": q.Text,
		})
		return passages, nil
	}

	compiled, err := filter.Compile(q.Filter)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeValidationFailed, "filter compilation failed", false, err)
	}

	start := time.Now()
	metrics.PlatformCalls.WithLabelValues("bedrock-agent-runtime", "Retrieve").Inc()

	out, err := s.api.Retrieve(ctx, &bedrockagentruntime.RetrieveInput{
		KnowledgeBaseId: aws.String(q.KnowledgeBaseID),
		RetrievalQuery: &types.KnowledgeBaseQuery{
			Text: aws.String(q.Text),
		},
		RetrievalConfiguration: retrievalConfiguration(int32(q.TopK), compiled),
	})
	metrics.PlatformCallDuration.WithLabelValues("bedrock-agent-runtime", "Retrieve").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PlatformCallErrors.WithLabelValues("bedrock-agent-runtime", "Retrieve", "error").Inc()
		return nil, errors.FromAWS("retrieve", err)
	}

	passages := make([]Passage, 0, len(out.RetrievalResults))
	for _, r := range out.RetrievalResults {
		passages = append(passages, unwrapResult(r))
	}

	s.cache.put(ctx, q, passages)

	s.logger.Info("retrieval complete", map[string]interface{}{
		"query":    q.Text,
		"passages": len(passages),
	})
	return passages, nil
}

// Ask runs the combined retrieve-and-generate flow, attaching the
// guardrail and metadata filter when supplied. A non-empty SessionID
// continues the prior conversation.
func (s *Service) Ask(ctx context.Context, req GenerateRequest) (*Answer, error) {
	if req.TopK == 0 {
		req.TopK = s.config.DefaultTopK
	}

	compiled, err := filter.Compile(req.Filter)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeValidationFailed, "filter compilation failed", false, err)
	}

	kbConfig := &types.KnowledgeBaseRetrieveAndGenerateConfiguration{
		KnowledgeBaseId:        aws.String(req.KnowledgeBaseID),
		ModelArn:               aws.String(req.ModelArn),
		RetrievalConfiguration: retrievalConfiguration(int32(req.TopK), compiled),
	}

	genConfig := &types.GenerationConfiguration{}
	attachGeneration := false
	if req.GuardrailID != "" {
		genConfig.GuardrailConfiguration = &types.GuardrailConfiguration{
			GuardrailId:      aws.String(req.GuardrailID),
			GuardrailVersion: aws.String(req.GuardrailVersion),
		}
		attachGeneration = true
	}
	if req.PromptTemplate != "" {
		genConfig.PromptTemplate = &types.PromptTemplate{
			TextPromptTemplate: aws.String(req.PromptTemplate),
		}
		attachGeneration = true
	}
	if req.MaxTokens > 0 {
		genConfig.InferenceConfig = &types.InferenceConfig{
			TextInferenceConfig: &types.TextInferenceConfig{
				MaxTokens:   aws.Int32(req.MaxTokens),
				Temperature: aws.Float32(req.Temperature),
			},
		}
		attachGeneration = true
	}
	if attachGeneration {
		kbConfig.GenerationConfiguration = genConfig
	}

	input := &bedrockagentruntime.RetrieveAndGenerateInput{
		Input: &types.RetrieveAndGenerateInput{
			Text: aws.String(req.Text),
		},
		RetrieveAndGenerateConfiguration: &types.RetrieveAndGenerateConfiguration{
			Type:                       types.RetrieveAndGenerateTypeKnowledgeBase,
			KnowledgeBaseConfiguration: kbConfig,
		},
	}
	if req.SessionID != "" {
		input.SessionId = aws.String(req.SessionID)
	}

	start := time.Now()
	metrics.PlatformCalls.WithLabelValues("bedrock-agent-runtime", "RetrieveAndGenerate").Inc()

	out, err := s.api.RetrieveAndGenerate(ctx, input)
	metrics.PlatformCallDuration.WithLabelValues("bedrock-agent-runtime", "RetrieveAndGenerate").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PlatformCallErrors.WithLabelValues("bedrock-agent-runtime", "RetrieveAndGenerate", "error").Inc()
		return nil, errors.FromAWS("retrieve and generate", err)
	}

	answer := &Answer{
		SessionID: aws.ToString(out.SessionId),
	}
	if answer.SessionID == "" {
		answer.SessionID = uuid.NewString()
	}
	if out.Output != nil {
		answer.Text = aws.ToString(out.Output.Text)
	}
	for _, c := range out.Citations {
		for _, ref := range c.RetrievedReferences {
			answer.Citations = append(answer.Citations, unwrapReference(ref))
		}
	}

	s.logger.Info("generation complete", map[string]interface{}{
		"sessionId": answer.SessionID,
		"citations": len(answer.Citations),
	})
	return answer, nil
}

func retrievalConfiguration(topK int32, compiled types.RetrievalFilter) *types.KnowledgeBaseRetrievalConfiguration {
	vector := &types.KnowledgeBaseVectorSearchConfiguration{
		NumberOfResults: aws.Int32(topK),
	}
	if compiled != nil {
		vector.Filter = compiled
	}
	return &types.KnowledgeBaseRetrievalConfiguration{
		VectorSearchConfiguration: vector,
	}
}

func unwrapResult(r types.KnowledgeBaseRetrievalResult) Passage {
	p := Passage{
		Metadata: unwrapMetadata(r.Metadata),
	}
	if r.Content != nil {
		p.Text = aws.ToString(r.Content.Text)
	}
	if r.Score != nil {
		p.Score = *r.Score
	}
	p.Source = unwrapLocation(r.Location)
	return p
}

func unwrapReference(ref types.RetrievedReference) Citation {
	c := Citation{
		Metadata: unwrapMetadata(ref.Metadata),
	}
	if ref.Content != nil {
		c.Text = aws.ToString(ref.Content.Text)
	}
	c.Source = unwrapLocation(ref.Location)
	return c
}

func unwrapLocation(loc *types.RetrievalResultLocation) string {
	if loc == nil || loc.S3Location == nil {
		return ""
	}
	return aws.ToString(loc.S3Location.Uri)
}

func unwrapMetadata(meta map[string]smithydocument.Interface) map[string]interface{} {
	if len(meta) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(meta))
	for k, v := range meta {
		var val interface{}
		if err := v.UnmarshalSmithyDocument(&val); err == nil {
			out[k] = val
		}
	}
	return out
}
