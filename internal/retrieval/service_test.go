// internal/retrieval/service_test.go
package retrieval

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rag-workbench/internal/common/logger"
	"rag-workbench/internal/filter"
)

type fakeRetrievalAPI struct {
	retrieveInput *bedrockagentruntime.RetrieveInput
	retrieveCalls int
	passages      []string

	generateInput *bedrockagentruntime.RetrieveAndGenerateInput
	answerText    string
	sessionID     string
}

func (f *fakeRetrievalAPI) Retrieve(ctx context.Context, input *bedrockagentruntime.RetrieveInput) (*bedrockagentruntime.RetrieveOutput, error) {
	f.retrieveInput = input
	f.retrieveCalls++

	results := make([]types.KnowledgeBaseRetrievalResult, 0, len(f.passages))
	for i, text := range f.passages {
		score := 0.9 - float64(i)*0.1
		results = append(results, types.KnowledgeBaseRetrievalResult{
			Content: &types.RetrievalResultContent{Text: aws.String(text)},
			Score:   aws.Float64(score),
			Location: &types.RetrievalResultLocation{
				Type:       types.RetrievalResultLocationTypeS3,
				S3Location: &types.RetrievalResultS3Location{Uri: aws.String("s3://workbench-data/docs/report.txt")},
			},
		})
	}
	return &bedrockagentruntime.RetrieveOutput{RetrievalResults: results}, nil
}

func (f *fakeRetrievalAPI) RetrieveAndGenerate(ctx context.Context, input *bedrockagentruntime.RetrieveAndGenerateInput) (*bedrockagentruntime.RetrieveAndGenerateOutput, error) {
	f.generateInput = input
	return &bedrockagentruntime.RetrieveAndGenerateOutput{
		SessionId: aws.String(f.sessionID),
		Output:    &types.RetrieveAndGenerateOutput{Text: aws.String(f.answerText)},
		Citations: []types.Citation{{
			RetrievedReferences: []types.RetrievedReference{{
				Content:  &types.RetrievalResultContent{Text: aws.String("cited passage")},
				Location: &types.RetrievalResultLocation{S3Location: &types.RetrievalResultS3Location{Uri: aws.String("s3://workbench-data/docs/report.txt")}},
			}},
		}},
	}, nil
}

func createTestService(t *testing.T, api *fakeRetrievalAPI, withCache bool) *Service {
	var client *redis.Client
	if withCache {
		mr := miniredis.RunT(t)
		client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	}
	return NewService(&Config{DefaultTopK: 3, CacheTTL: time.Minute}, api, client, logger.NewNoOpLogger())
}

func TestRetrieveUnwrapsPassages(t *testing.T) {
	api := &fakeRetrievalAPI{passages: []string{"first passage", "second passage"}}
	svc := createTestService(t, api, false)

	passages, err := svc.Retrieve(context.Background(), Query{
		KnowledgeBaseID: "KB123",
		Text:            "what was revenue in 2023",
	})

	require.NoError(t, err)
	require.Len(t, passages, 2)
	assert.Equal(t, "first passage", passages[0].Text)
	assert.InDelta(t, 0.9, passages[0].Score, 1e-9)
	assert.Equal(t, "s3://workbench-data/docs/report.txt", passages[0].Source)

	// DefaultTopK applies when the query leaves TopK zero.
	cfg := api.retrieveInput.RetrievalConfiguration.VectorSearchConfiguration
	assert.Equal(t, int32(3), aws.ToInt32(cfg.NumberOfResults))
	assert.Nil(t, cfg.Filter)
}

func TestRetrieveAttachesCompiledFilter(t *testing.T) {
	api := &fakeRetrievalAPI{passages: []string{"p"}}
	svc := createTestService(t, api, false)

	crit := filter.Criteria{Company: "Amazon", Years: []int{2023, 2024}}
	_, err := svc.Retrieve(context.Background(), Query{
		KnowledgeBaseID: "KB123",
		Text:            "revenue",
		TopK:            10,
		Filter:          crit.Build(),
	})

	require.NoError(t, err)
	cfg := api.retrieveInput.RetrievalConfiguration.VectorSearchConfiguration
	assert.Equal(t, int32(10), aws.ToInt32(cfg.NumberOfResults))

	and, ok := cfg.Filter.(*types.RetrievalFilterMemberAndAll)
	require.True(t, ok)
	assert.Len(t, and.Value, 2)
}

func TestRetrieveCacheRoundTrip(t *testing.T) {
	api := &fakeRetrievalAPI{passages: []string{"cached passage"}}
	svc := createTestService(t, api, true)

	q := Query{KnowledgeBaseID: "KB123", Text: "revenue", TopK: 3}

	first, err := svc.Retrieve(context.Background(), q)
	require.NoError(t, err)
	second, err := svc.Retrieve(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, api.retrieveCalls)
}

func TestRetrieveCacheKeyedByFilter(t *testing.T) {
	api := &fakeRetrievalAPI{passages: []string{"p"}}
	svc := createTestService(t, api, true)

	base := Query{KnowledgeBaseID: "KB123", Text: "revenue", TopK: 3}
	filtered := base
	filtered.Filter = filter.Criteria{Company: "Amazon"}.Build()

	_, err := svc.Retrieve(context.Background(), base)
	require.NoError(t, err)
	_, err = svc.Retrieve(context.Background(), filtered)
	require.NoError(t, err)

	// A different filter must not hit the unfiltered entry.
	assert.Equal(t, 2, api.retrieveCalls)
}

func TestAskPlainRequestOmitsGeneration(t *testing.T) {
	api := &fakeRetrievalAPI{answerText: "the answer", sessionID: "session-1"}
	svc := createTestService(t, api, false)

	answer, err := svc.Ask(context.Background(), GenerateRequest{
		Query:    Query{KnowledgeBaseID: "KB123", Text: "question"},
		ModelArn: "arn:aws:bedrock:us-east-1::foundation-model/anthropic.claude-3-haiku-20240307-v1:0",
	})

	require.NoError(t, err)
	assert.Equal(t, "the answer", answer.Text)
	assert.Equal(t, "session-1", answer.SessionID)
	require.Len(t, answer.Citations, 1)
	assert.Equal(t, "s3://workbench-data/docs/report.txt", answer.Citations[0].Source)

	kbCfg := api.generateInput.RetrieveAndGenerateConfiguration.KnowledgeBaseConfiguration
	assert.Nil(t, kbCfg.GenerationConfiguration)
	assert.Nil(t, api.generateInput.SessionId)
}

func TestAskAttachesGuardrailAndSession(t *testing.T) {
	api := &fakeRetrievalAPI{answerText: "guarded answer", sessionID: "session-2"}
	svc := createTestService(t, api, false)

	_, err := svc.Ask(context.Background(), GenerateRequest{
		Query:            Query{KnowledgeBaseID: "KB123", Text: "question"},
		ModelArn:         "arn:aws:bedrock:us-east-1::foundation-model/anthropic.claude-3-haiku-20240307-v1:0",
		GuardrailID:      "gr-123",
		GuardrailVersion: "1",
		SessionID:        "session-2",
		MaxTokens:        512,
		Temperature:      0.2,
	})

	require.NoError(t, err)
	assert.Equal(t, "session-2", aws.ToString(api.generateInput.SessionId))

	genCfg := api.generateInput.RetrieveAndGenerateConfiguration.KnowledgeBaseConfiguration.GenerationConfiguration
	require.NotNil(t, genCfg)
	assert.Equal(t, "gr-123", aws.ToString(genCfg.GuardrailConfiguration.GuardrailId))
	assert.Equal(t, int32(512), aws.ToInt32(genCfg.InferenceConfig.TextInferenceConfig.MaxTokens))
}

func TestAskFallbackSessionID(t *testing.T) {
	api := &fakeRetrievalAPI{answerText: "answer", sessionID: ""}
	svc := createTestService(t, api, false)

	answer, err := svc.Ask(context.Background(), GenerateRequest{
		Query:    Query{KnowledgeBaseID: "KB123", Text: "question"},
		ModelArn: "arn",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, answer.SessionID)
}

func TestCacheKeyComposition(t *testing.T) {
	a := cacheKey(Query{KnowledgeBaseID: "KB1", Text: "q", TopK: 3})
	b := cacheKey(Query{KnowledgeBaseID: "KB1", Text: "q", TopK: 5})
	c := cacheKey(Query{KnowledgeBaseID: "KB2", Text: "q", TopK: 3})

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, a, cacheKey(Query{KnowledgeBaseID: "KB1", Text: "q", TopK: 3}))
}
