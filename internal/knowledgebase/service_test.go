// internal/knowledgebase/service_test.go
package knowledgebase

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "rag-workbench/internal/common/errors"
	"rag-workbench/internal/common/logger"
)

type fakeAdminAPI struct {
	createKBInput *bedrockagent.CreateKnowledgeBaseInput
	createDSInput *bedrockagent.CreateDataSourceInput
	startInput    *bedrockagent.StartIngestionJobInput

	// getStatuses is consumed one per GetIngestionJob call; the last entry
	// repeats once exhausted.
	getStatuses []types.IngestionJobStatus
	getCalls    int
	getErr      error
}

func (f *fakeAdminAPI) CreateKnowledgeBase(ctx context.Context, input *bedrockagent.CreateKnowledgeBaseInput) (*bedrockagent.CreateKnowledgeBaseOutput, error) {
	f.createKBInput = input
	return &bedrockagent.CreateKnowledgeBaseOutput{
		KnowledgeBase: &types.KnowledgeBase{
			KnowledgeBaseId:  aws.String("KB123"),
			KnowledgeBaseArn: aws.String("arn:aws:bedrock:us-east-1:123456789012:knowledge-base/KB123"),
			Status:           types.KnowledgeBaseStatusCreating,
		},
	}, nil
}

func (f *fakeAdminAPI) CreateDataSource(ctx context.Context, input *bedrockagent.CreateDataSourceInput) (*bedrockagent.CreateDataSourceOutput, error) {
	f.createDSInput = input
	return &bedrockagent.CreateDataSourceOutput{
		DataSource: &types.DataSource{
			DataSourceId: aws.String("DS123"),
			Status:       types.DataSourceStatusAvailable,
		},
	}, nil
}

func (f *fakeAdminAPI) StartIngestionJob(ctx context.Context, input *bedrockagent.StartIngestionJobInput) (*bedrockagent.StartIngestionJobOutput, error) {
	f.startInput = input
	return &bedrockagent.StartIngestionJobOutput{
		IngestionJob: &types.IngestionJob{
			IngestionJobId: aws.String("JOB123"),
			Status:         types.IngestionJobStatusStarting,
		},
	}, nil
}

func (f *fakeAdminAPI) GetIngestionJob(ctx context.Context, input *bedrockagent.GetIngestionJobInput) (*bedrockagent.GetIngestionJobOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	idx := f.getCalls
	if idx >= len(f.getStatuses) {
		idx = len(f.getStatuses) - 1
	}
	f.getCalls++

	status := f.getStatuses[idx]
	job := &types.IngestionJob{
		IngestionJobId: input.IngestionJobId,
		Status:         status,
	}
	if status == types.IngestionJobStatusComplete {
		job.Statistics = &types.IngestionJobStatistics{
			NumberOfDocumentsScanned:    10,
			NumberOfNewDocumentsIndexed: 9,
			NumberOfDocumentsFailed:     1,
		}
	}
	if status == types.IngestionJobStatusFailed {
		job.FailureReasons = []string{"embedding model unavailable"}
	}
	return &bedrockagent.GetIngestionJobOutput{IngestionJob: job}, nil
}

func createTestConfig() *Config {
	return &Config{
		EmbeddingModelArn: "arn:aws:bedrock:us-east-1::foundation-model/amazon.titan-embed-text-v2:0",
		StorageRoleArn:    "arn:aws:iam::123456789012:role/kb-storage",
		CollectionArn:     "arn:aws:aoss:us-east-1:123456789012:collection/abc",
		VectorIndexName:   "test-index",
		SourceBucketArn:   "arn:aws:s3:::workbench-data",
		SourcePrefix:      "docs/",
		PollInterval:      time.Millisecond,
		IngestTimeout:     time.Second,
	}
}

func createTestService(api *fakeAdminAPI) *Service {
	return NewService(createTestConfig(), api, logger.NewNoOpLogger())
}

func TestCreateKnowledgeBase(t *testing.T) {
	api := &fakeAdminAPI{}
	svc := createTestService(api)

	info, err := svc.CreateKnowledgeBase(context.Background(), "test-kb", "test description")

	require.NoError(t, err)
	assert.Equal(t, "KB123", info.ID)
	assert.Equal(t, string(types.KnowledgeBaseStatusCreating), info.Status)

	require.NotNil(t, api.createKBInput)
	assert.Equal(t, "test-kb", aws.ToString(api.createKBInput.Name))
	storage := api.createKBInput.StorageConfiguration
	require.NotNil(t, storage)
	assert.Equal(t, types.KnowledgeBaseStorageTypeOpensearchServerless, storage.Type)
	assert.Equal(t, "test-index", aws.ToString(storage.OpensearchServerlessConfiguration.VectorIndexName))
}

func TestCreateDataSourceChunking(t *testing.T) {
	tests := []struct {
		name     string
		spec     ChunkingSpec
		validate func(t *testing.T, cfg *types.ChunkingConfiguration)
	}{
		{
			name: "fixed size",
			spec: DefaultFixedChunking(),
			validate: func(t *testing.T, cfg *types.ChunkingConfiguration) {
				assert.Equal(t, types.ChunkingStrategyFixedSize, cfg.ChunkingStrategy)
				require.NotNil(t, cfg.FixedSizeChunkingConfiguration)
				assert.Equal(t, int32(300), aws.ToInt32(cfg.FixedSizeChunkingConfiguration.MaxTokens))
				assert.Equal(t, int32(20), aws.ToInt32(cfg.FixedSizeChunkingConfiguration.OverlapPercentage))
			},
		},
		{
			name: "semantic",
			spec: func() ChunkingSpec {
				s := ChunkingSpec{Strategy: ChunkingSemantic}
				s.Semantic.MaxTokens = 300
				s.Semantic.BufferSize = 1
				s.Semantic.BreakpointPercentile = 95
				return s
			}(),
			validate: func(t *testing.T, cfg *types.ChunkingConfiguration) {
				assert.Equal(t, types.ChunkingStrategySemantic, cfg.ChunkingStrategy)
				require.NotNil(t, cfg.SemanticChunkingConfiguration)
				assert.Equal(t, int32(95), aws.ToInt32(cfg.SemanticChunkingConfiguration.BreakpointPercentileThreshold))
			},
		},
		{
			name: "hierarchical carries parent and child levels",
			spec: func() ChunkingSpec {
				s := ChunkingSpec{Strategy: ChunkingHierarchical}
				s.Hierarchical.ParentMaxTokens = 1500
				s.Hierarchical.ChildMaxTokens = 300
				s.Hierarchical.OverlapTokens = 60
				return s
			}(),
			validate: func(t *testing.T, cfg *types.ChunkingConfiguration) {
				assert.Equal(t, types.ChunkingStrategyHierarchical, cfg.ChunkingStrategy)
				require.Len(t, cfg.HierarchicalChunkingConfiguration.LevelConfigurations, 2)
				assert.Equal(t, int32(1500), aws.ToInt32(cfg.HierarchicalChunkingConfiguration.LevelConfigurations[0].MaxTokens))
			},
		},
		{
			name: "none",
			spec: ChunkingSpec{Strategy: ChunkingNone},
			validate: func(t *testing.T, cfg *types.ChunkingConfiguration) {
				assert.Equal(t, types.ChunkingStrategyNone, cfg.ChunkingStrategy)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAdminAPI{}
			svc := createTestService(api)

			info, err := svc.CreateDataSource(context.Background(), "KB123", "test-source", tt.spec)

			require.NoError(t, err)
			assert.Equal(t, "DS123", info.ID)
			require.NotNil(t, api.createDSInput)
			assert.Equal(t, []string{"docs/"}, api.createDSInput.DataSourceConfiguration.S3Configuration.InclusionPrefixes)
			tt.validate(t, api.createDSInput.VectorIngestionConfiguration.ChunkingConfiguration)
		})
	}
}

func TestCreateDataSourceUnknownStrategy(t *testing.T) {
	svc := createTestService(&fakeAdminAPI{})

	_, err := svc.CreateDataSource(context.Background(), "KB123", "x", ChunkingSpec{Strategy: "bogus"})
	assert.Error(t, err)
}

func TestStartIngestionSendsClientToken(t *testing.T) {
	api := &fakeAdminAPI{}
	svc := createTestService(api)

	jobID, err := svc.StartIngestion(context.Background(), "KB123", "DS123")

	require.NoError(t, err)
	assert.Equal(t, "JOB123", jobID)
	assert.NotEmpty(t, aws.ToString(api.startInput.ClientToken))
}

func TestWaitForIngestionCompletes(t *testing.T) {
	api := &fakeAdminAPI{getStatuses: []types.IngestionJobStatus{
		types.IngestionJobStatusStarting,
		types.IngestionJobStatusInProgress,
		types.IngestionJobStatusComplete,
	}}
	svc := createTestService(api)

	result, err := svc.WaitForIngestion(context.Background(), "KB123", "DS123", "JOB123")

	require.NoError(t, err)
	assert.Equal(t, string(types.IngestionJobStatusComplete), result.Status)
	assert.Equal(t, int64(10), result.DocumentsScanned)
	assert.Equal(t, int64(9), result.DocumentsIndexed)
	assert.Equal(t, int64(1), result.DocumentsFailed)
	assert.Equal(t, 3, api.getCalls)
}

func TestWaitForIngestionFailure(t *testing.T) {
	api := &fakeAdminAPI{getStatuses: []types.IngestionJobStatus{
		types.IngestionJobStatusFailed,
	}}
	svc := createTestService(api)

	result, err := svc.WaitForIngestion(context.Background(), "KB123", "DS123", "JOB123")

	require.Error(t, err)
	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeIngestionFailed, stdErr.Code)
	require.NotNil(t, result)
	assert.Equal(t, []string{"embedding model unavailable"}, result.FailureReasons)
}

func TestWaitForIngestionTimeout(t *testing.T) {
	config := createTestConfig()
	config.IngestTimeout = 20 * time.Millisecond
	config.PollInterval = 5 * time.Millisecond

	api := &fakeAdminAPI{getStatuses: []types.IngestionJobStatus{
		types.IngestionJobStatusInProgress,
	}}
	svc := NewService(config, api, logger.NewNoOpLogger())

	_, err := svc.WaitForIngestion(context.Background(), "KB123", "DS123", "JOB123")

	require.Error(t, err)
	var stdErr *stderrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, stderrors.ErrCodeIngestionTimeout, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}
