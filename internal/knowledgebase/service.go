// internal/knowledgebase/service.go
package knowledgebase

import (
	"context"
	"fmt"
	"time"

	"rag-workbench/internal/common/errors"
	"rag-workbench/internal/common/logger"
	"rag-workbench/internal/common/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent/types"
	"github.com/google/uuid"
)

// adminAPI is the slice of the control-plane client this service uses.
type adminAPI interface {
	CreateKnowledgeBase(ctx context.Context, input *bedrockagent.CreateKnowledgeBaseInput) (*bedrockagent.CreateKnowledgeBaseOutput, error)
	CreateDataSource(ctx context.Context, input *bedrockagent.CreateDataSourceInput) (*bedrockagent.CreateDataSourceOutput, error)
	StartIngestionJob(ctx context.Context, input *bedrockagent.StartIngestionJobInput) (*bedrockagent.StartIngestionJobOutput, error)
	GetIngestionJob(ctx context.Context, input *bedrockagent.GetIngestionJobInput) (*bedrockagent.GetIngestionJobOutput, error)
}

type Service struct {
	config *Config
	api    adminAPI
	logger logger.Logger
}

func NewService(config *Config, api adminAPI, log logger.Logger) *Service {
	config.applyDefaults()
	return &Service{
		config: config,
		api:    api,
		logger: log.WithFields(map[string]interface{}{"component": "knowledgebase"}),
	}
}

// CreateKnowledgeBase provisions a vector knowledge base over the
// configured vector collection.
func (s *Service) CreateKnowledgeBase(ctx context.Context, name, description string) (*KnowledgeBaseInfo, error) {
	metrics.PlatformCalls.WithLabelValues("bedrock-agent", "CreateKnowledgeBase").Inc()

	out, err := s.api.CreateKnowledgeBase(ctx, &bedrockagent.CreateKnowledgeBaseInput{
		Name:        aws.String(name),
		Description: aws.String(description),
		RoleArn:     aws.String(s.config.StorageRoleArn),
		KnowledgeBaseConfiguration: &types.KnowledgeBaseConfiguration{
			Type: types.KnowledgeBaseTypeVector,
			VectorKnowledgeBaseConfiguration: &types.VectorKnowledgeBaseConfiguration{
				EmbeddingModelArn: aws.String(s.config.EmbeddingModelArn),
			},
		},
		StorageConfiguration: &types.StorageConfiguration{
			Type: types.KnowledgeBaseStorageTypeOpensearchServerless,
			OpensearchServerlessConfiguration: &types.OpenSearchServerlessConfiguration{
				CollectionArn:   aws.String(s.config.CollectionArn),
				VectorIndexName: aws.String(s.config.VectorIndexName),
				FieldMapping: &types.OpenSearchServerlessFieldMapping{
					VectorField:   aws.String("embedding"),
					TextField:     aws.String("text"),
					MetadataField: aws.String("metadata"),
				},
			},
		},
	})
	if err != nil {
		metrics.PlatformCallErrors.WithLabelValues("bedrock-agent", "CreateKnowledgeBase", "error").Inc()
		return nil, errors.FromAWS("create knowledge base", err)
	}

	kb := out.KnowledgeBase
	info := &KnowledgeBaseInfo{
		ID:     aws.ToString(kb.KnowledgeBaseId),
		ARN:    aws.ToString(kb.KnowledgeBaseArn),
		Status: string(kb.Status),
	}

	s.logger.Info("knowledge base created", map[string]interface{}{
		"knowledgeBaseId": info.ID,
		"status":          info.Status,
	})
	return info, nil
}

// CreateDataSource attaches the configured bucket prefix to a knowledge
// base with the requested chunking strategy.
func (s *Service) CreateDataSource(ctx context.Context, kbID, name string, chunking ChunkingSpec) (*DataSourceInfo, error) {
	metrics.PlatformCalls.WithLabelValues("bedrock-agent", "CreateDataSource").Inc()

	chunkingCfg, err := chunkingConfiguration(chunking)
	if err != nil {
		return nil, err
	}

	input := &bedrockagent.CreateDataSourceInput{
		KnowledgeBaseId: aws.String(kbID),
		Name:            aws.String(name),
		DataSourceConfiguration: &types.DataSourceConfiguration{
			Type: types.DataSourceTypeS3,
			S3Configuration: &types.S3DataSourceConfiguration{
				BucketArn: aws.String(s.config.SourceBucketArn),
			},
		},
		VectorIngestionConfiguration: &types.VectorIngestionConfiguration{
			ChunkingConfiguration: chunkingCfg,
		},
	}
	if s.config.SourcePrefix != "" {
		input.DataSourceConfiguration.S3Configuration.InclusionPrefixes = []string{s.config.SourcePrefix}
	}

	out, err := s.api.CreateDataSource(ctx, input)
	if err != nil {
		metrics.PlatformCallErrors.WithLabelValues("bedrock-agent", "CreateDataSource", "error").Inc()
		return nil, errors.FromAWS("create data source", err)
	}

	info := &DataSourceInfo{
		ID:     aws.ToString(out.DataSource.DataSourceId),
		Status: string(out.DataSource.Status),
	}
	s.logger.Info("data source created", map[string]interface{}{
		"dataSourceId": info.ID,
		"strategy":     string(chunking.Strategy),
	})
	return info, nil
}

func chunkingConfiguration(spec ChunkingSpec) (*types.ChunkingConfiguration, error) {
	switch spec.Strategy {
	case ChunkingFixed:
		return &types.ChunkingConfiguration{
			ChunkingStrategy: types.ChunkingStrategyFixedSize,
			FixedSizeChunkingConfiguration: &types.FixedSizeChunkingConfiguration{
				MaxTokens:         aws.Int32(spec.Fixed.MaxTokens),
				OverlapPercentage: aws.Int32(spec.Fixed.OverlapPercent),
			},
		}, nil

	case ChunkingSemantic:
		return &types.ChunkingConfiguration{
			ChunkingStrategy: types.ChunkingStrategySemantic,
			SemanticChunkingConfiguration: &types.SemanticChunkingConfiguration{
				MaxTokens:                     aws.Int32(spec.Semantic.MaxTokens),
				BufferSize:                    aws.Int32(spec.Semantic.BufferSize),
				BreakpointPercentileThreshold: aws.Int32(spec.Semantic.BreakpointPercentile),
			},
		}, nil

	case ChunkingHierarchical:
		return &types.ChunkingConfiguration{
			ChunkingStrategy: types.ChunkingStrategyHierarchical,
			HierarchicalChunkingConfiguration: &types.HierarchicalChunkingConfiguration{
				LevelConfigurations: []types.HierarchicalChunkingLevelConfiguration{
					{MaxTokens: aws.Int32(spec.Hierarchical.ParentMaxTokens)},
					{MaxTokens: aws.Int32(spec.Hierarchical.ChildMaxTokens)},
				},
				OverlapTokens: aws.Int32(spec.Hierarchical.OverlapTokens),
			},
		}, nil

	case ChunkingNone:
		return &types.ChunkingConfiguration{
			ChunkingStrategy: types.ChunkingStrategyNone,
		}, nil

	default:
		return nil, fmt.Errorf("unknown chunking strategy %q", spec.Strategy)
	}
}

// StartIngestion kicks off an ingestion job for the data source and
// returns its id without waiting.
func (s *Service) StartIngestion(ctx context.Context, kbID, dataSourceID string) (string, error) {
	metrics.PlatformCalls.WithLabelValues("bedrock-agent", "StartIngestionJob").Inc()

	out, err := s.api.StartIngestionJob(ctx, &bedrockagent.StartIngestionJobInput{
		KnowledgeBaseId: aws.String(kbID),
		DataSourceId:    aws.String(dataSourceID),
		ClientToken:     aws.String(uuid.NewString()),
	})
	if err != nil {
		metrics.PlatformCallErrors.WithLabelValues("bedrock-agent", "StartIngestionJob", "error").Inc()
		return "", errors.FromAWS("start ingestion job", err)
	}

	jobID := aws.ToString(out.IngestionJob.IngestionJobId)
	s.logger.Info("ingestion job started", map[string]interface{}{
		"jobId":  jobID,
		"status": string(out.IngestionJob.Status),
	})
	return jobID, nil
}

// WaitForIngestion polls the job until it reaches a terminal status or ctx
// runs out. The overall wait is capped by the configured ingest timeout.
func (s *Service) WaitForIngestion(ctx context.Context, kbID, dataSourceID, jobID string) (*IngestionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.IngestTimeout)
	defer cancel()

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		out, err := s.api.GetIngestionJob(ctx, &bedrockagent.GetIngestionJobInput{
			KnowledgeBaseId: aws.String(kbID),
			DataSourceId:    aws.String(dataSourceID),
			IngestionJobId:  aws.String(jobID),
		})
		if err != nil {
			return nil, errors.FromAWS("get ingestion job", err)
		}
		metrics.PollCycles.WithLabelValues("ingestion").Inc()

		job := out.IngestionJob
		switch job.Status {
		case types.IngestionJobStatusComplete:
			result := unwrapIngestion(job)
			s.logger.Info("ingestion complete", map[string]interface{}{
				"jobId":   jobID,
				"scanned": result.DocumentsScanned,
				"indexed": result.DocumentsIndexed,
				"failed":  result.DocumentsFailed,
			})
			return result, nil

		case types.IngestionJobStatusFailed:
			return unwrapIngestion(job), errors.NewIngestionFailedError(jobID, job.FailureReasons)
		}

		s.logger.Debug("ingestion in progress", map[string]interface{}{
			"jobId":  jobID,
			"status": string(job.Status),
		})

		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return nil, errors.Wrap(errors.ErrCodeIngestionTimeout, "ingestion wait timed out", true, ctx.Err())
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func unwrapIngestion(job *types.IngestionJob) *IngestionResult {
	result := &IngestionResult{
		JobID:          aws.ToString(job.IngestionJobId),
		Status:         string(job.Status),
		FailureReasons: job.FailureReasons,
	}
	if stats := job.Statistics; stats != nil {
		result.DocumentsScanned = stats.NumberOfDocumentsScanned
		result.DocumentsIndexed = stats.NumberOfNewDocumentsIndexed
		result.DocumentsFailed = stats.NumberOfDocumentsFailed
	}
	return result
}
