// internal/common/aws/bedrockagent.go
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
)

// KnowledgeBaseAdminClient wraps the knowledge-base control-plane API.
type KnowledgeBaseAdminClient struct {
	client *bedrockagent.Client
}

func NewKnowledgeBaseAdminClient(ctx context.Context, region string) (*KnowledgeBaseAdminClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &KnowledgeBaseAdminClient{client: bedrockagent.NewFromConfig(cfg)}, nil
}

func (c *KnowledgeBaseAdminClient) CreateKnowledgeBase(ctx context.Context, input *bedrockagent.CreateKnowledgeBaseInput) (*bedrockagent.CreateKnowledgeBaseOutput, error) {
	return c.client.CreateKnowledgeBase(ctx, input)
}

func (c *KnowledgeBaseAdminClient) CreateDataSource(ctx context.Context, input *bedrockagent.CreateDataSourceInput) (*bedrockagent.CreateDataSourceOutput, error) {
	return c.client.CreateDataSource(ctx, input)
}

func (c *KnowledgeBaseAdminClient) StartIngestionJob(ctx context.Context, input *bedrockagent.StartIngestionJobInput) (*bedrockagent.StartIngestionJobOutput, error) {
	return c.client.StartIngestionJob(ctx, input)
}

func (c *KnowledgeBaseAdminClient) GetIngestionJob(ctx context.Context, input *bedrockagent.GetIngestionJobInput) (*bedrockagent.GetIngestionJobOutput, error) {
	return c.client.GetIngestionJob(ctx, input)
}
