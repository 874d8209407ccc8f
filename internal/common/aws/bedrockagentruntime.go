// internal/common/aws/bedrockagentruntime.go
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
)

// RetrievalClient wraps the knowledge-base data-plane API.
type RetrievalClient struct {
	client *bedrockagentruntime.Client
}

func NewRetrievalClient(ctx context.Context, region string) (*RetrievalClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &RetrievalClient{client: bedrockagentruntime.NewFromConfig(cfg)}, nil
}

func (c *RetrievalClient) Retrieve(ctx context.Context, input *bedrockagentruntime.RetrieveInput) (*bedrockagentruntime.RetrieveOutput, error) {
	return c.client.Retrieve(ctx, input)
}

func (c *RetrievalClient) RetrieveAndGenerate(ctx context.Context, input *bedrockagentruntime.RetrieveAndGenerateInput) (*bedrockagentruntime.RetrieveAndGenerateOutput, error) {
	return c.client.RetrieveAndGenerate(ctx, input)
}

func (c *RetrievalClient) InvokeAgent(ctx context.Context, input *bedrockagentruntime.InvokeAgentInput) (*bedrockagentruntime.InvokeAgentOutput, error) {
	return c.client.InvokeAgent(ctx, input)
}
