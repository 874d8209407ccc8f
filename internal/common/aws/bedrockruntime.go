// internal/common/aws/bedrockruntime.go
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// ModelClient wraps the hosted model-serving endpoint.
type ModelClient struct {
	client *bedrockruntime.Client
}

func NewModelClient(ctx context.Context, region string) (*ModelClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &ModelClient{client: bedrockruntime.NewFromConfig(cfg)}, nil
}

func (c *ModelClient) Converse(ctx context.Context, input *bedrockruntime.ConverseInput) (*bedrockruntime.ConverseOutput, error) {
	return c.client.Converse(ctx, input)
}
