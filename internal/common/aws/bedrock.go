// internal/common/aws/bedrock.go
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrock"
)

// GuardrailAdminClient wraps the guardrail control-plane API.
type GuardrailAdminClient struct {
	client *bedrock.Client
}

func NewGuardrailAdminClient(ctx context.Context, region string) (*GuardrailAdminClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &GuardrailAdminClient{client: bedrock.NewFromConfig(cfg)}, nil
}

func (c *GuardrailAdminClient) CreateGuardrail(ctx context.Context, input *bedrock.CreateGuardrailInput) (*bedrock.CreateGuardrailOutput, error) {
	return c.client.CreateGuardrail(ctx, input)
}

func (c *GuardrailAdminClient) CreateGuardrailVersion(ctx context.Context, input *bedrock.CreateGuardrailVersionInput) (*bedrock.CreateGuardrailVersionOutput, error) {
	return c.client.CreateGuardrailVersion(ctx, input)
}
