// internal/common/aws/athena.go
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/athena"
)

// QueryEngineClient wraps the interactive SQL query engine.
type QueryEngineClient struct {
	client *athena.Client
}

func NewQueryEngineClient(ctx context.Context, region string) (*QueryEngineClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &QueryEngineClient{client: athena.NewFromConfig(cfg)}, nil
}

func (c *QueryEngineClient) StartQueryExecution(ctx context.Context, input *athena.StartQueryExecutionInput) (*athena.StartQueryExecutionOutput, error) {
	return c.client.StartQueryExecution(ctx, input)
}

func (c *QueryEngineClient) GetQueryExecution(ctx context.Context, input *athena.GetQueryExecutionInput) (*athena.GetQueryExecutionOutput, error) {
	return c.client.GetQueryExecution(ctx, input)
}

func (c *QueryEngineClient) GetQueryResults(ctx context.Context, input *athena.GetQueryResultsInput) (*athena.GetQueryResultsOutput, error) {
	return c.client.GetQueryResults(ctx, input)
}
