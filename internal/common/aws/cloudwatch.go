// internal/common/aws/cloudwatch.go
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
)

// MonitoringClient wraps the metrics/monitoring API.
type MonitoringClient struct {
	client *cloudwatch.Client
}

func NewMonitoringClient(ctx context.Context, region string) (*MonitoringClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &MonitoringClient{client: cloudwatch.NewFromConfig(cfg)}, nil
}

func (c *MonitoringClient) GetMetricData(ctx context.Context, input *cloudwatch.GetMetricDataInput) (*cloudwatch.GetMetricDataOutput, error) {
	return c.client.GetMetricData(ctx, input)
}
