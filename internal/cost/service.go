// internal/cost/service.go
package cost

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rag-workbench/internal/common/errors"
	"rag-workbench/internal/common/logger"
	"rag-workbench/internal/common/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const bedrockNamespace = "AWS/Bedrock"

type monitoringAPI interface {
	GetMetricData(ctx context.Context, input *cloudwatch.GetMetricDataInput) (*cloudwatch.GetMetricDataOutput, error)
}

type mailAPI interface {
	SendPlainText(ctx context.Context, from string, to []string, subject, body string) error
}

type Config struct {
	Prices    PriceTable
	FromEmail string
	ToEmails  []string
}

type Service struct {
	config     *Config
	monitoring monitoringAPI
	mail       mailAPI
	history    *History
	logger     logger.Logger
}

// NewService wires the cost estimator. mail and history may be nil; the
// report is then only returned, not delivered or recorded.
func NewService(config *Config, monitoring monitoringAPI, mail mailAPI, history *History, log logger.Logger) *Service {
	if config.Prices.InputPer1K == nil {
		config.Prices = DefaultPriceTable()
	}
	return &Service{
		config:     config,
		monitoring: monitoring,
		mail:       mail,
		history:    history,
		logger:     log.WithFields(map[string]interface{}{"component": "cost"}),
	}
}

// Estimate sums the platform's token-count metrics per model over the
// window and prices them.
func (s *Service) Estimate(ctx context.Context, modelIDs []string, start, end time.Time) (*Report, error) {
	queries := make([]cwtypes.MetricDataQuery, 0, len(modelIDs)*2)
	for i, modelID := range modelIDs {
		queries = append(queries,
			tokenQuery(fmt.Sprintf("in%d", i), "InputTokenCount", modelID),
			tokenQuery(fmt.Sprintf("out%d", i), "OutputTokenCount", modelID),
		)
	}

	input := &cloudwatch.GetMetricDataInput{
		StartTime:         aws.Time(start),
		EndTime:           aws.Time(end),
		MetricDataQueries: queries,
	}

	// Results for one query id can span pages; keep summing until the
	// token runs out.
	totals := make(map[string]float64, len(queries))
	for {
		metrics.PlatformCalls.WithLabelValues("cloudwatch", "GetMetricData").Inc()
		out, err := s.monitoring.GetMetricData(ctx, input)
		if err != nil {
			metrics.PlatformCallErrors.WithLabelValues("cloudwatch", "GetMetricData", "error").Inc()
			return nil, errors.FromAWS("get metric data", err)
		}

		for _, r := range out.MetricDataResults {
			for _, v := range r.Values {
				totals[aws.ToString(r.Id)] += v
			}
		}

		if out.NextToken == nil {
			break
		}
		input.NextToken = out.NextToken
	}

	report := &Report{WindowStart: start, WindowEnd: end}
	for i, modelID := range modelIDs {
		usage := ModelUsage{
			ModelID:      modelID,
			InputTokens:  totals[fmt.Sprintf("in%d", i)],
			OutputTokens: totals[fmt.Sprintf("out%d", i)],
		}
		usage.CostUSD = s.config.Prices.Cost(modelID, usage.InputTokens, usage.OutputTokens)
		report.Models = append(report.Models, usage)
		report.TotalUSD += usage.CostUSD
	}

	s.logger.Info("cost report built", map[string]interface{}{
		"models":   len(report.Models),
		"totalUsd": report.TotalUSD,
	})

	if s.history != nil {
		if err := s.history.Record(ctx, report); err != nil {
			// History is best effort; the report itself already succeeded.
			s.logger.Warn("failed to record cost report", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return report, nil
}

// Email renders the report as plain text and sends it to the configured
// recipients.
func (s *Service) Email(ctx context.Context, report *Report) error {
	if s.mail == nil || len(s.config.ToEmails) == 0 {
		return errors.New(errors.ErrCodeConfigInvalid, "report email delivery is not configured", false)
	}

	metrics.PlatformCalls.WithLabelValues("ses", "SendEmail").Inc()
	subject := fmt.Sprintf("Token cost report %s", report.WindowEnd.Format("2006-01-02"))
	err := s.mail.SendPlainText(ctx, s.config.FromEmail, s.config.ToEmails, subject, Render(report))
	if err != nil {
		metrics.PlatformCallErrors.WithLabelValues("ses", "SendEmail", "error").Inc()
		return errors.FromAWS("send cost report email", err)
	}
	return nil
}

// Render formats the report for terminals and email bodies.
func Render(report *Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Usage %s to %s\n\n",
		report.WindowStart.Format(time.RFC3339), report.WindowEnd.Format(time.RFC3339))
	for _, m := range report.Models {
		fmt.Fprintf(&sb, "%-45s in=%10.0f out=%10.0f $%.4f\n",
			m.ModelID, m.InputTokens, m.OutputTokens, m.CostUSD)
	}
	fmt.Fprintf(&sb, "\nTotal: $%.4f\n", report.TotalUSD)
	return sb.String()
}

func tokenQuery(id, metricName, modelID string) cwtypes.MetricDataQuery {
	return cwtypes.MetricDataQuery{
		Id: aws.String(id),
		MetricStat: &cwtypes.MetricStat{
			Metric: &cwtypes.Metric{
				Namespace:  aws.String(bedrockNamespace),
				MetricName: aws.String(metricName),
				Dimensions: []cwtypes.Dimension{
					{Name: aws.String("ModelId"), Value: aws.String(modelID)},
				},
			},
			Period: aws.Int32(3600),
			Stat:   aws.String("Sum"),
		},
	}
}
