// internal/warehouse/service.go
package warehouse

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"rag-workbench/internal/arn"
	"rag-workbench/internal/common/errors"
	"rag-workbench/internal/common/logger"
	"rag-workbench/internal/common/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	athenatypes "github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type queryEngineAPI interface {
	StartQueryExecution(ctx context.Context, input *athena.StartQueryExecutionInput) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, input *athena.GetQueryExecutionInput) (*athena.GetQueryExecutionOutput, error)
	GetQueryResults(ctx context.Context, input *athena.GetQueryResultsInput) (*athena.GetQueryResultsOutput, error)
}

type objectStoreAPI interface {
	HeadBucket(ctx context.Context, input *s3.HeadBucketInput) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, input *s3.CreateBucketInput) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, input *s3.PutObjectInput) (*s3.PutObjectOutput, error)
}

type Config struct {
	Region        string
	Bucket        string
	DataPrefix    string
	ResultsPrefix string
	Database      string
	WorkGroup     string

	PollInterval time.Duration
	QueryTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.PollInterval == 0 {
		c.PollInterval = 2 * time.Second
	}
	if c.QueryTimeout == 0 {
		c.QueryTimeout = 5 * time.Minute
	}
	if c.ResultsPrefix == "" {
		c.ResultsPrefix = "athena-results/"
	}
}

type Service struct {
	config *Config
	engine queryEngineAPI
	store  objectStoreAPI
	logger logger.Logger
}

func NewService(config *Config, engine queryEngineAPI, store objectStoreAPI, log logger.Logger) *Service {
	config.applyDefaults()
	return &Service{
		config: config,
		engine: engine,
		store:  store,
		logger: log.WithFields(map[string]interface{}{"component": "warehouse"}),
	}
}

// EnsureBucket creates the staging bucket, treating "already exists/owned
// by you" as success.
func (s *Service) EnsureBucket(ctx context.Context) error {
	metrics.PlatformCalls.WithLabelValues("s3", "HeadBucket").Inc()
	if _, err := s.store.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.config.Bucket),
	}); err == nil {
		s.logger.Info("bucket already exists", map[string]interface{}{
			"bucket": s.config.Bucket,
		})
		return nil
	}

	metrics.PlatformCalls.WithLabelValues("s3", "CreateBucket").Inc()

	input := &s3.CreateBucketInput{
		Bucket: aws.String(s.config.Bucket),
	}
	// us-east-1 rejects an explicit location constraint.
	if s.config.Region != "" && s.config.Region != "us-east-1" {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(s.config.Region),
		}
	}

	if _, err := s.store.CreateBucket(ctx, input); err != nil {
		if errors.IsResourceExists(err) {
			s.logger.Info("bucket already exists", map[string]interface{}{
				"bucket": s.config.Bucket,
			})
			return nil
		}
		return errors.FromAWS("create bucket", err)
	}

	s.logger.Info("bucket created", map[string]interface{}{"bucket": s.config.Bucket})
	return nil
}

// UploadDataset stages a CSV under the data prefix and returns its s3 URI.
func (s *Service) UploadDataset(ctx context.Context, name string, csv []byte) (string, error) {
	key := strings.TrimSuffix(s.config.DataPrefix, "/") + "/" + name
	metrics.PlatformCalls.WithLabelValues("s3", "PutObject").Inc()

	_, err := s.store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(csv),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", errors.FromAWS("upload dataset", err)
	}

	uri := arn.S3URI(s.config.Bucket, key)
	s.logger.Info("dataset uploaded", map[string]interface{}{"uri": uri, "bytes": len(csv)})
	return uri, nil
}

// EnsureDatabase issues CREATE DATABASE IF NOT EXISTS on the engine.
func (s *Service) EnsureDatabase(ctx context.Context) error {
	ddl := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", s.config.Database)
	_, err := s.execute(ctx, ddl, "")
	if err != nil && !errors.IsResourceExists(err) {
		return err
	}
	return nil
}

// EnsureTable issues CREATE EXTERNAL TABLE IF NOT EXISTS from the spec.
func (s *Service) EnsureTable(ctx context.Context, spec TableSpec) error {
	cols := make([]string, 0, len(spec.Columns))
	for _, c := range spec.Columns {
		cols = append(cols, fmt.Sprintf("`%s` %s", c.Name, c.Type))
	}

	var props string
	if spec.SkipHeader {
		props = ` TBLPROPERTIES ('skip.header.line.count'='1')`
	}

	ddl := fmt.Sprintf(
		"CREATE EXTERNAL TABLE IF NOT EXISTS %s.%s (%s) "+
			"ROW FORMAT DELIMITED FIELDS TERMINATED BY ',' "+
			"STORED AS TEXTFILE LOCATION '%s'%s",
		s.config.Database, spec.Name, strings.Join(cols, ", "), spec.Location, props,
	)

	_, err := s.execute(ctx, ddl, s.config.Database)
	if err != nil && !errors.IsResourceExists(err) {
		return err
	}
	return nil
}

// Query runs a SQL statement to completion and unwraps the result rows.
func (s *Service) Query(ctx context.Context, sqlText string) (*ResultSet, error) {
	queryID, err := s.execute(ctx, sqlText, s.config.Database)
	if err != nil {
		return nil, err
	}
	return s.fetchResults(ctx, queryID)
}

// execute starts the statement and polls to a terminal state, returning
// the execution id on success.
func (s *Service) execute(ctx context.Context, sqlText, database string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	metrics.PlatformCalls.WithLabelValues("athena", "StartQueryExecution").Inc()

	input := &athena.StartQueryExecutionInput{
		QueryString: aws.String(sqlText),
		ResultConfiguration: &athenatypes.ResultConfiguration{
			OutputLocation: aws.String(arn.S3URI(s.config.Bucket, s.config.ResultsPrefix)),
		},
	}
	if database != "" {
		input.QueryExecutionContext = &athenatypes.QueryExecutionContext{
			Database: aws.String(database),
		}
	}
	if s.config.WorkGroup != "" {
		input.WorkGroup = aws.String(s.config.WorkGroup)
	}

	started, err := s.engine.StartQueryExecution(ctx, input)
	if err != nil {
		metrics.PlatformCallErrors.WithLabelValues("athena", "StartQueryExecution", "error").Inc()
		return "", errors.FromAWS("start query execution", err)
	}
	queryID := aws.ToString(started.QueryExecutionId)

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		out, err := s.engine.GetQueryExecution(ctx, &athena.GetQueryExecutionInput{
			QueryExecutionId: aws.String(queryID),
		})
		if err != nil {
			return queryID, errors.FromAWS("get query execution", err)
		}
		metrics.PollCycles.WithLabelValues("query").Inc()

		status := out.QueryExecution.Status
		switch status.State {
		case athenatypes.QueryExecutionStateSucceeded:
			return queryID, nil
		case athenatypes.QueryExecutionStateFailed:
			reason := aws.ToString(status.StateChangeReason)
			if strings.Contains(reason, "already exists") {
				return queryID, errors.NewResourceExistsError("table or database", nil)
			}
			return queryID, errors.NewQueryFailedError(queryID, reason)
		case athenatypes.QueryExecutionStateCancelled:
			return queryID, errors.New(errors.ErrCodeQueryCancelled, "query was cancelled", false)
		}

		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return queryID, errors.Wrap(errors.ErrCodeQueryTimeout, "query wait timed out", true, ctx.Err())
			}
			return queryID, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Service) fetchResults(ctx context.Context, queryID string) (*ResultSet, error) {
	result := &ResultSet{QueryExecutionID: queryID}

	var nextToken *string
	first := true
	for {
		metrics.PlatformCalls.WithLabelValues("athena", "GetQueryResults").Inc()
		out, err := s.engine.GetQueryResults(ctx, &athena.GetQueryResultsInput{
			QueryExecutionId: aws.String(queryID),
			NextToken:        nextToken,
		})
		if err != nil {
			return nil, errors.FromAWS("get query results", err)
		}

		rows := out.ResultSet.Rows
		if first && len(rows) > 0 {
			// First row of the first page is the header.
			result.Columns = unwrapRow(rows[0])
			rows = rows[1:]
			first = false
		}
		for _, row := range rows {
			result.Rows = append(result.Rows, unwrapRow(row))
		}

		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}

	s.logger.Info("query results fetched", map[string]interface{}{
		"queryExecutionId": queryID,
		"rows":             len(result.Rows),
	})
	return result, nil
}

func unwrapRow(row athenatypes.Row) []string {
	out := make([]string, 0, len(row.Data))
	for _, d := range row.Data {
		out = append(out, aws.ToString(d.VarCharValue))
	}
	return out
}
