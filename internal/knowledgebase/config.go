// internal/knowledgebase/config.go
package knowledgebase

import "time"

type Config struct {
	EmbeddingModelArn string
	StorageRoleArn    string
	CollectionArn     string
	VectorIndexName   string
	SourceBucketArn   string
	SourcePrefix      string

	PollInterval  time.Duration
	IngestTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.PollInterval == 0 {
		c.PollInterval = 10 * time.Second
	}
	if c.IngestTimeout == 0 {
		c.IngestTimeout = 30 * time.Minute
	}
	if c.VectorIndexName == "" {
		c.VectorIndexName = "bedrock-knowledge-base-default-index"
	}
}
