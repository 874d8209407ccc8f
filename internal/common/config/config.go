// internal/common/config/config.go
package config

import "fmt"

// Config is the main workbench configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Platform  PlatformConfig  `mapstructure:"platform"`
	Knowledge KnowledgeConfig `mapstructure:"knowledge"`
	Guardrail GuardrailConfig `mapstructure:"guardrail"`
	Agents    AgentsConfig    `mapstructure:"agents"`
	Warehouse WarehouseConfig `mapstructure:"warehouse"`
	Cost      CostConfig      `mapstructure:"cost"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	MetricsPort int    `mapstructure:"metrics_port"`
}

// PlatformConfig identifies the hosted RAG platform account.
type PlatformConfig struct {
	AccountID string `mapstructure:"account_id"`
	Region    string `mapstructure:"region"`
}

// KnowledgeConfig holds knowledge-base and retrieval settings.
type KnowledgeConfig struct {
	KnowledgeBaseID   string `mapstructure:"knowledge_base_id"`
	DataSourceID      string `mapstructure:"data_source_id"`
	EmbeddingModelID  string `mapstructure:"embedding_model_id"`
	GenerationModelID string `mapstructure:"generation_model_id"`
	StorageRoleArn    string `mapstructure:"storage_role_arn"`
	CollectionArn     string `mapstructure:"collection_arn"`
	VectorIndexName   string `mapstructure:"vector_index_name"`
	SourceBucket      string `mapstructure:"source_bucket"`
	SourcePrefix      string `mapstructure:"source_prefix"`

	TopK            int `mapstructure:"top_k"`
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`

	IngestPollSeconds    int `mapstructure:"ingest_poll_seconds"`
	IngestTimeoutSeconds int `mapstructure:"ingest_timeout_seconds"`
}

type GuardrailConfig struct {
	GuardrailID string `mapstructure:"guardrail_id"`
	Version     string `mapstructure:"version"`
}

// AgentsConfig lists the hosted agents the supervisor can route to.
type AgentsConfig struct {
	Collaborators []CollaboratorConfig `mapstructure:"collaborators"`
}

type CollaboratorConfig struct {
	Name     string   `mapstructure:"name"`
	AgentID  string   `mapstructure:"agent_id"`
	AliasID  string   `mapstructure:"alias_id"`
	Keywords []string `mapstructure:"keywords"`
}

// WarehouseConfig holds the managed SQL engine settings.
type WarehouseConfig struct {
	Bucket             string `mapstructure:"bucket"`
	DataPrefix         string `mapstructure:"data_prefix"`
	ResultsPrefix      string `mapstructure:"results_prefix"`
	Database           string `mapstructure:"database"`
	WorkGroup          string `mapstructure:"workgroup"`
	PollSeconds        int    `mapstructure:"poll_seconds"`
	QueryTimeoutSecond int    `mapstructure:"query_timeout_seconds"`
}

// CostConfig holds the token pricing table and report delivery settings.
type CostConfig struct {
	// Prices are USD per 1000 tokens, keyed by model id.
	InputPricePer1K  map[string]float64 `mapstructure:"input_price_per_1k"`
	OutputPricePer1K map[string]float64 `mapstructure:"output_price_per_1k"`

	ReportFromEmail string   `mapstructure:"report_from_email"`
	ReportToEmails  []string `mapstructure:"report_to_emails"`
	SNSTopicArn     string   `mapstructure:"sns_topic_arn"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
