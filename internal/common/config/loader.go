// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"rag-workbench/internal/common/errors"
	"rag-workbench/internal/common/validation"
)

var accountIDPattern = regexp.MustCompile(`^\d{12}$`)

func Load() (*Config, error) {
	viper.Reset()
	loadEnvFile()

	// Base config: a flat JSON document of account/region/resource ids,
	// the same shape the platform console exports.
	viper.SetConfigName("workbench")
	viper.SetConfigType("json")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like PLATFORM_ACCOUNT_ID
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	} else if err := validateDocument(viper.ConfigFileUsed()); err != nil {
		return nil, err
	}

	// Environment overlay, e.g. workbench.production.json
	viper.SetConfigName(fmt.Sprintf("workbench.%s", env))
	_ = viper.MergeInConfig() // ignore error if not found

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the usual locations relative to wherever the
// process was started (repo root, package dir, test dir).
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "rag-workbench"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.App.MetricsPort == 0 {
		cfg.App.MetricsPort = 9464
	}
	if cfg.Platform.Region == "" {
		cfg.Platform.Region = "us-east-1"
	}
	if cfg.Knowledge.TopK == 0 {
		cfg.Knowledge.TopK = 5
	}
	if cfg.Knowledge.CacheTTLSeconds == 0 {
		cfg.Knowledge.CacheTTLSeconds = 300
	}
	if cfg.Knowledge.IngestPollSeconds == 0 {
		cfg.Knowledge.IngestPollSeconds = 10
	}
	if cfg.Knowledge.IngestTimeoutSeconds == 0 {
		cfg.Knowledge.IngestTimeoutSeconds = 1800
	}
	if cfg.Warehouse.PollSeconds == 0 {
		cfg.Warehouse.PollSeconds = 2
	}
	if cfg.Warehouse.QueryTimeoutSecond == 0 {
		cfg.Warehouse.QueryTimeoutSecond = 300
	}
	if cfg.Warehouse.ResultsPrefix == "" {
		cfg.Warehouse.ResultsPrefix = "athena-results/"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
}

// validateDocument checks the raw config file against the schema before
// viper coerces any types, so out-of-range values fail with their JSON
// field path instead of an unmarshal error.
func validateDocument(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config document %s: %w", path, err)
	}

	result, err := validation.ValidateConfigDocument(raw)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfigInvalid, "config schema check failed to run", false, err)
	}
	if !result.Valid {
		msgs := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field, e.Message))
		}
		return errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("%s failed schema validation: %s", filepath.Base(path), strings.Join(msgs, "; ")), false)
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if cfg.Platform.AccountID == "" {
		return fmt.Errorf("platform.account_id is required")
	}
	if !accountIDPattern.MatchString(cfg.Platform.AccountID) {
		return fmt.Errorf("platform.account_id must be a 12-digit account number, got %q", cfg.Platform.AccountID)
	}
	if cfg.Platform.Region == "" {
		return fmt.Errorf("platform.region is required")
	}
	for i, c := range cfg.Agents.Collaborators {
		if c.Name == "" || c.AgentID == "" || c.AliasID == "" {
			return fmt.Errorf("agents.collaborators[%d]: name, agent_id and alias_id are all required", i)
		}
	}
	return nil
}
