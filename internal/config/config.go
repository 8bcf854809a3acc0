package config

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var ErrMissingRequired = errors.New("missing required configuration")

type Config struct {
	DBHost string `envconfig:"DB_HOST" default:"postgres"`
	DBPort int    `envconfig:"DB_PORT" default:"5432"`
	DBUser string `envconfig:"DB_USER" default:"talentflow"`
	DBPass string `envconfig:"DB_PASS" default:"password"`
	DBName string `envconfig:"DB_NAME" default:"talentflow"`

	NSQDHost   string `envconfig:"NSQD_HOST" default:"nsqd:4150"`
	NSQDHTTP   string `envconfig:"NSQD_HTTP" default:"nsqd:4151"`
	NSQLookupd string `envconfig:"NSQ_LOOKUPD" default:"nsqlookupd:4161"`

	WeaviateHost   string `envconfig:"WEAVIATE_HOST" default:"localhost:8080"`
	WeaviateScheme string `envconfig:"WEAVIATE_SCHEME" default:"http"`

	GeminiAPIKey   string `envconfig:"GEMINI_API_KEY"`
	GeminiModel    string `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
	EmbeddingModel string `envconfig:"EMBEDDING_MODEL" default:"gemini-embedding-001"`

	SMTPHost  string `envconfig:"SMTP_HOST" default:"smtp.example.com"`
	SMTPPort  int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser  string `envconfig:"SMTP_USER" default:"user@example.com"`
	SMTPPass  string `envconfig:"SMTP_PASSWORD" default:"password"`
	EmailFrom string `envconfig:"EMAIL_FROM" default:"hr@example.com"`
	Company   string `envconfig:"COMPANY_NAME" default:"Your Company"`

	// MatchThreshold gates both the persisted shortlisted flag and the
	// interview-invitation publish. There is exactly one threshold.
	MatchThreshold float64 `envconfig:"MATCH_THRESHOLD" default:"0.8"`

	JDInputDir     string `envconfig:"JD_INPUT_DIR" default:"data/job_descriptions"`
	ResumeInputDir string `envconfig:"RESUME_INPUT_DIR" default:"data/resumes"`

	MigrationPath string `envconfig:"MIGRATION_PATH" default:"file://migrations"`

	// Mode selection: any subset of workers can run in one process.
	EnableWatcher    bool `envconfig:"ENABLE_WATCHER" default:"true"`
	EnableSummarizer bool `envconfig:"ENABLE_SUMMARIZER" default:"true"`
	EnableParser     bool `envconfig:"ENABLE_PARSER" default:"true"`
	EnableMatcher    bool `envconfig:"ENABLE_MATCHER" default:"true"`
	EnableNotifier   bool `envconfig:"ENABLE_NOTIFIER" default:"true"`
	EnableIndexer    bool `envconfig:"ENABLE_INDEXER" default:"true"`

	// Resilience
	BootstrapRetryAttempts     int `envconfig:"BOOTSTRAP_RETRY_ATTEMPTS" default:"10"`
	BootstrapRetryDelaySeconds int `envconfig:"BOOTSTRAP_RETRY_DELAY_SECONDS" default:"2"`
	ShutdownGraceSeconds       int `envconfig:"SHUTDOWN_GRACE_SECONDS" default:"30"`
	OracleTimeoutSeconds       int `envconfig:"ORACLE_TIMEOUT_SECONDS" default:"60"`
}

func Load() (*Config, error) {
	// Env vars may be set in the shell; a missing .env is not an error.
	_ = godotenv.Load(".env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DBHost == "" {
		return fmt.Errorf("%w: DB_HOST", ErrMissingRequired)
	}
	if c.DBUser == "" {
		return fmt.Errorf("%w: DB_USER", ErrMissingRequired)
	}
	if c.DBName == "" {
		return fmt.Errorf("%w: DB_NAME", ErrMissingRequired)
	}
	if c.NSQDHost == "" {
		return fmt.Errorf("%w: NSQD_HOST", ErrMissingRequired)
	}
	if c.MatchThreshold < 0 || c.MatchThreshold > 1 {
		return fmt.Errorf("MATCH_THRESHOLD must be in [0,1], got %v", c.MatchThreshold)
	}
	return nil
}
