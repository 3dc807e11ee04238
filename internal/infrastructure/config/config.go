package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	JobStoreMemory   = "memory"
	JobStoreDynamoDB = "dynamodb"

	EmbeddingProviderOpenAI  = "openai"
	EmbeddingProviderHashing = "hashing"
)

// ConfigError reports an environment variable that could not be parsed.
type ConfigError struct {
	Key   string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s=%q: %v", e.Key, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s=%q", e.Key, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

type Config struct {
	Port    int
	LogMode string

	CatalogPath         string
	PricingWorkbookPath string
	RfpFeedPath         string
	RfpDueWithinDays    int

	JobStore  string
	JobsTable string

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	DynamoDBEndpoint   string

	PipelineWorkers     int
	PipelineQueueSize   int
	CallTimeout         time.Duration
	MatchMaxRetries     int
	MatchRetryInitial   time.Duration
	MatchTopK           int
	MaxRequirementLines int
	DefaultLineQuantity float64
	DefaultTestNames    []string

	AttributeMatchMinScore float64
	MatchSpecWeight        float64

	EmbeddingProvider string
	EmbeddingDims     int
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIModel       string
	OpenAIEmbedModel  string
	OpenAITimeout     time.Duration

	PackageDir string

	OtelEnabled     bool
	OtelSampleRatio float64

	CORSAllowOrigins []string
}

// Load reads the configuration from the environment.
//
// Supported env vars (defaults in parentheses):
//   - PORT (8080), LOG_MODE (dev)
//   - CATALOG_PATH, PRICING_WORKBOOK_PATH, RFP_FEED_PATH, RFP_DUE_WITHIN_DAYS (90)
//   - JOB_STORE (memory|dynamodb), JOBS_TABLE (rfp_jobs)
//   - AWS_REGION (us-east-1), AWS_ACCESS_KEY_ID (local), AWS_SECRET_ACCESS_KEY (local), DYNAMODB_ENDPOINT
//   - PIPELINE_WORKERS (4), PIPELINE_QUEUE_SIZE (64), PIPELINE_CALL_TIMEOUT_SECONDS (30)
//   - MATCH_MAX_RETRIES (2), MATCH_RETRY_INITIAL_MS (250), MATCH_TOP_K (3)
//   - MAX_REQUIREMENT_LINES (5), DEFAULT_LINE_QUANTITY (1000), DEFAULT_TEST_NAMES
//   - ATTRIBUTE_MATCH_MIN_SCORE (0.8), MATCH_SPEC_WEIGHT (0.8)
//   - EMBEDDING_PROVIDER (hashing without OPENAI_API_KEY, openai otherwise), EMBEDDING_DIMS (384)
//   - OPENAI_API_KEY, OPENAI_BASE_URL, OPENAI_MODEL, OPENAI_EMBED_MODEL, OPENAI_TIMEOUT_SECONDS (60)
//   - PACKAGE_DIR (./packages)
//   - OTEL_ENABLED (false), OTEL_SAMPLER_RATIO (1)
//   - CORS_ALLOW_ORIGINS (*)
func Load() (Config, error) {
	p := &parser{}
	cfg := Config{
		Port:    p.int("PORT", 8080),
		LogMode: getenvDefault("LOG_MODE", "dev"),

		CatalogPath:         strings.TrimSpace(os.Getenv("CATALOG_PATH")),
		PricingWorkbookPath: strings.TrimSpace(os.Getenv("PRICING_WORKBOOK_PATH")),
		RfpFeedPath:         strings.TrimSpace(os.Getenv("RFP_FEED_PATH")),
		RfpDueWithinDays:    p.int("RFP_DUE_WITHIN_DAYS", 90),

		JobStore:  strings.ToLower(getenvDefault("JOB_STORE", JobStoreMemory)),
		JobsTable: getenvDefault("JOBS_TABLE", "rfp_jobs"),

		AWSRegion:          getenvDefault("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getenvDefault("AWS_ACCESS_KEY_ID", "local"),
		AWSSecretAccessKey: getenvDefault("AWS_SECRET_ACCESS_KEY", "local"),
		DynamoDBEndpoint:   strings.TrimSpace(os.Getenv("DYNAMODB_ENDPOINT")),

		PipelineWorkers:     p.int("PIPELINE_WORKERS", 4),
		PipelineQueueSize:   p.int("PIPELINE_QUEUE_SIZE", 64),
		CallTimeout:         time.Duration(p.int("PIPELINE_CALL_TIMEOUT_SECONDS", 30)) * time.Second,
		MatchMaxRetries:     p.int("MATCH_MAX_RETRIES", 2),
		MatchRetryInitial:   time.Duration(p.int("MATCH_RETRY_INITIAL_MS", 250)) * time.Millisecond,
		MatchTopK:           p.int("MATCH_TOP_K", 3),
		MaxRequirementLines: p.int("MAX_REQUIREMENT_LINES", 5),
		DefaultLineQuantity: p.float("DEFAULT_LINE_QUANTITY", 1000),
		DefaultTestNames:    splitList(getenvDefault("DEFAULT_TEST_NAMES", "Quality Test,Performance Test,Safety Test")),

		AttributeMatchMinScore: p.float("ATTRIBUTE_MATCH_MIN_SCORE", 0.8),
		MatchSpecWeight:        p.float("MATCH_SPEC_WEIGHT", 0.8),

		EmbeddingDims:    p.int("EMBEDDING_DIMS", 384),
		OpenAIAPIKey:     strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL:    getenvDefault("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIModel:      getenvDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIEmbedModel: getenvDefault("OPENAI_EMBED_MODEL", "text-embedding-3-small"),
		OpenAITimeout:    time.Duration(p.int("OPENAI_TIMEOUT_SECONDS", 60)) * time.Second,

		PackageDir: getenvDefault("PACKAGE_DIR", "./packages"),

		OtelEnabled:     p.bool("OTEL_ENABLED", false),
		OtelSampleRatio: p.float("OTEL_SAMPLER_RATIO", 1),

		CORSAllowOrigins: splitList(getenvDefault("CORS_ALLOW_ORIGINS", "*")),
	}

	defaultProvider := EmbeddingProviderHashing
	if cfg.OpenAIAPIKey != "" {
		defaultProvider = EmbeddingProviderOpenAI
	}
	cfg.EmbeddingProvider = strings.ToLower(getenvDefault("EMBEDDING_PROVIDER", defaultProvider))

	if p.err != nil {
		return Config{}, p.err
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.JobStore {
	case JobStoreMemory, JobStoreDynamoDB:
	default:
		return &ConfigError{Key: "JOB_STORE", Value: c.JobStore}
	}
	switch c.EmbeddingProvider {
	case EmbeddingProviderHashing:
	case EmbeddingProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return &ConfigError{Key: "OPENAI_API_KEY", Value: "", Err: fmt.Errorf("required when EMBEDDING_PROVIDER=%s", EmbeddingProviderOpenAI)}
		}
	default:
		return &ConfigError{Key: "EMBEDDING_PROVIDER", Value: c.EmbeddingProvider}
	}
	positives := []struct {
		key string
		val int
	}{
		{"PORT", c.Port},
		{"PIPELINE_WORKERS", c.PipelineWorkers},
		{"PIPELINE_QUEUE_SIZE", c.PipelineQueueSize},
		{"MATCH_TOP_K", c.MatchTopK},
		{"MAX_REQUIREMENT_LINES", c.MaxRequirementLines},
		{"EMBEDDING_DIMS", c.EmbeddingDims},
		{"RFP_DUE_WITHIN_DAYS", c.RfpDueWithinDays},
	}
	for _, p := range positives {
		if p.val < 1 {
			return &ConfigError{Key: p.key, Value: strconv.Itoa(p.val), Err: fmt.Errorf("must be >= 1")}
		}
	}
	if c.MatchMaxRetries < 0 {
		return &ConfigError{Key: "MATCH_MAX_RETRIES", Value: strconv.Itoa(c.MatchMaxRetries), Err: fmt.Errorf("must be >= 0")}
	}
	if c.CallTimeout <= 0 {
		return &ConfigError{Key: "PIPELINE_CALL_TIMEOUT_SECONDS", Value: c.CallTimeout.String(), Err: fmt.Errorf("must be > 0")}
	}
	if c.DefaultLineQuantity < 0 {
		return &ConfigError{Key: "DEFAULT_LINE_QUANTITY", Value: strconv.FormatFloat(c.DefaultLineQuantity, 'f', -1, 64), Err: fmt.Errorf("must be >= 0")}
	}
	if c.AttributeMatchMinScore < 0 || c.AttributeMatchMinScore > 1 {
		return &ConfigError{Key: "ATTRIBUTE_MATCH_MIN_SCORE", Value: strconv.FormatFloat(c.AttributeMatchMinScore, 'f', -1, 64), Err: fmt.Errorf("must be within [0,1]")}
	}
	if c.MatchSpecWeight < 0 || c.MatchSpecWeight > 1 {
		return &ConfigError{Key: "MATCH_SPEC_WEIGHT", Value: strconv.FormatFloat(c.MatchSpecWeight, 'f', -1, 64), Err: fmt.Errorf("must be within [0,1]")}
	}
	return nil
}

// parser keeps the first parse error so Load can report it once.
type parser struct {
	err error
}

func (p *parser) int(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, raw, err)
		return def
	}
	return v
}

func (p *parser) float(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, raw, err)
		return def
	}
	return v
}

func (p *parser) bool(key string, def bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch raw {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	p.fail(key, raw, nil)
	return def
}

func (p *parser) fail(key, raw string, err error) {
	if p.err == nil {
		p.err = &ConfigError{Key: key, Value: raw, Err: err}
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
