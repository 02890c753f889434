package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/medbook/rag/internal/platform/embedding"
)

// storedVectorDim is the width of the VECTOR columns in the migrations.
// Embedding models with a different output size would fail only at the
// first chunk insert, so reject them up front.
const storedVectorDim = 1536

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	OpenAIAPIKey    string `mapstructure:"OPENAI_API_KEY"`
	EmbeddingModel  string `mapstructure:"EMBEDDING_MODEL"`
	CompletionModel string `mapstructure:"COMPLETION_MODEL"`

	// NERMode selects the entity extraction backend: "rules" (local,
	// deterministic) or "llm" (completion-service backed).
	NERMode string `mapstructure:"NER_MODE"`

	ChunkSize    int `mapstructure:"CHUNK_SIZE"`
	ChunkOverlap int `mapstructure:"CHUNK_OVERLAP"`
	RetrievalK   int `mapstructure:"RETRIEVAL_K"`

	MaxUploadBytes    int64         `mapstructure:"MAX_UPLOAD_BYTES"`
	EmbedTimeout      time.Duration `mapstructure:"EMBED_TIMEOUT"`
	CompletionTimeout time.Duration `mapstructure:"COMPLETION_TIMEOUT"`
	RequestTimeout    time.Duration `mapstructure:"REQUEST_TIMEOUT"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "5001")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("EMBEDDING_MODEL", "text-embedding-3-small")
	v.SetDefault("COMPLETION_MODEL", "gpt-4o-mini")
	v.SetDefault("NER_MODE", "rules")
	v.SetDefault("CHUNK_SIZE", 1000)
	v.SetDefault("CHUNK_OVERLAP", 200)
	v.SetDefault("RETRIEVAL_K", 5)
	v.SetDefault("MAX_UPLOAD_BYTES", 10*1024*1024)
	v.SetDefault("EMBED_TIMEOUT", "30s")
	v.SetDefault("COMPLETION_TIMEOUT", "60s")
	v.SetDefault("REQUEST_TIMEOUT", "90s")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("EMBEDDING_MODEL")
	v.BindEnv("COMPLETION_MODEL")
	v.BindEnv("NER_MODE")
	v.BindEnv("CHUNK_SIZE")
	v.BindEnv("CHUNK_OVERLAP")
	v.BindEnv("RETRIEVAL_K")
	v.BindEnv("MAX_UPLOAD_BYTES")
	v.BindEnv("EMBED_TIMEOUT")
	v.BindEnv("COMPLETION_TIMEOUT")
	v.BindEnv("REQUEST_TIMEOUT")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run the server with.
// The embedding and completion clients require an API key, and the chunker
// contract requires chunk size strictly greater than overlap.
func (c *Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.NERMode != "rules" && c.NERMode != "llm" {
		return fmt.Errorf("NER_MODE must be \"rules\" or \"llm\", got %q", c.NERMode)
	}
	if dim := embedding.ModelDimension(c.EmbeddingModel); dim != storedVectorDim {
		return fmt.Errorf("EMBEDDING_MODEL %q produces %d-dim vectors, the schema stores %d",
			c.EmbeddingModel, dim, storedVectorDim)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must satisfy 0 <= overlap < CHUNK_SIZE, got %d", c.ChunkOverlap)
	}
	if c.RetrievalK <= 0 {
		return fmt.Errorf("RETRIEVAL_K must be positive, got %d", c.RetrievalK)
	}
	return nil
}
