package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration shared by the gateway and the CLI.
type Config struct {
	// Server
	Port      int    `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"` // "json" or "text"

	RunTimeout time.Duration `env:"RUN_TIMEOUT" envDefault:"30m"` // whole request, all model calls included

	// Upload limits
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"` // 32MB in bytes

	// LLM
	LLMProvider    string        `env:"LLM_PROVIDER" envDefault:"openai"` // any OpenAI-compatible endpoint, Ollama included
	OpenAIKey      string        `env:"OPENAI_API_KEY" envDefault:"ollama"`
	OpenAIBaseURL  string        `env:"OPENAI_BASE_URL" envDefault:"http://localhost:11434/v1"`
	LLMModel       string        `env:"LLM_MODEL" envDefault:"deepseek-r1:7b"`
	LLMModels      []string      `env:"LLM_MODELS" envSeparator:"," envDefault:"deepseek-r1:7b,mistral"`
	LLMTemperature float64       `env:"LLM_TEMPERATURE" envDefault:"0.1"`
	LLMTimeout     time.Duration `env:"LLM_TIMEOUT" envDefault:"5m"`

	// Map-reduce
	MapConcurrency  int `env:"MAP_CONCURRENCY" envDefault:"4"`
	ReduceThreshold int `env:"REDUCE_THRESHOLD" envDefault:"0"` // characters; partials at or below it are not reduced
	ChunkWords      int `env:"CHUNK_WORDS" envDefault:"3000"`
	ChunkOverlap    int `env:"CHUNK_OVERLAP" envDefault:"100"`

	// Criteria store
	CriteriaStore string `env:"CRITERIA_STORE" envDefault:"memory"` // "memory", "redis" or "postgres"
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	DBURL         string `env:"DB_URL"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
