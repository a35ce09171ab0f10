package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"doc-assistant/internal/config"
	"doc-assistant/internal/criteria"
	"doc-assistant/internal/llm"
	"doc-assistant/internal/logger"
	"doc-assistant/internal/pipeline"
)

// Deps bundles common runtime dependencies for the gateway and the CLI.
type Deps struct {
	Config   config.Config
	Log      *slog.Logger
	Criteria criteria.Store
	LLM      llm.Client
	Pipeline *pipeline.Pipeline
}

// Build loads env, config, and shared components, logging to stdout.
func Build() (Deps, error) {
	return build(os.Stdout)
}

// BuildCLI is Build with logs sent to stderr so command output stays clean.
func BuildCLI() (Deps, error) {
	return build(os.Stderr)
}

func build(logOut io.Writer) (Deps, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg := config.Load()
	log := logger.NewWithWriter(logOut, cfg.LogLevel, cfg.LogFormat)

	store, err := buildCriteriaStore(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize criteria store: %w", err)
	}
	llmClient, err := buildLLM(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize LLM: %w", err)
	}
	return Deps{
		Config:   cfg,
		Log:      log,
		Criteria: store,
		LLM:      llmClient,
		Pipeline: NewPipeline(cfg, llmClient, log),
	}, nil
}

// NewPipeline maps configuration onto pipeline options.
func NewPipeline(cfg config.Config, client llm.Client, log *slog.Logger) *pipeline.Pipeline {
	return pipeline.New(client, log, pipeline.Options{
		MapConcurrency:  cfg.MapConcurrency,
		ReduceThreshold: cfg.ReduceThreshold,
		ChunkWords:      cfg.ChunkWords,
		ChunkOverlap:    cfg.ChunkOverlap,
	})
}

func buildCriteriaStore(cfg config.Config, log *slog.Logger) (criteria.Store, error) {
	switch cfg.CriteriaStore {
	case "memory", "":
		log.Info("using in-memory criteria store")
		return criteria.NewMemoryStore(), nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when CRITERIA_STORE=redis")
		}
		st, err := criteria.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		log.Info("using Redis criteria store", "addr", cfg.RedisAddr)
		return st, nil
	case "postgres":
		if cfg.DBURL == "" {
			return nil, fmt.Errorf("DB_URL is required when CRITERIA_STORE=postgres")
		}
		st, err := criteria.NewPostgresStore(cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres: %w", err)
		}
		log.Info("using Postgres criteria store")
		return st, nil
	default:
		return nil, fmt.Errorf("invalid CRITERIA_STORE: %s (valid options: memory, redis, postgres)", cfg.CriteriaStore)
	}
}

func buildLLM(cfg config.Config, log *slog.Logger) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		client, err := llm.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.LLMTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
		}
		log.Info("using OpenAI-compatible LLM client", "base_url", cfg.OpenAIBaseURL, "model", cfg.LLMModel, "timeout", cfg.LLMTimeout)
		return client, nil
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid option: openai)", cfg.LLMProvider)
	}
}
