package app

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doc-assistant/internal/config"
	"doc-assistant/internal/criteria"
	"doc-assistant/internal/llm"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestBuildCriteriaStore(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr string
	}{
		{"memory", config.Config{CriteriaStore: "memory"}, ""},
		{"empty defaults to memory", config.Config{}, ""},
		{"redis without addr", config.Config{CriteriaStore: "redis"}, "REDIS_ADDR is required"},
		{"postgres without url", config.Config{CriteriaStore: "postgres"}, "DB_URL is required"},
		{"unknown", config.Config{CriteriaStore: "etcd"}, "invalid CRITERIA_STORE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := buildCriteriaStore(tt.cfg, discard)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, &criteria.MemoryStore{}, st)
		})
	}
}

func TestBuildLLM(t *testing.T) {
	client, err := buildLLM(config.Config{LLMProvider: "openai", OpenAIKey: "ollama", OpenAIBaseURL: "http://localhost:11434/v1"}, discard)
	require.NoError(t, err)
	assert.IsType(t, &llm.OpenAIClient{}, client)

	_, err = buildLLM(config.Config{LLMProvider: "openai"}, discard)
	assert.Error(t, err)

	_, err = buildLLM(config.Config{LLMProvider: "anthropic", OpenAIKey: "k"}, discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid LLM_PROVIDER")
}
