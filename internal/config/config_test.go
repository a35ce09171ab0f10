package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Save original env and restore after test
	originalEnv := os.Environ()
	defer func() {
		os.Clearenv()
		for _, env := range originalEnv {
			// Parse and restore each env var
			for i, c := range env {
				if c == '=' {
					os.Setenv(env[:i], env[i+1:])
					break
				}
			}
		}
	}()

	// Clear env to test defaults
	os.Clearenv()

	cfg := Load()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Port", cfg.Port, 8080},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LogFormat", cfg.LogFormat, "json"},
		{"LLMProvider", cfg.LLMProvider, "openai"},
		{"OpenAIKey", cfg.OpenAIKey, "ollama"},
		{"OpenAIBaseURL", cfg.OpenAIBaseURL, "http://localhost:11434/v1"},
		{"LLMModel", cfg.LLMModel, "deepseek-r1:7b"},
		{"LLMTemperature", cfg.LLMTemperature, 0.1},
		{"LLMTimeout", cfg.LLMTimeout, 5 * time.Minute},
		{"RunTimeout", cfg.RunTimeout, 30 * time.Minute},
		{"MapConcurrency", cfg.MapConcurrency, 4},
		{"ReduceThreshold", cfg.ReduceThreshold, 0},
		{"ChunkWords", cfg.ChunkWords, 3000},
		{"CriteriaStore", cfg.CriteriaStore, "memory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %s=%v, got %v", tt.name, tt.expected, tt.got)
			}
		})
	}

	if len(cfg.LLMModels) != 2 || cfg.LLMModels[0] != "deepseek-r1:7b" || cfg.LLMModels[1] != "mistral" {
		t.Errorf("unexpected default models: %v", cfg.LLMModels)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LLM_TIMEOUT", "90s")
	t.Setenv("LLM_MODELS", "llama3,qwen2")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.LogLevel)
	}
	if cfg.LLMTimeout != 90*time.Second {
		t.Errorf("expected timeout 90s, got %s", cfg.LLMTimeout)
	}
	if len(cfg.LLMModels) != 2 || cfg.LLMModels[1] != "qwen2" {
		t.Errorf("expected models [llama3 qwen2], got %v", cfg.LLMModels)
	}
}

func TestLoadProviderOverrides(t *testing.T) {
	t.Setenv("CRITERIA_STORE", "redis")
	t.Setenv("OPENAI_BASE_URL", "https://api.openai.com/v1")

	cfg := Load()

	if cfg.CriteriaStore != "redis" {
		t.Errorf("expected criteria store 'redis', got %s", cfg.CriteriaStore)
	}
	if cfg.OpenAIBaseURL != "https://api.openai.com/v1" {
		t.Errorf("expected base url override, got %s", cfg.OpenAIBaseURL)
	}
}
