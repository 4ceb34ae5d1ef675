package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string

	LLMProvider    string // anthropic, openai, ollama
	AnthropicKey   string // API key (X-Api-Key header)
	AnthropicToken string // OAuth token (Authorization: Bearer header)
	OpenAIKey      string
	LLMModel       string
	OllamaBaseURL  string

	DBDSN        string // MySQL DSN; empty means local sqlite
	DatabasePath string

	MemoryMaxTokens     int
	MaxToolRounds       int
	LLMTimeoutSeconds   int
	TotalTimeoutSeconds int

	SessionSweepCron   string
	SessionIdleMinutes int
}

func Load() *Config {
	_ = godotenv.Load() // ignore error if no .env

	return &Config{
		HTTPAddr: envOr("HTTP_ADDR", ":8080"),

		LLMProvider:    envOr("LLM_PROVIDER", "openai"),
		AnthropicKey:   os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicToken: os.Getenv("ANTHROPIC_AUTH_TOKEN"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		LLMModel:       os.Getenv("LLM_MODEL"),
		OllamaBaseURL:  envOr("OLLAMA_BASE_URL", "http://localhost:11434/v1"),

		DBDSN:        os.Getenv("DB_DSN"),
		DatabasePath: envOr("DATABASE_PATH", "./vendafacil.db"),

		MemoryMaxTokens:     envIntOr("MEMORY_MAX_TOKENS", 5000),
		MaxToolRounds:       envIntOr("AGENT_MAX_TOOL_ROUNDS", 8),
		LLMTimeoutSeconds:   envIntOr("AGENT_LLM_TIMEOUT_SECONDS", 60),
		TotalTimeoutSeconds: envIntOr("AGENT_TOTAL_TIMEOUT_SECONDS", 120),

		SessionSweepCron:   envOr("SESSION_SWEEP_CRON", "*/30 * * * *"),
		SessionIdleMinutes: envIntOr("SESSION_IDLE_MINUTES", 120),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
