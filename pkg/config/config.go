package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string

	GmailUseMock      bool
	GmailClientID     string
	GmailClientSecret string
	GmailRefreshToken string
	GmailUserEmail    string

	AIProvider    string
	GeminiApiKey  string
	OllamaBaseURL string
	OllamaModel   string

	SyncLimit    int
	StageTimeout time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	syncLimit := 10
	if raw := os.Getenv("SYNC_LIMIT"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			syncLimit = parsed
		}
	}

	stageTimeout := 30 * time.Second
	if raw := os.Getenv("STAGE_TIMEOUT"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			stageTimeout = parsed
		}
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=triage port=5432 sslmode=disable"),

		GmailUseMock:      getEnvBool("GMAIL_USE_MOCK", true),
		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),
		GmailUserEmail:    getEnv("GMAIL_USER_EMAIL", ""),

		AIProvider:    getEnv("AI_PROVIDER", "auto"),
		GeminiApiKey:  getEnv("GEMINI_API_KEY", ""),
		OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:   getEnv("OLLAMA_MODEL", "llama3"),

		SyncLimit:    syncLimit,
		StageTimeout: stageTimeout,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
