package ai

import "fmt"

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType // "gemini", "ollama", "mock" or "auto"

	// Gemini config
	GeminiAPIKey string

	// Ollama config
	OllamaBaseURL string // e.g., "http://localhost:11434"
	OllamaModel   string // e.g., "llama3", "mistral"
}

// NewTriageService creates a TriageService based on the config and reports
// which provider was resolved. Switch AI provider by changing
// config.Provider.
func NewTriageService(cfg Config) (TriageService, string, error) {
	switch cfg.Provider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, "", fmt.Errorf("gemini provider requires GEMINI_API_KEY")
		}
		return NewGeminiService(cfg.GeminiAPIKey), string(ProviderGemini), nil

	case ProviderOllama:
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel), string(ProviderOllama), nil

	case ProviderMock:
		return NewMockService(), string(ProviderMock), nil

	case ProviderAuto, "":
		// Auto: prefer Gemini when a key is present, fall back between the
		// two real providers at call time, and use the deterministic mock
		// when nothing is configured.
		if cfg.GeminiAPIKey != "" {
			svc := NewFallbackService(
				NewGeminiService(cfg.GeminiAPIKey),
				NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel),
			)
			return svc, "gemini+ollama", nil
		}
		if cfg.OllamaBaseURL != "" {
			return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel), string(ProviderOllama), nil
		}
		return NewMockService(), string(ProviderMock), nil

	default:
		return nil, "", fmt.Errorf("unknown AI provider: %s", cfg.Provider)
	}
}
