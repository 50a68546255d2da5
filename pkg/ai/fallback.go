package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
)

// FallbackService routes triage calls between Gemini and Ollama:
// Gemini first (better structured output), Ollama when Gemini is
// quota-limited, Gemini again when Ollama is unreachable.
type FallbackService struct {
	gemini TriageService
	ollama *OllamaService
}

// NewFallbackService creates a new fallback service with both providers
func NewFallbackService(gemini TriageService, ollama *OllamaService) *FallbackService {
	return &FallbackService{
		gemini: gemini,
		ollama: ollama,
	}
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	connectionIndicators := []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"EOF",
	}

	for _, indicator := range connectionIndicators {
		if strings.Contains(errStr, strings.ToLower(indicator)) {
			return true
		}
	}

	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	quotaIndicators := []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
	}

	for _, indicator := range quotaIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}

// ClassifyEmail tries Gemini first, falls back to Ollama on quota errors.
func (f *FallbackService) ClassifyEmail(ctx context.Context, subject, body, sender string) (*Classification, error) {
	if f.gemini != nil {
		result, err := f.gemini.ClassifyEmail(ctx, subject, body, sender)
		if err == nil {
			return result, nil
		}
		if isQuotaError(err) {
			log.Printf("[AI] Gemini quota exhausted: %v, falling back to Ollama", err)
		} else {
			log.Printf("[AI] Gemini classification error: %v, falling back to Ollama", err)
		}
	}

	if f.ollama != nil {
		result, err := f.ollama.ClassifyEmail(ctx, subject, body, sender)
		if err == nil {
			return result, nil
		}
		if isConnectionError(err) && f.gemini != nil {
			log.Printf("[AI] Ollama connection failed: %v, retrying Gemini", err)
			return f.gemini.ClassifyEmail(ctx, subject, body, sender)
		}
		return nil, fmt.Errorf("ollama classification failed: %w", err)
	}

	return nil, fmt.Errorf("no AI provider available for classification")
}

// DraftReply tries Gemini first, falls back to Ollama on quota errors.
// The ErrNoReplyNeeded signal is passed through, never retried.
func (f *FallbackService) DraftReply(ctx context.Context, subject, body, category, priority string) (string, error) {
	if f.gemini != nil {
		result, err := f.gemini.DraftReply(ctx, subject, body, category, priority)
		if err == nil || errors.Is(err, ErrNoReplyNeeded) {
			return result, err
		}
		if isQuotaError(err) {
			log.Printf("[AI] Gemini quota exhausted: %v, falling back to Ollama", err)
		} else {
			log.Printf("[AI] Gemini draft error: %v, falling back to Ollama", err)
		}
	}

	if f.ollama != nil {
		result, err := f.ollama.DraftReply(ctx, subject, body, category, priority)
		if err == nil || errors.Is(err, ErrNoReplyNeeded) {
			return result, err
		}
		if isConnectionError(err) && f.gemini != nil {
			log.Printf("[AI] Ollama connection failed: %v, retrying Gemini", err)
			return f.gemini.DraftReply(ctx, subject, body, category, priority)
		}
		return "", fmt.Errorf("ollama draft failed: %w", err)
	}

	return "", fmt.Errorf("no AI provider available for reply drafting")
}
