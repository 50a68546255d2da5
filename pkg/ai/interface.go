package ai

import (
	"context"
	"errors"
)

// ErrNoReplyNeeded is the signal returned by DraftReply when the email does
// not warrant a response (internal chatter, newsletters, receipts). The
// pipeline advances the email to no_reply_needed without storing a draft.
var ErrNoReplyNeeded = errors.New("no reply needed")

// Classification is the typed result of a triage call. Category and
// Priority carry raw model output; callers coerce them into the known sets.
type Classification struct {
	Category string                 `json:"category"`
	Priority string                 `json:"priority"`
	LeadFlag bool                   `json:"lead_flag"`
	Entities map[string]interface{} `json:"entities,omitempty"`
}

// TriageService is the interface for LLM-backed email triage.
// Implement this interface to add new AI providers (Gemini, Ollama, etc.)
type TriageService interface {
	// ClassifyEmail categorizes one email and extracts entities.
	ClassifyEmail(ctx context.Context, subject, body, sender string) (*Classification, error)

	// DraftReply produces a short first-response draft, or ErrNoReplyNeeded
	// when the classification context says none is warranted.
	DraftReply(ctx context.Context, subject, body, category, priority string) (string, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderMock   ProviderType = "mock"
	ProviderAuto   ProviderType = "auto"
)
