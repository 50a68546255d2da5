package ai

import (
	"context"
	"errors"

	"triage-backend/pkg/gemini"
)

// geminiService adapts the Gemini REST client to TriageService.
type geminiService struct {
	client *gemini.Service
}

// NewGeminiService wraps a Gemini client as a TriageService.
func NewGeminiService(apiKey string) TriageService {
	return &geminiService{client: gemini.NewService(apiKey)}
}

func (s *geminiService) ClassifyEmail(ctx context.Context, subject, body, sender string) (*Classification, error) {
	result, err := s.client.ClassifyEmail(ctx, subject, body, sender)
	if err != nil {
		return nil, err
	}
	return &Classification{
		Category: result.Category,
		Priority: result.Priority,
		LeadFlag: result.LeadFlag,
		Entities: result.Entities,
	}, nil
}

func (s *geminiService) DraftReply(ctx context.Context, subject, body, category, priority string) (string, error) {
	text, err := s.client.DraftReply(ctx, subject, body, category, priority)
	if errors.Is(err, gemini.ErrNoReply) {
		return "", ErrNoReplyNeeded
	}
	return text, err
}
