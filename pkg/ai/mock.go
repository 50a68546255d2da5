package ai

import (
	"context"
	"fmt"
	"strings"
)

// MockService is a deterministic TriageService used when no real model is
// configured and in tests. It mirrors the verdicts the mock inbox
// templates are written to produce.
type MockService struct{}

func NewMockService() *MockService {
	return &MockService{}
}

func (m *MockService) ClassifyEmail(ctx context.Context, subject, body, sender string) (*Classification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := strings.ToLower(subject + " " + body)

	c := &Classification{
		Category: "OTHER",
		Priority: "LOW",
		Entities: map[string]interface{}{},
	}
	if company := senderDomain(sender); company != "" {
		c.Entities["company"] = company
	}

	switch {
	case containsAny(text, "demo", "pricing", "enterprise", "interested in", "learn more"):
		c.Category = "SALES_LEAD"
		c.Priority = "HIGH"
		c.LeadFlag = true
		c.Entities["sender_role"] = "prospect"
	case containsAny(text, "issue", "bug", "trouble", "error", "help", "reset"):
		c.Category = "SUPPORT_REQUEST"
		c.Priority = "MEDIUM"
		c.Entities["sender_role"] = "customer"
	case containsAny(text, "meeting", "report", "reminder", "review"):
		c.Category = "INTERNAL"
		c.Priority = "LOW"
		c.Entities["sender_role"] = "colleague"
	}

	return c, nil
}

func (m *MockService) DraftReply(ctx context.Context, subject, body, category, priority string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Internal chatter and everything uncategorized gets no reply, same
	// rule the real prompts encode.
	if category == "INTERNAL" || category == "OTHER" {
		return "", ErrNoReplyNeeded
	}

	greeting := "Hi,"
	closing := "Best regards"
	switch category {
	case "SALES_LEAD":
		return fmt.Sprintf("%s\n\nThanks for reaching out about %q. I'd be happy to walk you through what we offer. Could you share a bit about your team size and timeline?\n\n%s", greeting, subject, closing), nil
	case "SUPPORT_REQUEST":
		return fmt.Sprintf("%s\n\nSorry you're running into trouble. We're looking at %q now. Could you tell us when the problem started and what you see on screen?\n\n%s", greeting, subject, closing), nil
	}
	return fmt.Sprintf("%s\n\nThanks for your message about %q. We'll get back to you shortly.\n\n%s", greeting, subject, closing), nil
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func senderDomain(sender string) string {
	at := strings.LastIndex(sender, "@")
	if at < 0 {
		return ""
	}
	domain := strings.TrimRight(sender[at+1:], ">")
	if dot := strings.LastIndex(domain, "."); dot > 0 {
		domain = domain[:dot]
	}
	return domain
}
