package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const generateURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent?key="

// ErrNoReply is returned by DraftReply when the model judges that the
// email does not warrant a response.
var ErrNoReply = errors.New("gemini: no reply needed")

// Classification is the raw triage verdict parsed from the model output.
type Classification struct {
	Category string                 `json:"category"`
	Priority string                 `json:"priority"`
	LeadFlag bool                   `json:"lead_flag"`
	Entities map[string]interface{} `json:"entities,omitempty"`
}

// Service talks to the Gemini generateContent REST API.
type Service struct {
	ApiKey string
}

func NewService(apiKey string) *Service {
	return &Service{ApiKey: apiKey}
}

// ClassifyEmail asks Gemini for a JSON triage verdict.
func (g *Service) ClassifyEmail(ctx context.Context, subject, body, sender string) (*Classification, error) {
	prompt := fmt.Sprintf(`You are an inbox triage assistant. Read the email below and return ONLY a JSON object with:
- "lead_flag" (true/false): whether this is a sales opportunity
- "category": one of SALES_LEAD, SUPPORT_REQUEST, INTERNAL, OTHER
- "priority": one of HIGH, MEDIUM, LOW
- "entities": object with sender_role and company when present

No markdown, no commentary, JSON only.

From: %s
Subject: %s
Body: %s`, sender, subject, body)

	text, err := g.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var result Classification
	if err := json.Unmarshal([]byte(extractJSON(text)), &result); err != nil {
		return nil, fmt.Errorf("gemini returned malformed classification: %w", err)
	}
	return &result, nil
}

// DraftReply asks Gemini for a short first-response draft. The model
// answers NO_REPLY_NEEDED for mail that doesn't warrant one.
func (g *Service) DraftReply(ctx context.Context, subject, body, category, priority string) (string, error) {
	prompt := fmt.Sprintf(`You craft short, friendly first-response emails. Include a greeting, a one-line
summary, 1-2 clarifying questions, and a polite closing. Do not exceed 180 words.
If the email does not warrant a reply (internal announcements, newsletters,
automated receipts), answer with exactly: NO_REPLY_NEEDED

Category: %s
Priority: %s
Subject: %s
Body: %s`, category, priority, subject, body)

	text, err := g.generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if strings.Contains(text, "NO_REPLY_NEEDED") {
		return "", ErrNoReply
	}
	return text, nil
}

func (g *Service) generate(ctx context.Context, prompt string) (string, error) {
	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, "POST", generateURL+g.ApiKey, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Gemini API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}

	// Parse generated text from response
	if c, ok := result["candidates"].([]interface{}); ok && len(c) > 0 {
		if cand, ok := c[0].(map[string]interface{}); ok {
			if content, ok := cand["content"].(map[string]interface{}); ok {
				if parts, ok := content["parts"].([]interface{}); ok && len(parts) > 0 {
					if part, ok := parts[0].(map[string]interface{}); ok {
						if text, ok := part["text"].(string); ok {
							return text, nil
						}
					}
				}
			}
		}
	}
	return "", fmt.Errorf("no content returned")
}

// extractJSON strips markdown code fences the model sometimes wraps
// around JSON output.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			return text[start : end+1]
		}
	}
	return text
}
