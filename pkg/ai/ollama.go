package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// OllamaService implements TriageService using a local Ollama LLM.
type OllamaService struct {
	baseURL string
	model   string
}

// NewOllamaService creates a new Ollama service
func NewOllamaService(baseURL, model string) *OllamaService {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3"
	}
	return &OllamaService{
		baseURL: baseURL,
		model:   model,
	}
}

// ClassifyEmail implements TriageService
func (o *OllamaService) ClassifyEmail(ctx context.Context, subject, body, sender string) (*Classification, error) {
	prompt := fmt.Sprintf(`You are an inbox triage assistant. Read the email and return ONLY a JSON object:
{"lead_flag": true|false, "category": "SALES_LEAD"|"SUPPORT_REQUEST"|"INTERNAL"|"OTHER", "priority": "HIGH"|"MEDIUM"|"LOW", "entities": {"sender_role": "...", "company": "..."}}

No text before or after the JSON.

From: %s
Subject: %s
Body: %s

JSON OUTPUT:`, sender, subject, body)

	text, err := o.generate(ctx, prompt, 200, 0.2)
	if err != nil {
		return nil, err
	}

	// Local models wrap JSON in prose more often than hosted ones.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("ollama returned no JSON object: %q", text)
	}

	var result Classification
	if err := json.Unmarshal([]byte(text[start:end+1]), &result); err != nil {
		return nil, fmt.Errorf("ollama returned malformed classification: %w", err)
	}
	return &result, nil
}

// DraftReply implements TriageService
func (o *OllamaService) DraftReply(ctx context.Context, subject, body, category, priority string) (string, error) {
	prompt := fmt.Sprintf(`You craft short, friendly first-response emails. Include a greeting, a one-line
summary, 1-2 clarifying questions, and a polite closing. Maximum 180 words.
If the email does not warrant a reply (internal announcements, newsletters,
automated receipts), answer with exactly: NO_REPLY_NEEDED

Category: %s
Priority: %s
Subject: %s
Body: %s

REPLY:`, category, priority, subject, body)

	text, err := o.generate(ctx, prompt, 400, 0.3)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if strings.Contains(text, "NO_REPLY_NEEDED") {
		return "", ErrNoReplyNeeded
	}
	return text, nil
}

func (o *OllamaService) generate(ctx context.Context, prompt string, numPredict int, temperature float64) (string, error) {
	url := o.baseURL + "/api/generate"

	payload := map[string]interface{}{
		"model":  o.model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]interface{}{
			"temperature": temperature,
			"num_predict": numPredict,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Response string `json:"response"`
		Done     bool   `json:"done"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return result.Response, nil
}
