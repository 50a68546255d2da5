package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedService returns canned results, used as the Gemini side of the
// fallback pair.
type scriptedService struct {
	classification *Classification
	draft          string
	err            error
	calls          int
}

func (s *scriptedService) ClassifyEmail(ctx context.Context, subject, body, sender string) (*Classification, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.classification, nil
}

func (s *scriptedService) DraftReply(ctx context.Context, subject, body, category, priority string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.draft, nil
}

// newOllamaStub serves the /api/generate shape with a fixed response text.
func newOllamaStub(t *testing.T, response string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"response": response,
			"done":     true,
		})
	}))
}

func TestFallbackPrefersGemini(t *testing.T) {
	gemini := &scriptedService{classification: &Classification{Category: "SALES_LEAD", Priority: "HIGH", LeadFlag: true}}
	server := newOllamaStub(t, `{"category":"OTHER","priority":"LOW"}`)
	defer server.Close()

	svc := NewFallbackService(gemini, NewOllamaService(server.URL, "llama3"))

	c, err := svc.ClassifyEmail(context.Background(), "Demo", "body", "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "SALES_LEAD", c.Category)
	assert.Equal(t, 1, gemini.calls)
}

func TestFallbackToOllamaOnQuota(t *testing.T) {
	gemini := &scriptedService{err: errors.New("gemini API error (429): quota exceeded")}
	server := newOllamaStub(t, `{"lead_flag":false,"category":"SUPPORT_REQUEST","priority":"MEDIUM","entities":{}}`)
	defer server.Close()

	svc := NewFallbackService(gemini, NewOllamaService(server.URL, "llama3"))

	c, err := svc.ClassifyEmail(context.Background(), "Issue", "body", "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "SUPPORT_REQUEST", c.Category)
	assert.Equal(t, "MEDIUM", c.Priority)
}

func TestFallbackDraftNoReplyPassthrough(t *testing.T) {
	// The no-reply verdict is a result, not a failure; it must never
	// trigger a retry on the other provider.
	geminiNoReply := &noReplyService{}
	server := newOllamaStub(t, "Hello, thanks for writing in.")
	defer server.Close()

	svc := NewFallbackService(geminiNoReply, NewOllamaService(server.URL, "llama3"))

	_, err := svc.DraftReply(context.Background(), "Team meeting", "body", "INTERNAL", "LOW")
	assert.ErrorIs(t, err, ErrNoReplyNeeded)
	assert.Equal(t, 1, geminiNoReply.calls)
}

type noReplyService struct {
	calls int
}

func (s *noReplyService) ClassifyEmail(ctx context.Context, subject, body, sender string) (*Classification, error) {
	s.calls++
	return &Classification{Category: "INTERNAL", Priority: "LOW"}, nil
}

func (s *noReplyService) DraftReply(ctx context.Context, subject, body, category, priority string) (string, error) {
	s.calls++
	return "", ErrNoReplyNeeded
}

func TestIsQuotaError(t *testing.T) {
	assert.True(t, isQuotaError(errors.New("429 too many requests")))
	assert.True(t, isQuotaError(errors.New("quota exceeded for project")))
	assert.True(t, isQuotaError(errors.New("RESOURCE EXHAUSTED")))
	assert.False(t, isQuotaError(errors.New("connection refused")))
	assert.False(t, isQuotaError(nil))
}

func TestIsConnectionError(t *testing.T) {
	assert.True(t, isConnectionError(errors.New("dial tcp 127.0.0.1:11434: connection refused")))
	assert.True(t, isConnectionError(errors.New("no such host")))
	assert.False(t, isConnectionError(errors.New("quota exceeded")))
	assert.False(t, isConnectionError(nil))
}

func TestOllamaServiceParsesWrappedJSON(t *testing.T) {
	// Local models often wrap the JSON object in prose.
	server := newOllamaStub(t, "Sure! Here is the JSON:\n{\"lead_flag\":true,\"category\":\"SALES_LEAD\",\"priority\":\"HIGH\",\"entities\":{\"company\":\"bigcorp\"}}\nHope that helps.")
	defer server.Close()

	svc := NewOllamaService(server.URL, "llama3")
	c, err := svc.ClassifyEmail(context.Background(), "Demo", "body", "a@bigcorp.com")
	require.NoError(t, err)
	assert.True(t, c.LeadFlag)
	assert.Equal(t, "SALES_LEAD", c.Category)
	assert.Equal(t, "bigcorp", c.Entities["company"])
}

func TestOllamaServiceDraftNoReplySentinel(t *testing.T) {
	server := newOllamaStub(t, "NO_REPLY_NEEDED")
	defer server.Close()

	svc := NewOllamaService(server.URL, "llama3")
	_, err := svc.DraftReply(context.Background(), "Newsletter", "body", "OTHER", "LOW")
	assert.ErrorIs(t, err, ErrNoReplyNeeded)
}
