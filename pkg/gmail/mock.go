package gmail

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	emaildomain "triage-backend/internal/email/domain"
)

// mockTemplate is one synthetic inbox message. The set covers every
// classification bucket so a fresh sync exercises the whole pipeline.
type mockTemplate struct {
	sender  string
	subject string
	snippet string
	body    string
}

var mockTemplates = []mockTemplate{
	// Sales leads
	{
		sender:  "prospect@example.com",
		subject: "Demo inquiry",
		snippet: "Interested in automation services",
		body:    "Hello, we would like to learn more about your AI automation offerings. Can we schedule a demo?",
	},
	{
		sender:  "buyer@company.com",
		subject: "Pricing information request",
		snippet: "Looking for pricing details",
		body:    "Hi, I'm interested in your product. Could you send me pricing information?",
	},
	// Support requests
	{
		sender:  "customer@example.com",
		subject: "Issue with my account",
		snippet: "Having trouble logging in",
		body:    "I'm having trouble logging into my account. Can you help me reset my password?",
	},
	{
		sender:  "user@example.com",
		subject: "Bug report",
		snippet: "Found a bug in the system",
		body:    "I found a bug when trying to export data. The export button doesn't work.",
	},
	// Internal
	{
		sender:  "colleague@company.com",
		subject: "Team meeting tomorrow",
		snippet: "Reminder about the meeting",
		body:    "Just a reminder that we have a team meeting tomorrow at 2 PM.",
	},
	{
		sender:  "manager@company.com",
		subject: "Weekly report",
		snippet: "Please review the report",
		body:    "Please review the weekly report and provide feedback by Friday.",
	},
	// Other
	{
		sender:  "newsletter@example.com",
		subject: "Weekly newsletter",
		snippet: "Your weekly digest",
		body:    "Here's your weekly newsletter with the latest updates.",
	},
	{
		sender:  "noreply@example.com",
		subject: "Your order has shipped",
		snippet: "Order confirmation",
		body:    "Your order #12345 has been shipped and will arrive in 3-5 business days.",
	},
	{
		sender:  "decision-maker@bigcorp.com",
		subject: "Enterprise inquiry",
		snippet: "Interested in enterprise solution",
		body:    "We're evaluating solutions for our enterprise. Can we discuss your enterprise features?",
	},
	{
		sender:  "support-seeker@startup.io",
		subject: "Help with integration",
		snippet: "Integration trouble",
		body:    "We're having trouble integrating your API. The webhook endpoint keeps timing out.",
	},
}

// MockProvider is a deterministic MailProvider. Each fetch hands out the
// next batch of templates with fresh provider ids, so repeated syncs keep
// producing new upstream messages until ResetCounter is called. Supports
// forced-failure injection for the sync error-simulation mode.
type MockProvider struct {
	mu            sync.Mutex
	counter       int
	simulateError bool
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) Name() string {
	return "gmail-mock"
}

// SetSimulateError arms or disarms failure injection for the next fetch.
func (m *MockProvider) SetSimulateError(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.simulateError = enabled
}

// ResetCounter restarts provider id numbering; used by the bulk reset so a
// fresh sync repopulates the cleared table.
func (m *MockProvider) ResetCounter() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter = 0
}

func (m *MockProvider) FetchMessages(ctx context.Context, limit int) ([]*emaildomain.IncomingMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.simulateError {
		return nil, &emaildomain.ProviderError{Provider: m.Name(), Op: "fetch", Err: emaildomain.ErrSimulatedFailure}
	}
	if err := ctx.Err(); err != nil {
		return nil, &emaildomain.ProviderError{Provider: m.Name(), Op: "fetch", Err: err}
	}

	now := time.Now().UTC()
	messages := make([]*emaildomain.IncomingMessage, 0, limit)
	for i := 0; i < limit; i++ {
		tpl := mockTemplates[m.counter%len(mockTemplates)]
		m.counter++
		messages = append(messages, &emaildomain.IncomingMessage{
			ProviderID: fmt.Sprintf("mock-msg-%04d", m.counter),
			ThreadID:   fmt.Sprintf("mock-thread-%04d", m.counter),
			Sender:     tpl.sender,
			Recipients: []string{"me@triage.local"},
			Subject:    tpl.subject,
			Snippet:    tpl.snippet,
			Body:       tpl.body,
			ReceivedAt: now.Add(-time.Duration(limit-i) * time.Minute),
		})
	}
	return messages, nil
}

func (m *MockProvider) SendReply(ctx context.Context, reply *emaildomain.OutgoingReply) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.simulateError {
		return &emaildomain.ProviderError{Provider: m.Name(), Op: "send", Err: emaildomain.ErrSimulatedFailure}
	}
	if err := ctx.Err(); err != nil {
		return &emaildomain.ProviderError{Provider: m.Name(), Op: "send", Err: err}
	}

	log.Printf("[MockGmail] would send reply to %s: %.50s", reply.To, reply.Subject)
	return nil
}
