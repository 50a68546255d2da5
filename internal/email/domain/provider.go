package domain

import (
	"context"
	"time"
)

// IncomingMessage is a normalized message as fetched from the mail backend,
// before it becomes a stored Email.
type IncomingMessage struct {
	ProviderID string
	ThreadID   string
	Sender     string
	Recipients []string
	CC         []string
	Subject    string
	Snippet    string
	Body       string
	ReceivedAt time.Time
}

// OutgoingReply carries exactly the text the operator approved. The send
// stage must dispatch it verbatim.
type OutgoingReply struct {
	To       string
	Subject  string
	Body     string
	ThreadID string
}

// MailProvider is the capability interface over the mail backend. Both the
// real Gmail service and the deterministic mock implement it; the pipeline
// receives it by injection so tests can substitute fakes.
type MailProvider interface {
	// FetchMessages returns up to limit recent inbox messages.
	FetchMessages(ctx context.Context, limit int) ([]*IncomingMessage, error)

	// SendReply dispatches the reply. Failures are reported as
	// *AuthScopeError when the backend lacks send permission, otherwise as
	// *ProviderError.
	SendReply(ctx context.Context, reply *OutgoingReply) error

	// Name is the display name used by the provider status endpoint.
	Name() string
}

// FailureSimulator is implemented by providers that support forced-failure
// injection for operational testing of the sync path.
type FailureSimulator interface {
	SetSimulateError(enabled bool)
}

// Resettable is implemented by providers whose generated state (the mock
// message counter) should be cleared by the bulk reset operation.
type Resettable interface {
	ResetCounter()
}
