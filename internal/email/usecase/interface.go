package usecase

import (
	"context"

	emaildomain "triage-backend/internal/email/domain"
	"triage-backend/internal/email/repository"
)

// SyncResult aggregates what one sync pass accomplished. Per-email
// classification or drafting failures reduce the counts but never fail
// the sync itself.
type SyncResult struct {
	Synced           int `json:"synced"`
	Classified       int `json:"classified"`
	RepliesGenerated int `json:"replies_generated"`
}

// ProviderStatus describes one configured backend for the status endpoint.
type ProviderStatus struct {
	Name    string            `json:"name"`
	Enabled bool              `json:"enabled"`
	Details map[string]string `json:"details,omitempty"`
}

// TriageUsecase is the pipeline surface consumed by the HTTP layer.
type TriageUsecase interface {
	// Sync ingests up to limit new messages, then classifies and drafts
	// replies for each newly created email. With simulateError set it
	// fails before touching the repository and writes nothing.
	Sync(ctx context.Context, limit int, simulateError bool) (*SyncResult, error)

	List(ctx context.Context, filter repository.EmailFilter) ([]*emaildomain.Email, error)
	Get(ctx context.Context, id string) (*emaildomain.Email, error)

	// Retriage re-runs classification (overwriting prior triage fields and
	// clearing any stale draft), then re-drafts a reply best-effort.
	Retriage(ctx context.Context, id string) (*emaildomain.Email, error)

	// GenerateReply drafts (or re-drafts) the suggested reply for a
	// classified email.
	GenerateReply(ctx context.Context, id string) (*emaildomain.Email, error)

	// Send dispatches exactly the given body (falling back to the stored
	// draft when empty) and records the sent text.
	Send(ctx context.Context, id, body string) (*emaildomain.Email, error)

	// Reset bulk-clears the email table and the mock provider counter.
	Reset(ctx context.Context) (int64, error)

	// Providers reports which mail/LLM backends are active.
	Providers() []ProviderStatus
}
