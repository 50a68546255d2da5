package dto

import (
	emaildomain "triage-backend/internal/email/domain"
	"triage-backend/internal/email/usecase"
)

type SyncRequest struct {
	Limit         int  `json:"limit"`
	SimulateError bool `json:"simulate_error"`
}

type SyncResponse struct {
	Success          bool `json:"success"`
	Synced           int  `json:"synced"`
	Classified       int  `json:"classified"`
	RepliesGenerated int  `json:"replies_generated"`
}

type EmailsResponse struct {
	Emails []*emaildomain.Email `json:"emails"`
	Total  int                  `json:"total"`
}

type SendReplyRequest struct {
	Body string `json:"body"`
}

type ResetResponse struct {
	Success bool  `json:"success"`
	Deleted int64 `json:"deleted"`
}

type ProvidersResponse struct {
	Providers []usecase.ProviderStatus `json:"providers"`
}
