package repository

import (
	"time"

	emaildomain "triage-backend/internal/email/domain"
)

// EmailFilter narrows List results. Nil/empty fields are ignored.
type EmailFilter struct {
	IsLead   *bool
	Category string
	Priority string
}

// EmailRepository owns persisted Email rows. Each mutation touches a single
// row and writes the status field together with its dependent fields in one
// atomic update, so a reader never observes a status without the fields
// that status implies.
type EmailRepository interface {
	Create(email *emaildomain.Email) error
	GetByID(id string) (*emaildomain.Email, error)
	GetByProviderID(providerID string) (*emaildomain.Email, error)
	List(filter EmailFilter) ([]*emaildomain.Email, error)

	// SaveClassification persists the four triage fields, advances the
	// status to classified and clears any prior reply draft, all in one
	// update. Allowed from any state (retriage).
	SaveClassification(id, category, priority string, leadFlag bool, entities emaildomain.EntityMap) error

	// SaveReply persists the draft and advances the status to
	// reply_generated.
	SaveReply(id, body string, generatedAt time.Time) error

	// MarkNoReplyNeeded advances the status without touching reply fields.
	MarkNoReplyNeeded(id string) error

	// MarkSent records the actually-sent body (which may differ from the
	// stored draft) and advances the status to reply_sent.
	MarkSent(id, sentBody string) error

	// DeleteAll bulk-clears the table and reports how many rows went away.
	DeleteAll() (int64, error)
}
