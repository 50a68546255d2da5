package domain

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Processing status values. An email only moves forward along
// pending -> classified -> reply_generated|no_reply_needed -> reply_sent,
// except for retriage which re-enters "classified".
const (
	StatusPending        = "pending"
	StatusClassified     = "classified"
	StatusReplyGenerated = "reply_generated"
	StatusNoReplyNeeded  = "no_reply_needed"
	StatusReplySent      = "reply_sent"
)

// Category values produced by classification.
const (
	CategorySalesLead      = "SALES_LEAD"
	CategorySupportRequest = "SUPPORT_REQUEST"
	CategoryInternal       = "INTERNAL"
	CategoryOther          = "OTHER"
)

// Priority values produced by classification.
const (
	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
	PriorityLow    = "LOW"
)

// NormalizeCategory coerces an arbitrary model output into the known
// category set. Unknown values fall back to OTHER so classification never
// produces a partially-typed result.
func NormalizeCategory(raw string) string {
	switch raw {
	case CategorySalesLead, CategorySupportRequest, CategoryInternal, CategoryOther:
		return raw
	}
	return CategoryOther
}

// NormalizePriority coerces an arbitrary model output into the known
// priority set, falling back to MEDIUM.
func NormalizePriority(raw string) string {
	switch raw {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return raw
	}
	return PriorityMedium
}

// EntityMap is a custom type storing the open key-value entity map returned
// by the LLM as a JSON text column. Its shape is model-dependent, so it is
// stored and round-tripped without a schema.
type EntityMap map[string]interface{}

// Value implements driver.Valuer
func (m EntityMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner
func (m *EntityMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	if len(bytes) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// Email is the central triage entity. Fields up to ReceivedAt are immutable
// after ingestion; the triage and reply fields are owned by the pipeline
// stages.
type Email struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	ProviderID string    `json:"provider_id" gorm:"uniqueIndex;not null"`
	ThreadID   string    `json:"thread_id"`
	Sender     string    `json:"sender" gorm:"not null"`
	Recipients string    `json:"recipients"`
	CC         string    `json:"cc"`
	Subject    string    `json:"subject"`
	Snippet    string    `json:"snippet"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`

	ProcessingStatus  string     `json:"processing_status" gorm:"index;not null;default:pending"`
	Category          *string    `json:"category" gorm:"index"`
	Priority          *string    `json:"priority" gorm:"index"`
	LeadFlag          bool       `json:"lead_flag" gorm:"index;not null;default:false"`
	ExtractedEntities EntityMap  `json:"extracted_entities" gorm:"type:text"`
	SuggestedReply    *string    `json:"suggested_reply"`
	ReplyGeneratedAt  *time.Time `json:"reply_generated_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsClassified reports whether classification has produced triage fields.
func (e *Email) IsClassified() bool {
	return e.Category != nil
}
