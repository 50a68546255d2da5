package repository

import (
	"time"

	emaildomain "triage-backend/internal/email/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// emailRepository implements EmailRepository on top of GORM.
type emailRepository struct {
	db *gorm.DB
}

// NewEmailRepository creates a new instance of emailRepository
func NewEmailRepository(db *gorm.DB) EmailRepository {
	return &emailRepository{
		db: db,
	}
}

func (r *emailRepository) Create(email *emaildomain.Email) error {
	if email.ID == "" {
		email.ID = uuid.New().String()
	}
	if email.ProcessingStatus == "" {
		email.ProcessingStatus = emaildomain.StatusPending
	}
	return r.db.Create(email).Error
}

func (r *emailRepository) GetByID(id string) (*emaildomain.Email, error) {
	var email emaildomain.Email
	err := r.db.Where("id = ?", id).First(&email).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, emaildomain.ErrEmailNotFound
		}
		return nil, err
	}
	return &email, nil
}

func (r *emailRepository) GetByProviderID(providerID string) (*emaildomain.Email, error) {
	var email emaildomain.Email
	err := r.db.Where("provider_id = ?", providerID).First(&email).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &email, nil
}

func (r *emailRepository) List(filter EmailFilter) ([]*emaildomain.Email, error) {
	query := r.db.Model(&emaildomain.Email{})
	if filter.IsLead != nil {
		query = query.Where("lead_flag = ?", *filter.IsLead)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}

	var emails []*emaildomain.Email
	if err := query.Order("received_at DESC").Find(&emails).Error; err != nil {
		return nil, err
	}
	return emails, nil
}

func (r *emailRepository) SaveClassification(id, category, priority string, leadFlag bool, entities emaildomain.EntityMap) error {
	// Single UPDATE so status and triage fields land together. Prior reply
	// drafts are cleared because their classification context is stale.
	res := r.db.Model(&emaildomain.Email{}).Where("id = ?", id).Updates(map[string]interface{}{
		"category":           category,
		"priority":           priority,
		"lead_flag":          leadFlag,
		"extracted_entities": entities,
		"suggested_reply":    nil,
		"reply_generated_at": nil,
		"processing_status":  emaildomain.StatusClassified,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return emaildomain.ErrEmailNotFound
	}
	return nil
}

func (r *emailRepository) SaveReply(id, body string, generatedAt time.Time) error {
	res := r.db.Model(&emaildomain.Email{}).Where("id = ?", id).Updates(map[string]interface{}{
		"suggested_reply":    body,
		"reply_generated_at": generatedAt,
		"processing_status":  emaildomain.StatusReplyGenerated,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return emaildomain.ErrEmailNotFound
	}
	return nil
}

func (r *emailRepository) MarkNoReplyNeeded(id string) error {
	res := r.db.Model(&emaildomain.Email{}).Where("id = ?", id).
		Update("processing_status", emaildomain.StatusNoReplyNeeded)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return emaildomain.ErrEmailNotFound
	}
	return nil
}

func (r *emailRepository) MarkSent(id, sentBody string) error {
	// The sent text overwrites the draft for audit fidelity.
	res := r.db.Model(&emaildomain.Email{}).Where("id = ?", id).Updates(map[string]interface{}{
		"suggested_reply":   sentBody,
		"processing_status": emaildomain.StatusReplySent,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return emaildomain.ErrEmailNotFound
	}
	return nil
}

func (r *emailRepository) DeleteAll() (int64, error) {
	res := r.db.Where("1 = 1").Delete(&emaildomain.Email{})
	return res.RowsAffected, res.Error
}
