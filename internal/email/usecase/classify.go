package usecase

import (
	"context"
	"log"

	emaildomain "triage-backend/internal/email/domain"
)

// classifyEmail runs the model over one email and persists the verdict.
// Model output is coerced into the known category/priority sets before the
// write, and nothing is written when the model call fails, so the email
// never carries a partial classification.
func (u *triageUsecase) classifyEmail(ctx context.Context, email *emaildomain.Email) (*emaildomain.Email, error) {
	callCtx, cancel := context.WithTimeout(ctx, u.stageWait)
	defer cancel()

	verdict, err := u.triage.ClassifyEmail(callCtx, email.Subject, email.Body, email.Sender)
	if err != nil {
		return nil, &emaildomain.ProviderError{Provider: "llm", Op: "classify", Err: err}
	}

	category := emaildomain.NormalizeCategory(verdict.Category)
	priority := emaildomain.NormalizePriority(verdict.Priority)

	if err := u.emailRepo.SaveClassification(email.ID, category, priority, verdict.LeadFlag, emaildomain.EntityMap(verdict.Entities)); err != nil {
		return nil, err
	}
	return u.emailRepo.GetByID(email.ID)
}

// Retriage re-runs classification for one email regardless of its current
// status. The fresh verdict overwrites the previous one and any stale draft
// is cleared in the same write; a new draft is then attempted best-effort.
func (u *triageUsecase) Retriage(ctx context.Context, id string) (*emaildomain.Email, error) {
	email, err := u.emailRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	classified, err := u.classifyEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	replied, err := u.draftReply(ctx, classified)
	if err != nil {
		// The email stays at "classified"; the operator can request the
		// draft again once the model is reachable.
		log.Printf("[Triage] retriage %s: draft failed: %v", id, err)
		return classified, nil
	}
	return replied, nil
}
