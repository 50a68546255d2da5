package usecase

import (
	"context"
	"errors"
	"time"

	emaildomain "triage-backend/internal/email/domain"
	"triage-backend/pkg/ai"
)

// GenerateReply drafts (or re-drafts) the suggested reply for one email.
// The email must already be classified and not yet sent.
func (u *triageUsecase) GenerateReply(ctx context.Context, id string) (*emaildomain.Email, error) {
	email, err := u.emailRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return u.draftReply(ctx, email)
}

// draftReply asks the model for a reply and persists the outcome: either a
// stored draft (status reply_generated) or a no-reply verdict (status
// no_reply_needed). Drafting an already-sent email is a conflict; drafting
// an unclassified one is a precondition failure.
func (u *triageUsecase) draftReply(ctx context.Context, email *emaildomain.Email) (*emaildomain.Email, error) {
	if email.ProcessingStatus == emaildomain.StatusReplySent {
		return nil, &emaildomain.ConflictError{Op: "generate_reply", Reason: "reply already sent"}
	}
	if !email.IsClassified() {
		return nil, &emaildomain.PreconditionError{
			Op:     "generate_reply",
			Status: email.ProcessingStatus,
			Reason: "email has not been classified",
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, u.stageWait)
	defer cancel()

	draft, err := u.triage.DraftReply(callCtx, email.Subject, email.Body, *email.Category, *email.Priority)
	if errors.Is(err, ai.ErrNoReplyNeeded) {
		if err := u.emailRepo.MarkNoReplyNeeded(email.ID); err != nil {
			return nil, err
		}
		return u.emailRepo.GetByID(email.ID)
	}
	if err != nil {
		return nil, &emaildomain.ProviderError{Provider: "llm", Op: "draft", Err: err}
	}

	if err := u.emailRepo.SaveReply(email.ID, draft, time.Now().UTC()); err != nil {
		return nil, err
	}
	return u.emailRepo.GetByID(email.ID)
}
