package usecase

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	emaildomain "triage-backend/internal/email/domain"
)

// Sync runs the full pipeline: fetch new messages, persist the ones not
// seen before, then classify and draft a reply for each new email
// concurrently. A failure in one email's triage never blocks the others;
// it just leaves that email at an earlier status for a later retriage.
func (u *triageUsecase) Sync(ctx context.Context, limit int, simulateError bool) (*SyncResult, error) {
	if limit <= 0 {
		limit = u.syncLimit
	}

	if simulateError {
		sim, ok := u.mailProvider.(emaildomain.FailureSimulator)
		if !ok {
			// A real backend can't inject failures; report the simulated
			// outage directly without touching the repository.
			return nil, &emaildomain.ProviderError{
				Provider: u.mailProvider.Name(),
				Op:       "fetch",
				Err:      emaildomain.ErrSimulatedFailure,
			}
		}
		sim.SetSimulateError(true)
		defer sim.SetSimulateError(false)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, u.stageWait)
	defer cancel()

	messages, err := u.mailProvider.FetchMessages(fetchCtx, limit)
	if err != nil {
		return nil, err
	}

	newEmails := make([]*emaildomain.Email, 0, len(messages))
	for _, msg := range messages {
		existing, err := u.emailRepo.GetByProviderID(msg.ProviderID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			// Already ingested; re-syncing must not clobber triage or
			// reply state accumulated since.
			continue
		}

		email := &emaildomain.Email{
			ID:               uuid.New().String(),
			ProviderID:       msg.ProviderID,
			ThreadID:         msg.ThreadID,
			Sender:           msg.Sender,
			Recipients:       strings.Join(msg.Recipients, ","),
			CC:               strings.Join(msg.CC, ","),
			Subject:          msg.Subject,
			Snippet:          msg.Snippet,
			Body:             msg.Body,
			ReceivedAt:       msg.ReceivedAt,
			ProcessingStatus: emaildomain.StatusPending,
		}
		if err := u.emailRepo.Create(email); err != nil {
			return nil, err
		}
		newEmails = append(newEmails, email)
	}

	result := &SyncResult{Synced: len(newEmails)}

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, email := range newEmails {
		wg.Add(1)
		go func(email *emaildomain.Email) {
			defer wg.Done()

			classified, err := u.classifyEmail(ctx, email)
			if err != nil {
				log.Printf("[Triage] classify %s failed: %v", email.ID, err)
				return
			}
			mu.Lock()
			result.Classified++
			mu.Unlock()

			replied, err := u.draftReply(ctx, classified)
			if err != nil {
				log.Printf("[Triage] draft reply %s failed: %v", email.ID, err)
				return
			}
			if replied.ProcessingStatus == emaildomain.StatusReplyGenerated {
				mu.Lock()
				result.RepliesGenerated++
				mu.Unlock()
			}
		}(email)
	}
	wg.Wait()

	log.Printf("[Triage] sync: %d new, %d classified, %d replies drafted",
		result.Synced, result.Classified, result.RepliesGenerated)
	return result, nil
}
