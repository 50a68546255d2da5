package usecase

import (
	"context"
	"log"
	"time"

	emaildomain "triage-backend/internal/email/domain"
	"triage-backend/internal/email/repository"
	"triage-backend/pkg/ai"
)

type triageUsecase struct {
	emailRepo    repository.EmailRepository
	mailProvider emaildomain.MailProvider
	triage       ai.TriageService

	llmProvider string
	syncLimit   int
	stageWait   time.Duration
}

// NewTriageUsecase wires the pipeline. syncLimit is the fetch size used
// when a sync request doesn't specify one; stageWait bounds every single
// provider or model call.
func NewTriageUsecase(
	emailRepo repository.EmailRepository,
	mailProvider emaildomain.MailProvider,
	triage ai.TriageService,
	llmProvider string,
	syncLimit int,
	stageWait time.Duration,
) TriageUsecase {
	if syncLimit <= 0 {
		syncLimit = 10
	}
	if stageWait <= 0 {
		stageWait = 30 * time.Second
	}
	return &triageUsecase{
		emailRepo:    emailRepo,
		mailProvider: mailProvider,
		triage:       triage,
		llmProvider:  llmProvider,
		syncLimit:    syncLimit,
		stageWait:    stageWait,
	}
}

func (u *triageUsecase) List(ctx context.Context, filter repository.EmailFilter) ([]*emaildomain.Email, error) {
	return u.emailRepo.List(filter)
}

func (u *triageUsecase) Get(ctx context.Context, id string) (*emaildomain.Email, error) {
	return u.emailRepo.GetByID(id)
}

// Reset clears every stored email and, when the active provider generates
// synthetic message ids, restarts its counter so the next sync repopulates
// the table from the beginning.
func (u *triageUsecase) Reset(ctx context.Context) (int64, error) {
	deleted, err := u.emailRepo.DeleteAll()
	if err != nil {
		return 0, err
	}
	if resettable, ok := u.mailProvider.(emaildomain.Resettable); ok {
		resettable.ResetCounter()
	}
	log.Printf("[Triage] reset: deleted %d emails", deleted)
	return deleted, nil
}

func (u *triageUsecase) Providers() []ProviderStatus {
	mailDetails := map[string]string{}
	if _, ok := u.mailProvider.(emaildomain.FailureSimulator); ok {
		mailDetails["mock"] = "true"
	}
	return []ProviderStatus{
		{Name: u.mailProvider.Name(), Enabled: true, Details: mailDetails},
		{Name: u.llmProvider, Enabled: true},
	}
}
