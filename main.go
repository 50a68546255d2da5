package main

import (
	"log"

	api "triage-backend/cmd/api"
	emaildomain "triage-backend/internal/email/domain"
	emailRepo "triage-backend/internal/email/repository"
	emailUsecase "triage-backend/internal/email/usecase"
	"triage-backend/pkg/ai"
	"triage-backend/pkg/config"
	"triage-backend/pkg/database"
	"triage-backend/pkg/gmail"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&emaildomain.Email{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	emailRepository := emailRepo.NewEmailRepository(db)

	// Pick the mail provider: the deterministic mock unless real Gmail
	// credentials are configured and the mock is explicitly disabled.
	var mailProvider emaildomain.MailProvider
	if cfg.GmailUseMock {
		mailProvider = gmail.NewMockProvider()
		log.Println("[Gmail] using mock provider")
	} else {
		gmailService := gmail.NewService(cfg.GmailClientID, cfg.GmailClientSecret, cfg.GmailRefreshToken, cfg.GmailUserEmail)
		if !gmailService.IsConfigured() {
			log.Println("[Gmail] credentials incomplete, falling back to mock provider")
			mailProvider = gmail.NewMockProvider()
		} else {
			mailProvider = gmailService
			log.Println("[Gmail] using real Gmail provider")
		}
	}

	// Initialize the triage model service
	triageService, providerName, err := ai.NewTriageService(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey:  cfg.GeminiApiKey,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
	})
	if err != nil {
		log.Fatal("Failed to initialize AI service:", err)
	}
	log.Printf("[AI] triage service initialized with provider: %s", providerName)

	// Initialize use cases (dependency injection)
	triageUsecase := emailUsecase.NewTriageUsecase(emailRepository, mailProvider, triageService, providerName, cfg.SyncLimit, cfg.StageTimeout)

	// Initialize HTTP handler
	handler := api.NewHandler(triageUsecase)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
