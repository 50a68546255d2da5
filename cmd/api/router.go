package api

import (
	"net/http"

	emailDelivery "triage-backend/internal/email/delivery"
	emailUsecase "triage-backend/internal/email/usecase"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, triageUsecase emailUsecase.TriageUsecase) {
	emailHandler := emailDelivery.NewEmailHandler(triageUsecase)

	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Provider status for the dashboard settings panel
		api.GET("/config/providers", emailHandler.Providers)

		// Email triage routes
		emails := api.Group("/emails")
		{
			emails.POST("/sync", emailHandler.Sync)
			emails.GET("", emailHandler.List)
			emails.DELETE("/reset", emailHandler.Reset)
			emails.GET("/:id", emailHandler.Get)
			emails.POST("/:id/retriage", emailHandler.Retriage)
			emails.POST("/:id/generate-reply", emailHandler.GenerateReply)
			emails.POST("/:id/send", emailHandler.SendReply)
		}
	}
}
