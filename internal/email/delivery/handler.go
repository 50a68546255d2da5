package delivery

import (
	"errors"
	"net/http"
	"strconv"

	emaildomain "triage-backend/internal/email/domain"
	emaildto "triage-backend/internal/email/dto"
	"triage-backend/internal/email/repository"
	"triage-backend/internal/email/usecase"

	"github.com/gin-gonic/gin"
)

type EmailHandler struct {
	triageUsecase usecase.TriageUsecase
}

func NewEmailHandler(triageUsecase usecase.TriageUsecase) *EmailHandler {
	return &EmailHandler{
		triageUsecase: triageUsecase,
	}
}

// writeError maps pipeline errors onto HTTP statuses: unknown id is 404,
// an out-of-order request is 422, a repeated terminal action is 409, a
// permission failure at the mail backend is 403 and any other backend
// failure is 502.
func writeError(c *gin.Context, err error) {
	var precondition *emaildomain.PreconditionError
	var conflict *emaildomain.ConflictError
	var authScope *emaildomain.AuthScopeError
	var provider *emaildomain.ProviderError

	switch {
	case errors.Is(err, emaildomain.ErrEmailNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "email not found"})
	case errors.As(err, &precondition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": precondition.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error()})
	case errors.As(err, &authScope):
		c.JSON(http.StatusForbidden, gin.H{"error": authScope.Error()})
	case errors.As(err, &provider):
		c.JSON(http.StatusBadGateway, gin.H{"error": provider.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Sync triggers one ingestion pass. The fetch size and failure simulation
// come from query parameters or an optional JSON body; the body wins when
// both are present.
func (h *EmailHandler) Sync(c *gin.Context) {
	var req emaildto.SyncRequest
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			req.Limit = parsed
		}
	}
	if simStr := c.Query("simulate_error"); simStr != "" {
		if parsed, err := strconv.ParseBool(simStr); err == nil {
			req.SimulateError = parsed
		}
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	result, err := h.triageUsecase.Sync(c.Request.Context(), req.Limit, req.SimulateError)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, emaildto.SyncResponse{
		Success:          true,
		Synced:           result.Synced,
		Classified:       result.Classified,
		RepliesGenerated: result.RepliesGenerated,
	})
}

// List returns stored emails, optionally filtered by is_lead, category and
// priority query parameters.
func (h *EmailHandler) List(c *gin.Context) {
	filter := repository.EmailFilter{
		Category: c.Query("category"),
		Priority: c.Query("priority"),
	}
	if leadStr := c.Query("is_lead"); leadStr != "" {
		if parsed, err := strconv.ParseBool(leadStr); err == nil {
			filter.IsLead = &parsed
		}
	}

	emails, err := h.triageUsecase.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, emaildto.EmailsResponse{Emails: emails, Total: len(emails)})
}

func (h *EmailHandler) Get(c *gin.Context) {
	email, err := h.triageUsecase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, email)
}

func (h *EmailHandler) Retriage(c *gin.Context) {
	email, err := h.triageUsecase.Retriage(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, email)
}

func (h *EmailHandler) GenerateReply(c *gin.Context) {
	email, err := h.triageUsecase.GenerateReply(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, email)
}

// SendReply dispatches the reply. An empty or absent body means "send the
// stored draft as-is".
func (h *EmailHandler) SendReply(c *gin.Context) {
	var req emaildto.SendReplyRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	email, err := h.triageUsecase.Send(c.Request.Context(), c.Param("id"), req.Body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, email)
}

func (h *EmailHandler) Reset(c *gin.Context) {
	deleted, err := h.triageUsecase.Reset(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, emaildto.ResetResponse{Success: true, Deleted: deleted})
}

func (h *EmailHandler) Providers(c *gin.Context) {
	c.JSON(http.StatusOK, emaildto.ProvidersResponse{Providers: h.triageUsecase.Providers()})
}
