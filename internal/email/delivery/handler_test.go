package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	emaildomain "triage-backend/internal/email/domain"
	"triage-backend/internal/email/repository"
	"triage-backend/internal/email/usecase"
)

// stubUsecase returns scripted results so the handler's status mapping can
// be exercised without a real pipeline.
type stubUsecase struct {
	syncResult *usecase.SyncResult
	email      *emaildomain.Email
	emails     []*emaildomain.Email
	deleted    int64
	err        error

	lastSendBody string
	lastFilter   repository.EmailFilter
}

func (s *stubUsecase) Sync(ctx context.Context, limit int, simulateError bool) (*usecase.SyncResult, error) {
	return s.syncResult, s.err
}

func (s *stubUsecase) List(ctx context.Context, filter repository.EmailFilter) ([]*emaildomain.Email, error) {
	s.lastFilter = filter
	return s.emails, s.err
}

func (s *stubUsecase) Get(ctx context.Context, id string) (*emaildomain.Email, error) {
	return s.email, s.err
}

func (s *stubUsecase) Retriage(ctx context.Context, id string) (*emaildomain.Email, error) {
	return s.email, s.err
}

func (s *stubUsecase) GenerateReply(ctx context.Context, id string) (*emaildomain.Email, error) {
	return s.email, s.err
}

func (s *stubUsecase) Send(ctx context.Context, id, body string) (*emaildomain.Email, error) {
	s.lastSendBody = body
	return s.email, s.err
}

func (s *stubUsecase) Reset(ctx context.Context) (int64, error) {
	return s.deleted, s.err
}

func (s *stubUsecase) Providers() []usecase.ProviderStatus {
	return []usecase.ProviderStatus{{Name: "gmail-mock", Enabled: true}}
}

func newTestRouter(stub *stubUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewEmailHandler(stub)

	api := r.Group("/api")
	emails := api.Group("/emails")
	emails.POST("/sync", handler.Sync)
	emails.GET("", handler.List)
	emails.DELETE("/reset", handler.Reset)
	emails.GET("/:id", handler.Get)
	emails.POST("/:id/retriage", handler.Retriage)
	emails.POST("/:id/generate-reply", handler.GenerateReply)
	emails.POST("/:id/send", handler.SendReply)
	api.GET("/config/providers", handler.Providers)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", emaildomain.ErrEmailNotFound, http.StatusNotFound},
		{"precondition", &emaildomain.PreconditionError{Op: "send_reply", Status: "pending", Reason: "no generated reply"}, http.StatusUnprocessableEntity},
		{"conflict", &emaildomain.ConflictError{Op: "send_reply", Reason: "already sent"}, http.StatusConflict},
		{"auth scope", &emaildomain.AuthScopeError{Provider: "gmail", Err: errors.New("insufficient scope")}, http.StatusForbidden},
		{"provider failure", &emaildomain.ProviderError{Provider: "gmail", Op: "send", Err: errors.New("timeout")}, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&stubUsecase{err: tc.err})
			w := doRequest(r, http.MethodPost, "/api/emails/e1/send", `{"body":"x"}`)
			assert.Equal(t, tc.status, w.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestSyncEndpoint(t *testing.T) {
	t.Run("empty body uses defaults", func(t *testing.T) {
		stub := &stubUsecase{syncResult: &usecase.SyncResult{Synced: 3, Classified: 3, RepliesGenerated: 2}}
		r := newTestRouter(stub)

		w := doRequest(r, http.MethodPost, "/api/emails/sync", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, true, resp["success"])
		assert.Equal(t, float64(3), resp["synced"])
		assert.Equal(t, float64(2), resp["replies_generated"])
	})

	t.Run("query parameters are accepted", func(t *testing.T) {
		stub := &stubUsecase{syncResult: &usecase.SyncResult{}}
		r := newTestRouter(stub)

		w := doRequest(r, http.MethodPost, "/api/emails/sync?limit=5&simulate_error=false", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		r := newTestRouter(&stubUsecase{})
		w := doRequest(r, http.MethodPost, "/api/emails/sync", `{"limit": "ten"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("simulated failure surfaces as 502", func(t *testing.T) {
		stub := &stubUsecase{err: &emaildomain.ProviderError{Provider: "gmail-mock", Op: "fetch", Err: emaildomain.ErrSimulatedFailure}}
		r := newTestRouter(stub)
		w := doRequest(r, http.MethodPost, "/api/emails/sync", `{"simulate_error": true}`)
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestListEndpointFilters(t *testing.T) {
	stub := &stubUsecase{emails: []*emaildomain.Email{{ID: "e1"}}}
	r := newTestRouter(stub)

	w := doRequest(r, http.MethodGet, "/api/emails?is_lead=true&category=SALES_LEAD&priority=HIGH", "")
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, stub.lastFilter.IsLead)
	assert.True(t, *stub.lastFilter.IsLead)
	assert.Equal(t, "SALES_LEAD", stub.lastFilter.Category)
	assert.Equal(t, "HIGH", stub.lastFilter.Priority)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["total"])
}

func TestSendEndpointBodyPassthrough(t *testing.T) {
	stub := &stubUsecase{email: &emaildomain.Email{ID: "e1", ProcessingStatus: emaildomain.StatusReplySent}}
	r := newTestRouter(stub)

	t.Run("explicit body", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/api/emails/e1/send", `{"body":"edited text"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "edited text", stub.lastSendBody)
	})

	t.Run("absent body means use draft", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/api/emails/e1/send", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "", stub.lastSendBody)
	})
}

func TestResetEndpoint(t *testing.T) {
	stub := &stubUsecase{deleted: 7}
	r := newTestRouter(stub)

	w := doRequest(r, http.MethodDelete, "/api/emails/reset", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, float64(7), resp["deleted"])
}

func TestProvidersEndpoint(t *testing.T) {
	r := newTestRouter(&stubUsecase{})
	w := doRequest(r, http.MethodGet, "/api/config/providers", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gmail-mock")
}
