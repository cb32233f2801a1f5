package httptransport_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-automation-service/internal/entity"
	"social-automation-service/internal/repository"
	"social-automation-service/internal/service"
	httptransport "social-automation-service/internal/transport/http"
	"social-automation-service/internal/webhook"
)

// ---- fakes ----

type credsStub struct {
	creds map[string]*entity.Credentials // key: user|platform
}

func (s *credsStub) GetCredentials(ctx context.Context, userID string, platform entity.Platform) (*entity.Credentials, error) {
	c, ok := s.creds[userID+"|"+string(platform)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

type repoWithJobs struct {
	jobs map[string]*entity.Job
}

func (r *repoWithJobs) Create(ctx context.Context, job *entity.Job) error {
	j := *job
	r.jobs[job.ID] = &j
	return nil
}

func (r *repoWithJobs) GetByID(ctx context.Context, id string) (*entity.Job, error) {
	j, ok := r.jobs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return j, nil
}

// ---- helpers ----

type env struct {
	router   http.Handler
	jobs     *repoWithJobs
	webhooks atomic.Int32
}

func newTestEnv(t *testing.T, webhookStatus int) *env {
	t.Helper()
	e := &env{jobs: &repoWithJobs{jobs: map[string]*entity.Job{}}}

	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e.webhooks.Add(1)
		if webhookStatus != http.StatusOK {
			http.Error(w, "boom", webhookStatus)
			return
		}
		_, _ = w.Write([]byte(`{"jobId":"j1"}`))
	}))
	t.Cleanup(hook.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewAutomationClient(service.AutomationClientConfig{
		Credentials: &credsStub{creds: map[string]*entity.Credentials{
			"u1|instagram": {AccessToken: "tok"},
		}},
		Jobs:    e.jobs,
		Webhook: webhook.NewClient(hook.URL, "key", time.Second),
		Logger:  logger,
	})
	e.router = httptransport.Routes(httptransport.NewHandler(svc), logger)
	return e
}

func (e *env) do(method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var got map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got), "body=%s", rr.Body.String())
	return got
}

// ---- tests ----

func TestHTTP_CreateJob_201_ThenGet(t *testing.T) {
	e := newTestEnv(t, http.StatusOK)

	rr := e.do(http.MethodPost, "/jobs",
		`{"userId":"u1","prompt":"sunset","platform":"instagram","type":"image_generation","caption":"hi"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, map[string]any{"success": true, "jobId": "j1", "status": "pending"}, decode(t, rr))

	rr = e.do(http.MethodGet, "/jobs/j1", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	got := decode(t, rr)
	assert.Equal(t, "j1", got["id"])
	assert.Equal(t, "u1", got["user_id"])
	assert.Equal(t, "pending", got["status"])
	assert.Equal(t, "image_generation", got["type"])
	assert.Equal(t, "sunset", got["prompt"])
}

func TestHTTP_CreateJob_400_InvalidJSON(t *testing.T) {
	e := newTestEnv(t, http.StatusOK)

	rr := e.do(http.MethodPost, "/jobs", `{"userId":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid json", decode(t, rr)["message"])
}

func TestHTTP_CreateJob_413_OversizedBody(t *testing.T) {
	e := newTestEnv(t, http.StatusOK)

	body := `{"userId":"u1","platform":"instagram","type":"t","prompt":"` + strings.Repeat("a", 70<<10) + `"}`
	rr := e.do(http.MethodPost, "/jobs", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Equal(t, "request body too large", decode(t, rr)["message"])
	assert.Zero(t, e.webhooks.Load())
	assert.Empty(t, e.jobs.jobs)
}

func TestHTTP_CreateJob_400_Validation(t *testing.T) {
	e := newTestEnv(t, http.StatusOK)

	rr := e.do(http.MethodPost, "/jobs", `{"userId":"u1","prompt":"p","platform":"myspace","type":"t"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid platform: myspace", decode(t, rr)["message"])
	assert.Zero(t, e.webhooks.Load())

	rr = e.do(http.MethodPost, "/jobs", `{"prompt":"p","platform":"instagram","type":"t"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "missing required field: userId", decode(t, rr)["message"])
}

func TestHTTP_CreateJob_422_NoCredentials(t *testing.T) {
	e := newTestEnv(t, http.StatusOK)

	rr := e.do(http.MethodPost, "/jobs", `{"userId":"u2","prompt":"p","platform":"instagram","type":"t"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code, rr.Body.String())
	assert.Zero(t, e.webhooks.Load())
}

func TestHTTP_CreateJob_502_WebhookFailure(t *testing.T) {
	e := newTestEnv(t, http.StatusInternalServerError)

	rr := e.do(http.MethodPost, "/jobs", `{"userId":"u1","prompt":"p","platform":"instagram","type":"t"}`)
	assert.Equal(t, http.StatusBadGateway, rr.Code, rr.Body.String())
	assert.Equal(t, int32(1), e.webhooks.Load())
	assert.Empty(t, e.jobs.jobs)
}

func TestHTTP_GetJob_404(t *testing.T) {
	e := newTestEnv(t, http.StatusOK)

	rr := e.do(http.MethodGet, "/jobs/missing", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "job not found", decode(t, rr)["message"])
}

func TestHTTP_GetJob_Twice_SameBody(t *testing.T) {
	e := newTestEnv(t, http.StatusOK)
	e.jobs.jobs["j7"] = &entity.Job{
		ID:        "j7",
		UserID:    "u1",
		Status:    entity.StatusDone,
		Type:      "video_generation",
		Prompt:    "waves",
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	first := e.do(http.MethodGet, "/jobs/j7", "")
	second := e.do(http.MethodGet, "/jobs/j7", "")

	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "2025-01-02T03:04:05Z", decode(t, first)["created_at"])
	assert.Equal(t, "done", decode(t, first)["status"])
}

func TestHTTP_Health(t *testing.T) {
	e := newTestEnv(t, http.StatusOK)

	rr := e.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}
