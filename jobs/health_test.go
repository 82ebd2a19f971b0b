package jobs

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (s stubInspector) GetQueueInfo(string) (*asynq.QueueInfo, error) { return s.info, s.err }

func serveHealth(t *testing.T, h *Handler) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Route("/jobs", h.MountRoutes)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))
	return rec
}

func TestHealthReportsBacklog(t *testing.T) {
	h := &Handler{
		inspector: stubInspector{info: &asynq.QueueInfo{Queue: QueueDefault, Pending: 4, Active: 1, Retry: 2}},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	rec := serveHealth(t, h)
	require.Equal(t, http.StatusOK, rec.Code)
	var got QueueHealth
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, QueueHealth{Queue: QueueDefault, Pending: 4, Active: 1, Retry: 2}, got)
}

func TestHealthPausedQueueIsUnavailable(t *testing.T) {
	h := &Handler{
		inspector: stubInspector{info: &asynq.QueueInfo{Queue: QueueDefault, Paused: true}},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	rec := serveHealth(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"paused":true`)
}

func TestHealthInspectorError(t *testing.T) {
	h := &Handler{
		inspector: stubInspector{err: errors.New("redis down")},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	rec := serveHealth(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestHealthWithoutInspector(t *testing.T) {
	rec := serveHealth(t, NewHandler(nil, slog.New(slog.NewTextHandler(io.Discard, nil))))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"queue":"default"`)
}
