package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"glossa/worker"
)

func newTestHandler(t *testing.T) *JobHandler {
	t.Helper()

	// No Redis and no API client: uploads are still accepted and queued,
	// results are just not persisted anywhere.
	r := worker.NewRunner(nil, nil)
	r.Start()
	t.Cleanup(r.Close)
	return NewJobHandler(r, nil)
}

func TestHandleRunAcceptsNDJSON(t *testing.T) {
	h := newTestHandler(t)

	body := strings.Join([]string{
		`{"kind":"sentiment","response_column":"api_response"}`,
		`{"id":0,"row":{"api_response":"{\"documentSentiment\":{\"score\":0.5,\"magnitude\":0.5}}"}}`,
	}, "\n")

	req := httptest.NewRequest(http.MethodPost, "/run", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-ndjson")
	rr := httptest.NewRecorder()

	h.HandleRun(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Errorf("Expected status 202, got %d. Body: %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Job-ID") == "" {
		t.Error("Response did not return an X-Job-ID header")
	}
}

func TestHandleRunRejectsWrongMethod(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/run", nil)
	rr := httptest.NewRecorder()

	h.HandleRun(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", rr.Code)
	}
}

func TestHandleRunRejectsWrongContentType(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/run", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	h.HandleRun(rr, req)

	if rr.Code != http.StatusUnsupportedMediaType {
		t.Errorf("Expected status 415, got %d", rr.Code)
	}
}

func TestHandleStatusRequiresKey(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rr := httptest.NewRecorder()

	h.HandleStatus(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}
}

func TestHandleInfo(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/info", nil)
	rr := httptest.NewRecorder()

	h.HandleInfo(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
}
