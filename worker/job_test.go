package worker

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunnerCloseAfterRun(t *testing.T) {
	r := NewRunner(nil, nil)
	r.Start()

	path := filepath.Join(t.TempDir(), "job-close.ndjson")
	content := `{"kind":"sentiment","response_column":"api_response"}` + "\n" +
		`{"id":0,"row":{"api_response":"{\"documentSentiment\":{\"score\":0.1,\"magnitude\":0.1}}"}}` + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if err := r.Run(path); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	// Close waits for the job's publisher before closing the records queue,
	// so shutting down right after dispatch must not panic or lose the row.
	r.Close()
}

func TestRunAfterCloseIsRejected(t *testing.T) {
	r := NewRunner(nil, nil)
	r.Start()
	r.Close()

	path := filepath.Join(t.TempDir(), "job-late.ndjson")
	content := `{"kind":"sentiment","response_column":"api_response"}` + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if err := r.Run(path); err == nil {
		t.Error("expected an error for a job dispatched after shutdown")
	}
}

func TestRunRejectsInvalidConfiguration(t *testing.T) {
	r := NewRunner(nil, nil)

	path := filepath.Join(t.TempDir(), "job-bad.ndjson")
	content := `{"kind":"summarize"}` + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if err := r.Run(path); err == nil {
		t.Error("expected an error for an unknown analysis kind in the configuration")
	}
}
