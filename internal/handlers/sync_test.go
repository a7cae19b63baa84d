package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeSyncer struct {
	triggers int
}

func (f *fakeSyncer) Trigger() { f.triggers++ }

func TestSyncHandler(t *testing.T) {
	syncer := &fakeSyncer{}
	handler := NewSyncHandler(syncer)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync", nil))

	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202", rec.Code)
	}
	if syncer.triggers != 1 {
		t.Errorf("triggers = %d, want 1", syncer.triggers)
	}

	var resp SyncResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "scheduled" {
		t.Errorf("status = %q, want scheduled", resp.Status)
	}
}
