package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"knowitall/internal/manifest"
	"knowitall/internal/vectorstore"
	vsmocks "knowitall/internal/vectorstore/mocks"
)

func TestStatusHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := vsmocks.NewMockVectorStore(ctrl)

	manifestStore := manifest.NewStore(filepath.Join(t.TempDir(), "manifest.json"))
	seed := manifest.Manifest{
		"a.csv": manifest.Record{Modified: time.Now(), Vectors: []string{"v1"}, Name: "a.csv"},
		"b.csv": manifest.Record{Modified: time.Now(), Vectors: []string{"v2"}, Name: "b.csv"},
	}
	if err := manifestStore.Save(seed); err != nil {
		t.Fatalf("failed to seed manifest: %v", err)
	}

	store.EXPECT().GetCollectionInfo(gomock.Any(), "test-collection").
		Return(&vectorstore.CollectionInfo{VectorSize: 384, PointsCount: 42, Status: "Green"}, nil)

	handler := NewStatusHandler(store, manifestStore, "test-collection")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp StatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Collection != "test-collection" || resp.PointsCount != 42 || resp.VectorSize != 384 {
		t.Errorf("response = %+v", resp)
	}
	if resp.FilesTracked != 2 {
		t.Errorf("FilesTracked = %d, want 2", resp.FilesTracked)
	}
}

func TestStatusHandlerStoreUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := vsmocks.NewMockVectorStore(ctrl)
	store.EXPECT().GetCollectionInfo(gomock.Any(), "test-collection").
		Return(nil, errors.New("qdrant down"))

	manifestStore := manifest.NewStore(filepath.Join(t.TempDir(), "manifest.json"))
	handler := NewStatusHandler(store, manifestStore, "test-collection")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
