package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"knowitall/internal/agent"
	"knowitall/internal/llm"
	"knowitall/internal/manifest"
	stmocks "knowitall/internal/storage/mocks"
	"knowitall/internal/vectorstore"
	vsmocks "knowitall/internal/vectorstore/mocks"
)

type fakeSyncer struct {
	triggers int
}

func (f *fakeSyncer) Trigger() { f.triggers++ }

type fakeEmbedder struct{}

func (fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

type fakeChatter struct{}

func (fakeChatter) ChatWithMessages(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error) {
	return "respuesta", nil
}

type routerEnv struct {
	handler http.Handler
	syncer  *fakeSyncer
	store   *vsmocks.MockVectorStore
}

func newRouterEnv(t *testing.T) *routerEnv {
	t.Helper()
	ctrl := gomock.NewController(t)

	store := vsmocks.NewMockVectorStore(ctrl)
	entries := stmocks.NewMockEntryStore(ctrl)
	syncer := &fakeSyncer{}
	manifestStore := manifest.NewStore(filepath.Join(t.TempDir(), "manifest.json"))

	deps := &Deps{
		Agent:          agent.New(fakeEmbedder{}, store, entries, fakeChatter{}, "test-collection", 3),
		Syncer:         syncer,
		VectorStore:    store,
		ManifestStore:  manifestStore,
		CollectionName: "test-collection",
	}

	return &routerEnv{
		handler: NewRouter(deps),
		syncer:  syncer,
		store:   store,
	}
}

func TestRouterSync(t *testing.T) {
	env := newRouterEnv(t)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync", nil))

	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202", rec.Code)
	}
	if env.syncer.triggers != 1 {
		t.Errorf("triggers = %d, want 1", env.syncer.triggers)
	}
	if !strings.Contains(rec.Body.String(), "scheduled") {
		t.Errorf("body = %q, want scheduled status", rec.Body.String())
	}
}

func TestRouterHealth(t *testing.T) {
	env := newRouterEnv(t)
	env.store.EXPECT().CollectionExists(gomock.Any(), "test-collection").Return(true, nil)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRouterStatus(t *testing.T) {
	env := newRouterEnv(t)
	env.store.EXPECT().GetCollectionInfo(gomock.Any(), "test-collection").
		Return(&vectorstore.CollectionInfo{VectorSize: 384, PointsCount: 12, Status: "Green"}, nil)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"points_count":12`) {
		t.Errorf("body = %q, want points count", rec.Body.String())
	}
}

func TestRouterAskValidation(t *testing.T) {
	env := newRouterEnv(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader("{}"))
	env.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for empty question", rec.Code)
	}
}

func TestRouterMethodNotAllowed(t *testing.T) {
	env := newRouterEnv(t)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ask", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	env := newRouterEnv(t)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/none", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestRouterAttachesRequestID(t *testing.T) {
	env := newRouterEnv(t)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync", nil))

	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("X-Request-Id header missing from routed response")
	}
}
