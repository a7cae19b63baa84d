package handlers

import (
	"encoding/json"
	"net/http"

	"knowitall/internal/contextutil"
	"knowitall/internal/manifest"
	"knowitall/internal/vectorstore"
)

// StatusHandler reports index state: collection point count and the number
// of files tracked by the manifest.
type StatusHandler struct {
	vectorStore    vectorstore.VectorStore
	manifestStore  *manifest.Store
	collectionName string
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(vectorStore vectorstore.VectorStore, manifestStore *manifest.Store, collectionName string) *StatusHandler {
	return &StatusHandler{
		vectorStore:    vectorStore,
		manifestStore:  manifestStore,
		collectionName: collectionName,
	}
}

// StatusResponse represents the status response.
type StatusResponse struct {
	Collection   string `json:"collection"`
	PointsCount  int    `json:"points_count"`
	VectorSize   int    `json:"vector_size"`
	Status       string `json:"status"`
	FilesTracked int    `json:"files_tracked"`
}

// ServeHTTP returns index status.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	info, err := h.vectorStore.GetCollectionInfo(ctx, h.collectionName)
	if err != nil {
		logger.ErrorContext(ctx, "failed to get collection info", "error", err)
		writeError(w, http.StatusServiceUnavailable, "Vector store unavailable")
		return
	}

	m, err := h.manifestStore.Load()
	if err != nil {
		logger.ErrorContext(ctx, "failed to load manifest", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load manifest")
		return
	}

	resp := StatusResponse{
		Collection:   h.collectionName,
		PointsCount:  info.PointsCount,
		VectorSize:   info.VectorSize,
		Status:       info.Status,
		FilesTracked: len(m),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
