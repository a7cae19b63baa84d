package handlers

import (
	"encoding/json"
	"net/http"

	"knowitall/internal/contextutil"
)

// Syncer triggers an immediate reconciliation pass.
type Syncer interface {
	Trigger()
}

// SyncHandler handles HTTP requests for immediate resync.
type SyncHandler struct {
	syncer Syncer
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(syncer Syncer) *SyncHandler {
	return &SyncHandler{syncer: syncer}
}

// SyncResponse represents the response to a sync request.
type SyncResponse struct {
	Status string `json:"status"`
}

// ServeHTTP schedules a reconciliation pass and returns immediately.
func (h *SyncHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	h.syncer.Trigger()
	logger.InfoContext(ctx, "reconciliation pass requested")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(SyncResponse{Status: "scheduled"})
}
