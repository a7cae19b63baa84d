package handlers

import (
	"encoding/json"
	"net/http"

	"knowitall/internal/agent"
	"knowitall/internal/contextutil"
)

// AskHandler handles HTTP requests for grounded question answering.
type AskHandler struct {
	agent *agent.Agent
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(a *agent.Agent) *AskHandler {
	return &AskHandler{agent: a}
}

// AskRequest represents the HTTP request payload for queries.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse represents the HTTP response payload for queries.
type AskResponse struct {
	Answer string `json:"answer"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP answers a question. The agent degrades every internal failure
// to a user-facing sentence, so the only error statuses here are request
// validation ones.
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Question == "" {
		logger.WarnContext(ctx, "empty question in request")
		writeError(w, http.StatusBadRequest, "Question is required")
		return
	}

	answer := h.agent.Answer(ctx, req.Question)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(AskResponse{Answer: answer}); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
