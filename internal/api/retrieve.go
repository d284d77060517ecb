package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/wildscope/wildscope/internal/retrieval"
)

// retrieveRequest is the POST /api/retrieve request payload.
type retrieveRequest struct {
	Query string `json:"query"`
}

// retrieveResponse is the POST /api/retrieve response payload.
type retrieveResponse struct {
	Result string `json:"result"`
}

// retrieveHandler proxies document-corpus questions to the external RAG
// service.
type retrieveHandler struct {
	client *retrieval.Client
	logger *slog.Logger
}

// retrieve handles POST /api/retrieve.
func (h *retrieveHandler) retrieve(w http.ResponseWriter, r *http.Request) {
	var req retrieveRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "No query provided")
		return
	}

	result, err := h.client.Retrieve(r.Context(), req.Query)
	if err != nil {
		h.logger.Error("retrieval service call failed", "error", err)
		writeError(w, http.StatusBadGateway, "retrieval service unavailable")
		return
	}

	writeJSON(w, http.StatusOK, retrieveResponse{Result: result})
}
