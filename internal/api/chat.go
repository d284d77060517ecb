package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/wildscope/wildscope/internal/answer"
	"github.com/wildscope/wildscope/internal/enrich"
)

// maxChatBodyBytes limits the chat request body size.
const maxChatBodyBytes = 1 << 20

// chatRequest is the POST /api/chat request payload.
type chatRequest struct {
	Query       string           `json:"query"`
	ChatHistory []answer.Message `json:"chatHistory"`
}

// chatResponse is the POST /api/chat response payload. The enrichment
// fields are null when the query falls outside the wildlife domain or
// enrichment is disabled; a failed paper lookup serializes as [].
type chatResponse struct {
	Answer   string         `json:"answer"`
	Research []enrich.Paper `json:"research"`
	Images   []string       `json:"images"`
	ImageURL *string        `json:"image_url"`
}

// chatHandler serves the structured-answer endpoint.
type chatHandler struct {
	answer *answer.Service
	enrich *enrich.Client
	logger *slog.Logger
}

// chat handles POST /api/chat.
func (h *chatHandler) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "No query provided")
		return
	}

	ctx := r.Context()
	resp := chatResponse{
		Answer: h.answer.Answer(ctx, req.Query, req.ChatHistory),
	}

	// Best-effort enrichment; lookup failures never fail the request.
	if h.enrich != nil && enrich.Relevant(req.Query) {
		if papers, err := h.enrich.Papers(ctx, req.Query); err != nil {
			h.logger.Warn("paper lookup failed", "error", err)
			resp.Research = []enrich.Paper{}
		} else {
			resp.Research = papers
		}

		if images, err := h.enrich.Images(ctx, req.Query); err != nil {
			h.logger.Warn("image lookup failed", "error", err)
		} else if len(images) > 0 {
			resp.Images = images
			resp.ImageURL = &images[0]
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
