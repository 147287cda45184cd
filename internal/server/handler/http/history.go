package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/secureqr/secureqr/internal/middleware"
	"github.com/secureqr/secureqr/internal/models"
)

// HistoryService defines the interface for scan-history operations required
// by the HTTP handlers.
type HistoryService interface {
	// List returns the user's scan history, newest first.
	List(ctx context.Context, userID string) ([]models.HistoryRecord, error)
	// Add records a scan manually.
	Add(ctx context.Context, userID, url string, result models.ScanStatus) (*models.HistoryRecord, error)
	// Delete removes a single record owned by the user.
	Delete(ctx context.Context, userID, id string) error
	// Clear removes the user's entire scan history.
	Clear(ctx context.Context, userID string) (int64, error)
}

// HistoryHandler handles HTTP requests for scan-history management.
// All endpoints require authentication.
type HistoryHandler struct {
	HistoryService HistoryService
}

// AddHistoryRequest represents the JSON payload for a manual history entry.
type AddHistoryRequest struct {
	URL    string `json:"url"`
	Result string `json:"result"`
}

// List handles GET /history.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	records, err := h.HistoryService.List(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// Add handles POST /history. The result field must name a reached verdict;
// the error status is not persistable.
func (h *HistoryHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var req AddHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "url and result are required")
		return
	}

	if _, err := h.HistoryService.Add(r.Context(), userID, req.URL, models.ScanStatus(req.Result)); err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "scan added to history successfully"})
}

// Delete handles DELETE /history/{id}.
func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.HistoryService.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			writeError(w, http.StatusNotFound, "history item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "history item deleted"})
}

// Clear handles DELETE /history.
func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	deleted, err := h.HistoryService.Clear(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "history cleared",
		"deleted": deleted,
	})
}
