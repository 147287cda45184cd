package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/secureqr/secureqr/internal/middleware"
	"github.com/secureqr/secureqr/internal/models"
)

// maxImageSize bounds uploaded QR images to 10 MiB.
const maxImageSize = 10 << 20

// ScanService defines the interface for URL classification required by the
// scan handlers.
type ScanService interface {
	// ScanURL classifies a URL, recording it to history when userID is set.
	ScanURL(ctx context.Context, userID, url string) (models.ScanResult, error)
	// ScanImage decodes a QR code from the image and classifies its payload,
	// returning the decoded URL alongside the result.
	ScanImage(ctx context.Context, userID string, image []byte) (models.ScanResult, string, error)
}

// ScanHandler handles HTTP requests for URL and QR image scanning.
type ScanHandler struct {
	ScanService ScanService
}

// ScanURLRequest represents the JSON payload for a plain URL scan.
type ScanURLRequest struct {
	URL string `json:"url"`
}

// ScanURL handles POST /scan.
// It classifies the submitted URL and responds with the verdict and any
// threat labels. A classification error (oracle unreachable, unexpected
// status) is reported as 500 with the diagnostic.
func (h *ScanHandler) ScanURL(w http.ResponseWriter, r *http.Request) {
	var req ScanURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())

	result, err := h.ScanService.ScanURL(r.Context(), userID, req.URL)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "url is required")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeScanResult(w, req.URL, result)
}

// ScanImage handles POST /scan/image (multipart/form-data with an "image"
// part). An image without a readable QR code yields 404.
func (h *ScanHandler) ScanImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		writeError(w, http.StatusBadRequest, "image file is required")
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read image")
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())

	result, url, err := h.ScanService.ScanImage(r.Context(), userID, data)
	if err != nil {
		if errors.Is(err, models.ErrNoQRCode) {
			writeError(w, http.StatusNotFound, "no QR code found in image")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeScanResult(w, url, result)
}

// writeScanResult renders a classification outcome. The error status carries
// its diagnostic as a 500; reached verdicts are 200 with the threat labels
// and, for trusted, the explanatory message.
func writeScanResult(w http.ResponseWriter, url string, result models.ScanResult) {
	if result.Status == models.StatusError {
		writeError(w, http.StatusInternalServerError, result.Message)
		return
	}

	threats := result.Threats
	if threats == nil {
		threats = []string{}
	}
	resp := map[string]any{
		"status":  result.Status,
		"url":     url,
		"threats": threats,
	}
	if result.Message != "" {
		resp["message"] = result.Message
	}
	writeJSON(w, http.StatusOK, resp)
}
