package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/secureqr/secureqr/internal/models"
)

// URLClassifier obtains a safety verdict for a URL from the threat oracle.
type URLClassifier interface {
	// Check classifies the URL. Failures are expressed in the result's
	// status, never as a transport error.
	Check(ctx context.Context, url string) models.ScanResult
}

// QRDecoder extracts a QR code payload from raw image bytes. An empty string
// means no code was found.
type QRDecoder interface {
	Decode(data []byte) string
}

// HistoryWriter appends scan records on behalf of the scan pipeline.
type HistoryWriter interface {
	Insert(ctx context.Context, userID, url string, result models.ScanStatus) (*models.HistoryRecord, error)
}

// ScanService orchestrates a scan request: obtain the URL, classify it, and
// record the verdict for authenticated users. It is stateless across requests.
type ScanService struct {
	classifier URLClassifier
	history    HistoryWriter
	decoder    QRDecoder
	log        *zap.Logger
}

// NewScanService constructs a ScanService.
func NewScanService(classifier URLClassifier, history HistoryWriter, decoder QRDecoder, log *zap.Logger) *ScanService {
	return &ScanService{classifier: classifier, history: history, decoder: decoder, log: log}
}

// ScanURL classifies a caller-supplied URL. When userID is non-empty the
// verdict is appended to the user's history, except for error results where
// no verdict was reached. History recording is best effort: a storage failure
// is logged and the classification is still returned.
func (s *ScanService) ScanURL(ctx context.Context, userID, url string) (models.ScanResult, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return models.ScanResult{}, fmt.Errorf("%w: url is required", models.ErrInvalidInput)
	}

	result := s.classifier.Check(ctx, url)

	if userID != "" && result.Status != models.StatusError {
		if _, err := s.history.Insert(ctx, userID, url, result.Status); err != nil {
			s.log.Error("failed to record scan in history",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
	}

	return result, nil
}

// ScanImage decodes a QR code from the image and classifies its payload.
// It returns the decoded URL alongside the result. An image without a
// readable QR code yields models.ErrNoQRCode.
func (s *ScanService) ScanImage(ctx context.Context, userID string, image []byte) (models.ScanResult, string, error) {
	url := s.decoder.Decode(image)
	if url == "" {
		return models.ScanResult{}, "", models.ErrNoQRCode
	}

	result, err := s.ScanURL(ctx, userID, url)
	return result, url, err
}
