package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/secureqr/secureqr/internal/models"
)

// fakeScanService implements ScanService for testing.
type fakeScanService struct {
	result     models.ScanResult
	scanErr    error
	decodedURL string
	imageErr   error
}

func (f *fakeScanService) ScanURL(ctx context.Context, userID, url string) (models.ScanResult, error) {
	return f.result, f.scanErr
}

func (f *fakeScanService) ScanImage(ctx context.Context, userID string, image []byte) (models.ScanResult, string, error) {
	return f.result, f.decodedURL, f.imageErr
}

func TestScanHandler_ScanURL(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		service      *fakeScanService
		expectedCode int
	}{
		{
			name:         "invalid JSON",
			body:         `{`,
			service:      &fakeScanService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "empty url",
			body:         `{"url":""}`,
			service:      &fakeScanService{scanErr: models.ErrInvalidInput},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "safe verdict",
			body:         `{"url":"http://example.com"}`,
			service:      &fakeScanService{result: models.ScanResult{Status: models.StatusSafe}},
			expectedCode: http.StatusOK,
		},
		{
			name:         "classification error",
			body:         `{"url":"http://example.com"}`,
			service:      &fakeScanService{result: models.ScanResult{Status: models.StatusError, Message: "request failed: timeout"}},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/scan", bytes.NewBufferString(tt.body))
			h := &ScanHandler{ScanService: tt.service}
			h.ScanURL(rec, req)

			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedCode, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestScanHandler_ScanURL_UnsafeResponseShape(t *testing.T) {
	service := &fakeScanService{
		result: models.ScanResult{Status: models.StatusUnsafe, Threats: []string{"MALWARE"}},
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/scan", bytes.NewBufferString(`{"url":"http://bad.example"}`))
	h := &ScanHandler{ScanService: service}
	h.ScanURL(rec, req)

	var resp struct {
		Status  string   `json:"status"`
		URL     string   `json:"url"`
		Threats []string `json:"threats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "unsafe" {
		t.Errorf("status = %q; want %q", resp.Status, "unsafe")
	}
	if resp.URL != "http://bad.example" {
		t.Errorf("url = %q; want the submitted URL", resp.URL)
	}
	if len(resp.Threats) != 1 || resp.Threats[0] != "MALWARE" {
		t.Errorf("threats = %v; want [MALWARE]", resp.Threats)
	}
}

func multipartImageRequest(t *testing.T, field string, data []byte) *http.Request {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, "qr.png")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/scan/image", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestScanHandler_ScanImage(t *testing.T) {
	tests := []struct {
		name         string
		request      func(t *testing.T) *http.Request
		service      *fakeScanService
		expectedCode int
	}{
		{
			name: "not multipart",
			request: func(t *testing.T) *http.Request {
				return httptest.NewRequest("POST", "/scan/image", bytes.NewBufferString("plain"))
			},
			service:      &fakeScanService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "wrong field name",
			request: func(t *testing.T) *http.Request {
				return multipartImageRequest(t, "file", []byte("img"))
			},
			service:      &fakeScanService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "no QR code in image",
			request: func(t *testing.T) *http.Request {
				return multipartImageRequest(t, "image", []byte("img"))
			},
			service:      &fakeScanService{imageErr: models.ErrNoQRCode},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "decoded and classified",
			request: func(t *testing.T) *http.Request {
				return multipartImageRequest(t, "image", []byte("img"))
			},
			service: &fakeScanService{
				result:     models.ScanResult{Status: models.StatusSafe},
				decodedURL: "http://decoded.example",
			},
			expectedCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h := &ScanHandler{ScanService: tt.service}
			h.ScanImage(rec, tt.request(t))

			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedCode, rec.Code, rec.Body.String())
			}
			if tt.expectedCode == http.StatusOK && !bytes.Contains(rec.Body.Bytes(), []byte("http://decoded.example")) {
				t.Errorf("expected decoded URL in response, got %s", rec.Body.String())
			}
		})
	}
}
