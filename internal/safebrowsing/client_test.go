package safebrowsing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/secureqr/secureqr/internal/models"
)

func TestCheck_Unsafe(t *testing.T) {
	var gotBody findRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"matches":[{"threatType":"MALWARE"},{"threatType":"SOCIAL_ENGINEERING"}]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithEndpoint(server.URL))
	result := client.Check(context.Background(), "http://malware.example")

	if result.Status != models.StatusUnsafe {
		t.Fatalf("Status = %q; want %q", result.Status, models.StatusUnsafe)
	}
	if len(result.Threats) != 2 || result.Threats[0] != "MALWARE" || result.Threats[1] != "SOCIAL_ENGINEERING" {
		t.Errorf("Threats = %v; want [MALWARE SOCIAL_ENGINEERING]", result.Threats)
	}

	// The request carries the fixed client identity and the URL as a
	// single-entry threat list.
	if gotBody.Client.ClientID != clientID || gotBody.Client.ClientVersion != clientVersion {
		t.Errorf("client info = %+v", gotBody.Client)
	}
	if len(gotBody.ThreatInfo.ThreatEntries) != 1 || gotBody.ThreatInfo.ThreatEntries[0].URL != "http://malware.example" {
		t.Errorf("threat entries = %+v", gotBody.ThreatInfo.ThreatEntries)
	}
	if len(gotBody.ThreatInfo.ThreatTypes) == 0 {
		t.Error("threat types missing from request")
	}
}

func TestCheck_Safe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithEndpoint(server.URL))
	result := client.Check(context.Background(), "http://fine.example")

	if result.Status != models.StatusSafe {
		t.Errorf("Status = %q; want %q", result.Status, models.StatusSafe)
	}
	if len(result.Threats) != 0 {
		t.Errorf("Threats = %v; want empty", result.Threats)
	}
}

func TestCheck_ForbiddenFallsBackToTrusted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient("rejected-key", WithEndpoint(server.URL))
	result := client.Check(context.Background(), "http://example.com")

	if result.Status != models.StatusTrusted {
		t.Errorf("Status = %q; want %q", result.Status, models.StatusTrusted)
	}
	if result.Message == "" {
		t.Error("trusted result should carry an explanatory message")
	}
}

func TestCheck_UnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient("test-key", WithEndpoint(server.URL))
	result := client.Check(context.Background(), "http://example.com")

	if result.Status != models.StatusError {
		t.Fatalf("Status = %q; want %q", result.Status, models.StatusError)
	}
	if !strings.Contains(result.Message, "502") {
		t.Errorf("Message = %q; want the status code in the diagnostic", result.Message)
	}
}

func TestCheck_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient("test-key",
		WithEndpoint(server.URL),
		WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond}),
	)
	result := client.Check(context.Background(), "http://slow.example")

	if result.Status != models.StatusError {
		t.Fatalf("Status = %q; want %q", result.Status, models.StatusError)
	}
	if !strings.Contains(result.Message, "request failed") {
		t.Errorf("Message = %q; want the underlying failure description", result.Message)
	}
}

func TestCheck_NoKeyConfigured(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := NewClient("", WithEndpoint(server.URL))
	result := client.Check(context.Background(), "http://example.com")

	if result.Status != models.StatusTrusted {
		t.Errorf("Status = %q; want %q", result.Status, models.StatusTrusted)
	}
	if result.Message == "" {
		t.Error("trusted result should note the missing configuration")
	}
	if calls.Load() != 0 {
		t.Errorf("oracle contacted %d times; want 0", calls.Load())
	}
}
