// Package safebrowsing classifies URLs using the Google Safe Browsing
// threatMatches API. Failure modes of the oracle are mapped to a fixed set of
// verdicts rather than surfaced as transport errors: an unusable oracle
// (missing key, rejected key) produces the degraded "trusted" verdict, not a
// silent "safe" and not a hard failure.
package safebrowsing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/secureqr/secureqr/internal/models"
)

const (
	defaultEndpoint = "https://safebrowsing.googleapis.com/v4/threatMatches:find"
	clientID        = "secure-qr-scanner"
	clientVersion   = "1.0.0"
	requestTimeout  = 10 * time.Second
)

// threatTypes is the fixed set of threat categories requested from the oracle.
var threatTypes = []string{
	"MALWARE",
	"SOCIAL_ENGINEERING",
	"UNWANTED_SOFTWARE",
	"POTENTIALLY_HARMFUL_APPLICATION",
}

// Client queries the Safe Browsing API for URL verdicts. It is stateless and
// safe for concurrent use.
type Client struct {
	key      string
	endpoint string
	http     *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithEndpoint overrides the API endpoint. Used in tests to point the client
// at a mock oracle.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a Safe Browsing client. An empty key is allowed: such a
// client never contacts the oracle and classifies every URL as trusted.
func NewClient(key string, opts ...Option) *Client {
	c := &Client{
		key:      key,
		endpoint: defaultEndpoint,
		http:     &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type findRequest struct {
	Client     clientInfo `json:"client"`
	ThreatInfo threatInfo `json:"threatInfo"`
}

type clientInfo struct {
	ClientID      string `json:"clientId"`
	ClientVersion string `json:"clientVersion"`
}

type threatInfo struct {
	ThreatTypes      []string      `json:"threatTypes"`
	PlatformTypes    []string      `json:"platformTypes"`
	ThreatEntryTypes []string      `json:"threatEntryTypes"`
	ThreatEntries    []threatEntry `json:"threatEntries"`
}

type threatEntry struct {
	URL string `json:"url"`
}

type findResponse struct {
	Matches []struct {
		ThreatType string `json:"threatType"`
	} `json:"matches"`
}

// Check classifies a single URL. The URL is forwarded to the oracle as-is;
// no scheme or host validation happens here.
func (c *Client) Check(ctx context.Context, url string) models.ScanResult {
	if c.key == "" {
		return models.ScanResult{
			Status:  models.StatusTrusted,
			Message: "threat intelligence key not configured; URL could not be verified",
		}
	}

	body, err := json.Marshal(findRequest{
		Client: clientInfo{ClientID: clientID, ClientVersion: clientVersion},
		ThreatInfo: threatInfo{
			ThreatTypes:      threatTypes,
			PlatformTypes:    []string{"ANY_PLATFORM"},
			ThreatEntryTypes: []string{"URL"},
			ThreatEntries:    []threatEntry{{URL: url}},
		},
	})
	if err != nil {
		return models.ScanResult{
			Status:  models.StatusError,
			Message: fmt.Sprintf("encode request: %v", err),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"?key="+c.key, bytes.NewReader(body))
	if err != nil {
		return models.ScanResult{
			Status:  models.StatusError,
			Message: fmt.Sprintf("build request: %v", err),
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return models.ScanResult{
			Status:  models.StatusError,
			Message: fmt.Sprintf("request failed: %v", err),
		}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// handled below
	case resp.StatusCode == http.StatusForbidden:
		// Key rejected or quota exhausted. The scan feature stays available,
		// the caller sees the degraded verdict rather than a failure.
		return models.ScanResult{
			Status:  models.StatusTrusted,
			Message: "threat intelligence service unavailable; URL could not be verified",
		}
	default:
		return models.ScanResult{
			Status:  models.StatusError,
			Message: fmt.Sprintf("API returned status code %d", resp.StatusCode),
		}
	}

	var result findResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return models.ScanResult{
			Status:  models.StatusError,
			Message: fmt.Sprintf("decode response: %v", err),
		}
	}

	if len(result.Matches) == 0 {
		return models.ScanResult{Status: models.StatusSafe}
	}

	threats := make([]string, 0, len(result.Matches))
	for _, match := range result.Matches {
		threats = append(threats, match.ThreatType)
	}
	return models.ScanResult{Status: models.StatusUnsafe, Threats: threats}
}
