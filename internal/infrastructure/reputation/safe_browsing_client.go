package reputation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bibbank/scam-service/internal/domain/model"
	"github.com/bibbank/scam-service/internal/domain/port"
)

// Compile-time interface check.
var _ port.URLReputationProvider = (*SafeBrowsingClient)(nil)

var safeBrowsingThreatTypes = []string{
	"MALWARE",
	"SOCIAL_ENGINEERING",
	"UNWANTED_SOFTWARE",
	"POTENTIALLY_HARMFUL_APPLICATION",
}

// SafeBrowsingClient implements port.URLReputationProvider using the Google
// Safe Browsing v4 Lookup API.
type SafeBrowsingClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewSafeBrowsingClient creates a new Safe Browsing client.
func NewSafeBrowsingClient(apiKey, baseURL string, timeout time.Duration) *SafeBrowsingClient {
	return &SafeBrowsingClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(timeout),
	}
}

type threatEntry struct {
	URL string `json:"url"`
}

type findThreatMatchesRequest struct {
	Client struct {
		ClientID      string `json:"clientId"`
		ClientVersion string `json:"clientVersion"`
	} `json:"client"`
	ThreatInfo struct {
		ThreatTypes      []string      `json:"threatTypes"`
		PlatformTypes    []string      `json:"platformTypes"`
		ThreatEntryTypes []string      `json:"threatEntryTypes"`
		ThreatEntries    []threatEntry `json:"threatEntries"`
	} `json:"threatInfo"`
}

type findThreatMatchesResponse struct {
	Matches []struct {
		ThreatType string      `json:"threatType"`
		Threat     threatEntry `json:"threat"`
	} `json:"matches"`
}

// CheckURL looks the URL up. URLs without a scheme are checked as http://.
func (c *SafeBrowsingClient) CheckURL(ctx context.Context, rawURL string) (*model.URLSignal, error) {
	var payload findThreatMatchesRequest
	payload.Client.ClientID = "scam-service"
	payload.Client.ClientVersion = "1.0.0"
	payload.ThreatInfo.ThreatTypes = safeBrowsingThreatTypes
	payload.ThreatInfo.PlatformTypes = []string{"ANY_PLATFORM"}
	payload.ThreatInfo.ThreatEntryTypes = []string{"URL"}
	payload.ThreatInfo.ThreatEntries = []threatEntry{{URL: withScheme(rawURL)}}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := c.baseURL + "/threatMatches:find?key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("safe browsing API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := readBody("safe browsing", resp)
	if err != nil {
		return nil, err
	}

	var result findThreatMatchesResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(result.Matches) == 0 {
		return &model.URLSignal{IsSafe: true}, nil
	}
	return &model.URLSignal{IsSafe: false, ThreatType: result.Matches[0].ThreatType}, nil
}

func withScheme(raw string) string {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "http://" + raw
}
