package reputation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bibbank/scam-service/internal/domain/model"
	"github.com/bibbank/scam-service/internal/domain/port"
	"github.com/bibbank/scam-service/internal/domain/valueobject"
)

// Compile-time interface check.
var _ port.PhoneReputationProvider = (*TwilioLookupClient)(nil)

// TwilioLookupClient implements port.PhoneReputationProvider using Twilio
// Lookup v2 line type intelligence.
type TwilioLookupClient struct {
	accountSID    string
	authToken     string
	baseURL       string
	defaultRegion string
	client        *http.Client
}

// NewTwilioLookupClient creates a new Twilio Lookup client. defaultRegion is
// the ISO country used for numbers written in national format.
func NewTwilioLookupClient(accountSID, authToken, baseURL, defaultRegion string, timeout time.Duration) *TwilioLookupClient {
	return &TwilioLookupClient{
		accountSID:    accountSID,
		authToken:     authToken,
		baseURL:       strings.TrimRight(baseURL, "/"),
		defaultRegion: defaultRegion,
		client:        newHTTPClient(timeout),
	}
}

type lookupResponse struct {
	LineTypeIntelligence *struct {
		Type        string `json:"type"`
		CarrierName string `json:"carrier_name"`
	} `json:"line_type_intelligence"`
	PhoneNumber string `json:"phone_number"`
	Valid       bool   `json:"valid"`
}

// LookupPhone validates the number and classifies its line type.
func (c *TwilioLookupClient) LookupPhone(ctx context.Context, phone string) (*model.PhoneSignal, error) {
	number := phone
	if strings.HasPrefix(number, "00") {
		number = "+" + strings.TrimPrefix(number, "00")
	}

	query := url.Values{"Fields": {"line_type_intelligence"}}
	if !strings.HasPrefix(number, "+") && c.defaultRegion != "" {
		query.Set("CountryCode", c.defaultRegion)
	}
	endpoint := c.baseURL + "/PhoneNumbers/" + url.PathEscape(number) + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twilio lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &model.PhoneSignal{Valid: false}, nil
	}

	body, err := readBody("twilio lookup", resp)
	if err != nil {
		return nil, err
	}

	var result lookupResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	sig := &model.PhoneSignal{Valid: result.Valid}
	if lti := result.LineTypeIntelligence; lti != nil {
		sig.LineType = valueobject.LineTypeFromCarrierType(lti.Type)
		sig.Carrier = lti.CarrierName
	}
	return sig, nil
}
