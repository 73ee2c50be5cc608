package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bibbank/scam-service/internal/domain/model"
	"github.com/bibbank/scam-service/internal/domain/port"
	"github.com/bibbank/scam-service/internal/domain/valueobject"
)

// Compile-time interface check.
var _ port.StatisticalClassifier = (*HTTPModelClient)(nil)

// HTTPModelClient calls a remote model server that scores named feature vectors.
type HTTPModelClient struct {
	endpoint string
	client   *http.Client
}

// NewHTTPModelClient creates a new model server client.
func NewHTTPModelClient(baseURL string, timeout time.Duration) *HTTPModelClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPModelClient{
		endpoint: strings.TrimRight(baseURL, "/") + "/predict",
		client:   &http.Client{Timeout: timeout},
	}
}

type predictRequest struct {
	Features map[string]float64 `json:"features"`
}

type predictResponse struct {
	ScamProbability *float64       `json:"scam_probability"`
	Confidence      string         `json:"confidence"`
	TopFactors      []model.Factor `json:"top_factors"`
}

// Predict sends the feature vector to the model server.
func (c *HTTPModelClient) Predict(ctx context.Context, features model.FeatureVector) (*model.StatisticalSignal, error) {
	if features.IsZero() {
		return nil, fmt.Errorf("empty feature vector")
	}

	body, err := json.Marshal(predictRequest{Features: features.Map()})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model server request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model server error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var out predictResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if out.ScamProbability == nil {
		return nil, fmt.Errorf("model server response missing scam_probability")
	}

	confidence := valueobject.ModelConfidenceFromProbability(*out.ScamProbability)
	if out.Confidence != "" {
		confidence, err = valueobject.ModelConfidenceFromString(strings.ToLower(out.Confidence))
		if err != nil {
			return nil, fmt.Errorf("model server response: %w", err)
		}
	}

	return &model.StatisticalSignal{
		ScamProbability: *out.ScamProbability,
		Confidence:      confidence,
		TopFactors:      out.TopFactors,
	}, nil
}
