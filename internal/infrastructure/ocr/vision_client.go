package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bibbank/scam-service/internal/domain/port"
)

// Compile-time interface check.
var _ port.TextExtractor = (*VisionClient)(nil)

// VisionClient implements port.TextExtractor using Google Cloud Vision text detection.
type VisionClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewVisionClient creates a new Cloud Vision client.
func NewVisionClient(apiKey, baseURL string, timeout time.Duration) *VisionClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &VisionClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type annotateRequest struct {
	Requests []imageRequest `json:"requests"`
}

type imageRequest struct {
	Image struct {
		Content string `json:"content"`
	} `json:"image"`
	Features []feature `json:"features"`
}

type feature struct {
	Type string `json:"type"`
}

type annotateResponse struct {
	Responses []struct {
		FullTextAnnotation *struct {
			Text string `json:"text"`
		} `json:"fullTextAnnotation"`
		Error *struct {
			Message string `json:"message"`
			Code    int    `json:"code"`
		} `json:"error"`
	} `json:"responses"`
}

// ExtractText returns the full text detected in image. An image with no
// text yields an empty string and no error.
func (c *VisionClient) ExtractText(ctx context.Context, image []byte) (string, error) {
	var ir imageRequest
	ir.Image.Content = base64.StdEncoding.EncodeToString(image)
	ir.Features = []feature{{Type: "TEXT_DETECTION"}}

	body, err := json.Marshal(annotateRequest{Requests: []imageRequest{ir}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := c.baseURL + "/images:annotate?key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("vision API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("vision API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var out annotateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(out.Responses) == 0 {
		return "", nil
	}
	first := out.Responses[0]
	if first.Error != nil {
		return "", fmt.Errorf("vision annotate error (code %d): %s", first.Error.Code, first.Error.Message)
	}
	if first.FullTextAnnotation == nil {
		return "", nil
	}
	return first.FullTextAnnotation.Text, nil
}
