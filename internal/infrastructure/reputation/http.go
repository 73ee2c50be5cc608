package reputation

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseBytes bounds how much of a provider response is read.
const maxResponseBytes = 1 << 20

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// readBody reads a bounded response body and rejects non-2xx statuses.
func readBody(provider string, resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s API error (status %d): %s", provider, resp.StatusCode, string(body))
	}
	return body, nil
}
