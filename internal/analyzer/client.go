// Package analyzer provides the client for the external text analysis
// engine. The engine's scoring payload is treated as opaque data: it is
// decoded only far enough to be stored and returned verbatim.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/paperiq/paperiq-api/internal/config"
	"github.com/paperiq/paperiq-api/internal/domain"
)

// ErrEngineUnavailable indicates the analysis engine could not be reached or
// returned a non-success status. The caller may retry later.
var ErrEngineUnavailable = errors.New("analysis engine unavailable")

// Client defines the interface to the analysis engine.
type Client interface {
	// Analyze submits raw text to the engine and returns its scoring
	// payload. The payload contains at least an overall score, the three
	// named sub-scores, a diagnostics mapping and flagged sentences, but
	// this client does not depend on that shape.
	Analyze(ctx context.Context, text string) (domain.AnalysisResult, error)
}

// HTTPClient implements Client over the engine's JSON request/response API.
type HTTPClient struct {
	url        string
	httpClient *http.Client
}

// NewHTTPClient creates a client for the engine endpoint in cfg.
func NewHTTPClient(cfg config.AnalyzerConfig) *HTTPClient {
	return &HTTPClient{
		url: cfg.URL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// Ensure HTTPClient implements Client interface
var _ Client = (*HTTPClient)(nil)

// analyzeRequest is the engine's request payload.
type analyzeRequest struct {
	Text string `json:"text"`
}

// Analyze implements the Client interface.
func (c *HTTPClient) Analyze(ctx context.Context, text string) (domain.AnalysisResult, error) {
	body, err := json.Marshal(analyzeRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: engine returned status %d", ErrEngineUnavailable, resp.StatusCode)
	}

	var result domain.AnalysisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode engine response: %v", ErrEngineUnavailable, err)
	}

	return result, nil
}
