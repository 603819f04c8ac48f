package sampledata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/GTTribe/tribe-ratings/internal/domain/types"
	"github.com/GTTribe/tribe-ratings/pkg/logger"
)

// HTTPClient wraps http.Client with a base URL and timeout
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a client for the service at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Ready checks GET /readyz.
func (c *HTTPClient) Ready(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/readyz")
	return err
}

// Reload asks the service to rebuild its snapshot.
func (c *HTTPClient) Reload(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/reload")
	return err
}

// Leaderboard fetches every ranked row.
func (c *HTTPClient) Leaderboard(ctx context.Context) ([]types.Entry, error) {
	body, err := c.do(ctx, http.MethodGet, "/leaderboard")
	if err != nil {
		return nil, err
	}
	var entries []types.Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: decode leaderboard: %w", ErrService, err)
	}
	return entries, nil
}

func (c *HTTPClient) do(ctx context.Context, method, route string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+route, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrService, method, route, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrService, route, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s %s returned %d", ErrService, method, route, resp.StatusCode)
	}
	return body, nil
}
