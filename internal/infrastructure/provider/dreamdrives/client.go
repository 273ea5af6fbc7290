// Package dreamdrives fetches booking rows from the Dream Drives
// reservation API. Rows come back PascalCase with embedded payment
// sub-records; interpretation is entirely the reconciliation engine's job.
package dreamdrives

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/velorent/rentalsync/internal/config"
	"github.com/velorent/rentalsync/internal/domain/feed"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(cfg config.FeedConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// FetchBookings pulls the booking list, payments included.
func (c *Client) FetchBookings(ctx context.Context) ([]feed.Row, error) {
	url := fmt.Sprintf("%s/v1/bookings?include=payments", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("Dream Drives feed returned non-OK status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, fmt.Errorf("dreamdrives feed returned status %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	rows, err := feed.Rows(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dreamdrives payload: %w", err)
	}

	c.logger.Debug("Fetched Dream Drives bookings", zap.Int("rows", len(rows)))
	return rows, nil
}
