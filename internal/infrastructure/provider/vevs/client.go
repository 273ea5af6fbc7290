// Package vevs fetches reservation rows from a VEVS car-rental website
// feed. Transport only: every row it returns goes through the
// reconciliation engine untouched.
package vevs

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

// FetchReservations pulls the current reservation list. VEVS wraps rows in
// a {"data": [...]} envelope; feed.Rows handles that along with the other
// shapes.
func (c *Client) FetchReservations(ctx context.Context) ([]feed.Row, error) {
	url := fmt.Sprintf("%s/api/reservations?key=%s", c.baseURL, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reservations: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("VEVS feed returned non-OK status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, fmt.Errorf("vevs feed returned status %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	rows, err := feed.Rows(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to parse vevs payload: %w", err)
	}

	c.logger.Debug("Fetched VEVS reservations", zap.Int("rows", len(rows)))
	return rows, nil
}
