package orders

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"orderflow/internal/pkg/config"
)

const ordersPath = "/orders/"

// Client спрашивает у сервиса заказов, видит ли владелец токена заказ.
// Правило видимости живет в сервисе заказов, gateway его не дублирует.
type Client struct {
	client  httpClient
	baseURL string
	timeout time.Duration
}

func New(client httpClient, cfg *config.Realtime) *Client {
	return &Client{
		client:  client,
		baseURL: strings.TrimRight(cfg.OrderServiceURL, "/") + ordersPath,
		timeout: cfg.AccessTimeout,
	}
}

func (c *Client) CanView(ctx context.Context, token, orderID string) (bool, error) {
	allowed, err := c.canView(ctx, token, orderID)

	switch {
	case err != nil:
		AccessChecksTotal.WithLabelValues("error").Inc()
	case allowed:
		AccessChecksTotal.WithLabelValues("allowed").Inc()
	default:
		AccessChecksTotal.WithLabelValues("denied").Inc()
	}
	return allowed, err
}

func (c *Client) canView(ctx context.Context, token, orderID string) (bool, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+url.PathEscape(orderID), nil)
	if err != nil {
		return false, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrOrderServiceUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("%w: status %d", ErrOrderServiceUnavailable, resp.StatusCode)
	}
}
