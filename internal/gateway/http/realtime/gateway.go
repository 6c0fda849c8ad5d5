package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"orderflow/internal/entities"
	"orderflow/internal/pkg/config"
	retrierconfig "orderflow/pkg/retrier"
	"orderflow/pkg/retrier/backoff_adapter"
)

const (
	emitPath          = "/internal/emit"
	internalKeyHeader = "x-internal-key"
)

const (
	initialInterval = 50 * time.Millisecond
	maxInterval     = 500 * time.Millisecond
	maxRetries      = 2
	randomization   = 0.5
	multiplier      = 2.0
)

type emitRequest struct {
	Event   string `json:"event"`
	Room    string `json:"room"`
	Payload any    `json:"payload,omitempty"`
}

// Gateway клиент внутреннего emit эндпоинта realtime gateway.
// Доставка best-effort: ошибка возвращается, но бизнес-операцию не откатывает.
type Gateway struct {
	client      httpClient
	retrier     retrier
	url         string
	internalKey string
	timeout     time.Duration
}

func New(client httpClient, cfg *config.Realtime) *Gateway {
	retryConfig := retrierconfig.Config{
		InitialInterval: initialInterval,
		MaxInterval:     maxInterval,
		MaxRetries:      maxRetries,
		Randomization:   randomization,
		Multiplier:      multiplier,
		ShouldRetry:     isRetryable,
	}

	return NewWithRetrier(client, backoff_adapter.New(retryConfig), cfg)
}

func NewWithRetrier(client httpClient, retrier retrier, cfg *config.Realtime) *Gateway {
	return &Gateway{
		client:      client,
		retrier:     retrier,
		url:         strings.TrimRight(cfg.GatewayURL, "/") + emitPath,
		internalKey: cfg.InternalKey,
		timeout:     cfg.NotifyTimeout,
	}
}

func (g *Gateway) Emit(ctx context.Context, room entities.Room, event string, payload any) error {
	body, err := json.Marshal(emitRequest{
		Event:   event,
		Room:    room.String(),
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("marshal emit request: %w", err)
	}

	var attempt int
	start := time.Now()

	err = g.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		attempt++
		return g.post(ctx, body)
	})

	result := resultLabel(err)
	GatewayRequestDuration.WithLabelValues(event, result).Observe(time.Since(start).Seconds())
	if attempt > 1 {
		GatewayRetriesTotal.WithLabelValues(event, result).Inc()
	}

	if err != nil {
		return fmt.Errorf("realtime gateway, emit %s to %s: %w", event, room, err)
	}
	return nil
}

func (g *Gateway) post(ctx context.Context, body []byte) error {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %w", ErrEmitRejected, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(internalKeyHeader, g.internalKey)

	resp, err := g.client.Do(req)
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrEmitTimeout, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d", ErrGatewayUnavailable, resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("%w: status %d", ErrEmitRejected, resp.StatusCode)
	}
	return nil
}

// 4xx не ретраим, повтор ничего не изменит. Таймаут тоже: emit мог быть уже доставлен.
func isRetryable(err error) bool {
	return errors.Is(err, ErrGatewayUnavailable)
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrEmitRejected):
		return "rejected"
	case errors.Is(err, ErrEmitTimeout), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "unavailable"
	}
}
