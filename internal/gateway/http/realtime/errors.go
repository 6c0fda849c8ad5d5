package realtime

import "errors"

var (
	ErrEmitRejected       = errors.New("gateway rejected emit")
	ErrGatewayUnavailable = errors.New("gateway unavailable")
	// ErrEmitTimeout запрос мог дойти до gateway, повтор даст дубль события.
	ErrEmitTimeout = errors.New("gateway emit timed out")
)
