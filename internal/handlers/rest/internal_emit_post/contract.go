//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=internal_emit_post_test
package internal_emit_post

import (
	"context"

	"orderflow/internal/entities"
	"orderflow/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

// Emitter локальный hub или backplane, если инстансов gateway несколько.
type Emitter interface {
	Emit(ctx context.Context, room entities.Room, event string, payload any) error
}
