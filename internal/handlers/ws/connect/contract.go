//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=connect_test
package connect

import (
	"context"

	"orderflow/internal/entities"
	"orderflow/internal/realtime"
	"orderflow/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type TokenVerifier interface {
	Verify(token string) (entities.Identity, error)
}

type Hub interface {
	Register(s *realtime.Session)
	Join(s *realtime.Session, room entities.Room) bool
	Leave(s *realtime.Session, room entities.Room)
	Remove(s *realtime.Session)
}

// OrderAccess решает, может ли владелец токена подписаться на комнату заказа.
type OrderAccess interface {
	CanView(ctx context.Context, token string, orderID string) (bool, error)
}
