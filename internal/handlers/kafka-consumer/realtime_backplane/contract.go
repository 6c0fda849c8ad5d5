//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=realtime_backplane_test
package realtime_backplane

import (
	"orderflow/internal/entities"
	"orderflow/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Hub interface {
	Publish(room entities.Room, event string, payload any) (int, error)
}
