//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=order_ready_for_pickup_test
package order_ready_for_pickup

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

type Dispatcher interface {
	OfferOrder(ctx context.Context, orderID string, pickup entities.Location) (*entities.OfferResult, error)
}
