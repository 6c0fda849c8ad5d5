//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=order_expiry_test
package order_expiry

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

type Service interface {
	ExpireOverdueOrders(ctx context.Context, limit int) ([]entities.Order, error)
}
