//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=payment_success_test
package payment_success

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
	SettlePayment(ctx context.Context, id, reference string) (*entities.Settlement, error)
}
