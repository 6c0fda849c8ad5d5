//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=order_test
package order

import (
	"context"
	"time"

	"orderflow/internal/entities"
	"orderflow/internal/events"
	"orderflow/pkg/logger"
)

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Repository interface {
	Create(ctx context.Context, order entities.Order) (*entities.Order, error)
	GetByID(ctx context.Context, id string) (*entities.Order, error)
	// TransitionStatus пустой owner не ограничивает участника.
	TransitionStatus(
		ctx context.Context,
		id string,
		from []entities.OrderStatus,
		to entities.OrderStatus,
		owner entities.OrderOwner,
	) (*entities.Order, error)
	SettlePayment(ctx context.Context, id string, reference string) (*entities.Order, error)
	AssignRider(ctx context.Context, id string, riderID string) (*entities.Order, error)
	ExpireOverdue(ctx context.Context, now time.Time, limit int) ([]entities.Order, error)
}

type Notifier interface {
	Emit(ctx context.Context, room entities.Room, event string, payload any) error
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, key string, payload events.Payload) error
}
