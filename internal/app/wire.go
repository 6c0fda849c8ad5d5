//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
	realtimeGateway "orderflow/internal/gateway/http/realtime"
	"orderflow/internal/handlers/kafka-consumer/order_ready_for_pickup"
	"orderflow/internal/handlers/kafka-consumer/payment_success"
	"orderflow/internal/handlers/kafka-consumer/realtime_backplane"
	"orderflow/internal/handlers/tasks/order_expiry"
	"orderflow/internal/pkg/config"
	"orderflow/internal/pkg/kafka"
	"orderflow/internal/realtime"
	courierRepo "orderflow/internal/repository/courier"
	deadLetterRepo "orderflow/internal/repository/dead_letter"
	orderRepo "orderflow/internal/repository/order"
	"orderflow/internal/service/dispatch"
	"orderflow/internal/service/escalation"
	orderService "orderflow/internal/service/order"
	"orderflow/pkg/logger"
)

// InitializeApplication для HTTP сервиса (cmd/service)
func InitializeApplication(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	producer *kafka.Producer,
	cfg *config.Config,
) (*Application, error) {
	wire.Build(
		provideQuerier,
		provideOrderRepository,
		provideHTTPClient,
		provideNotifier,
		provideOrderService,
		provideVerifier,

		provideOrderExpiryTask,
		provideTaskList,
		provideBackgroundWorkers,

		wire.Struct(new(Application), "*"),

		wire.Bind(new(ServiceOrder), new(*orderService.Service)),
		wire.Bind(new(orderService.Repository), new(*orderRepo.Repository)),
		wire.Bind(new(orderService.Notifier), new(*realtimeGateway.Gateway)),
		wire.Bind(new(orderService.EventPublisher), new(*kafka.Producer)),
		wire.Bind(new(order_expiry.Service), new(*orderService.Service)),
	)
	return &Application{}, nil
}

// InitializePaymentSuccessWorker для cmd/worker-payment-success
func InitializePaymentSuccessWorker(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	producer *kafka.Producer,
	cfg *config.Config,
) (*WorkerApp, error) {
	wire.Build(
		provideQuerier,
		provideOrderRepository,
		provideDeadLetterRepository,
		provideHTTPClient,
		provideNotifier,
		provideOrderService,
		provideEscalation,

		providePaymentSuccessHandler,
		providePaymentSuccessConsumerHandler,

		wire.Struct(new(WorkerApp), "*"),

		wire.Bind(new(orderService.Repository), new(*orderRepo.Repository)),
		wire.Bind(new(orderService.Notifier), new(*realtimeGateway.Gateway)),
		wire.Bind(new(orderService.EventPublisher), new(*kafka.Producer)),
		wire.Bind(new(escalation.Repository), new(*deadLetterRepo.Repository)),
		wire.Bind(new(payment_success.Service), new(*orderService.Service)),
	)
	return nil, nil
}

// InitializeOrderReadyForPickupWorker для cmd/worker-order-ready-for-pickup
func InitializeOrderReadyForPickupWorker(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	producer *kafka.Producer,
	cfg *config.Config,
) (*WorkerApp, error) {
	wire.Build(
		provideQuerier,
		provideOrderRepository,
		provideCourierRepository,
		provideDeadLetterRepository,
		provideHTTPClient,
		provideNotifier,
		provideOrderService,
		provideDispatch,
		provideEscalation,

		provideOrderReadyForPickupHandler,
		provideOrderReadyForPickupConsumerHandler,

		wire.Struct(new(WorkerApp), "*"),

		wire.Bind(new(orderService.Repository), new(*orderRepo.Repository)),
		wire.Bind(new(orderService.Notifier), new(*realtimeGateway.Gateway)),
		wire.Bind(new(orderService.EventPublisher), new(*kafka.Producer)),
		wire.Bind(new(dispatch.OrderService), new(*orderService.Service)),
		wire.Bind(new(dispatch.CourierRepository), new(*courierRepo.Repository)),
		wire.Bind(new(dispatch.Notifier), new(*realtimeGateway.Gateway)),
		wire.Bind(new(escalation.Repository), new(*deadLetterRepo.Repository)),
		wire.Bind(new(order_ready_for_pickup.Dispatcher), new(*dispatch.Dispatch)),
	)
	return nil, nil
}

// InitializeGatewayApp для cmd/gateway. producer nil, если backplane выключен.
func InitializeGatewayApp(
	log logger.Logger,
	producer *kafka.Producer,
	cfg *config.Config,
) (*GatewayApp, error) {
	wire.Build(
		provideHub,
		provideVerifier,
		provideEmitter,
		provideHTTPClient,
		provideOrderAccess,
		provideBackplaneHandler,
		provideBackplaneConsumerHandler,

		wire.Struct(new(GatewayApp), "*"),

		wire.Bind(new(realtime_backplane.Hub), new(*realtime.Hub)),
	)
	return nil, nil
}
