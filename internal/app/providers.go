package app

import (
	"context"
	"net/http"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/jackc/pgx/v5/pgxpool"
	ordersGateway "orderflow/internal/gateway/http/orders"
	realtimeGateway "orderflow/internal/gateway/http/realtime"
	"orderflow/internal/handlers/kafka-consumer/order_ready_for_pickup"
	"orderflow/internal/handlers/kafka-consumer/payment_success"
	"orderflow/internal/handlers/kafka-consumer/realtime_backplane"
	"orderflow/internal/handlers/rest/internal_emit_post"
	"orderflow/internal/handlers/rest/order_accept_post"
	"orderflow/internal/handlers/rest/order_get"
	"orderflow/internal/handlers/rest/order_post"
	"orderflow/internal/handlers/rest/order_ready_post"
	"orderflow/internal/handlers/rest/order_status_post"
	"orderflow/internal/handlers/tasks/order_expiry"
	"orderflow/internal/pkg/auth"
	"orderflow/internal/pkg/config"
	"orderflow/internal/pkg/kafka"
	"orderflow/internal/realtime"
	courierRepo "orderflow/internal/repository/courier"
	deadLetterRepo "orderflow/internal/repository/dead_letter"
	orderRepo "orderflow/internal/repository/order"
	"orderflow/internal/service/dispatch"
	"orderflow/internal/service/escalation"
	orderService "orderflow/internal/service/order"
	"orderflow/pkg/background"
	"orderflow/pkg/logger"
	"orderflow/pkg/querier"
	retrierconfig "orderflow/pkg/retrier"
	"orderflow/pkg/retrier/backoff_adapter"
)

const (
	publishInitialInterval = 200 * time.Millisecond
	publishMaxInterval     = 5 * time.Second
	requeueRandomization   = 0.2
	backoffMultiplier      = 2

	notifierIdleConns       = 32
	notifierIdleConnTimeout = 90 * time.Second
)

type Application struct {
	OrderService      ServiceOrder
	Verifier          *auth.Verifier
	BackgroundWorkers *background.Worker
}

type ServiceOrder interface {
	order_post.Service
	order_get.Service
	order_status_post.Service
	order_ready_post.Service
	order_accept_post.Service
}

// WorkerApp обработчик consumer group одного топика вместе с retry-топиком.
type WorkerApp struct {
	Handler *kafka.ConsumerGroupHandler
}

type GatewayApp struct {
	Hub      *realtime.Hub
	Verifier *auth.Verifier
	Emitter  internal_emit_post.Emitter
	// OrderAccess проверяет join в комнаты order:<id> через сервис заказов
	OrderAccess *ordersGateway.Client
	// Backplane nil, если REALTIME_BACKPLANE_ENABLED=false
	Backplane *kafka.ConsumerGroupHandler
}

func provideQuerier(pool *pgxpool.Pool, getter *pgxv5.CtxGetter) *querier.Querier {
	return querier.New(pool, getter)
}

func provideOrderRepository(querier *querier.Querier) *orderRepo.Repository {
	return orderRepo.New(querier)
}

func provideCourierRepository(querier *querier.Querier) *courierRepo.Repository {
	return courierRepo.New(querier)
}

func provideDeadLetterRepository(querier *querier.Querier) *deadLetterRepo.Repository {
	return deadLetterRepo.New(querier)
}

// provideHTTPClient без общего Timeout: у каждого запроса (emit, проверка доступа) свой дедлайн.
func provideHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConnsPerHost: notifierIdleConns,
			IdleConnTimeout:     notifierIdleConnTimeout,
		},
	}
}

func provideNotifier(client *http.Client, cfg *config.Config) *realtimeGateway.Gateway {
	return realtimeGateway.New(client, &cfg.Realtime)
}

func provideOrderAccess(client *http.Client, cfg *config.Config) *ordersGateway.Client {
	return ordersGateway.New(client, &cfg.Realtime)
}

func provideOrderService(
	log logger.Logger,
	repository orderService.Repository,
	notifier orderService.Notifier,
	publisher orderService.EventPublisher,
	cfg *config.Config,
) *orderService.Service {
	return orderService.New(log, repository, notifier, publisher, orderService.Config{
		PaymentTTL: cfg.Orders.PaymentTTL,
		ReadyTopic: cfg.Kafka.Topics.OrderReadyForPickup,
	})
}

func provideVerifier(cfg *config.Config) (*auth.Verifier, error) {
	return auth.NewVerifier(&cfg.Auth)
}

func provideDispatch(
	orders dispatch.OrderService,
	couriers dispatch.CourierRepository,
	notifier dispatch.Notifier,
	cfg *config.Config,
) *dispatch.Dispatch {
	return dispatch.New(orders, couriers, notifier, dispatch.Config{
		RadiusMeters: cfg.Dispatch.RadiusMeters,
		Concurrency:  cfg.Dispatch.Concurrency,
	})
}

func provideEscalation(log logger.Logger, repository escalation.Repository) *escalation.Escalation {
	return escalation.New(log, repository)
}

func provideOrderExpiryTask(log logger.Logger, service order_expiry.Service, cfg *config.Config) *order_expiry.OrderExpiry {
	return order_expiry.NewOrderExpiry(log, service, cfg.Orders.ExpiryInterval, cfg.Orders.ExpiryBatch)
}

// provideTaskList пустой список, если ORDERS_EXPIRY_ENABLED=false (свипер внешний).
func provideTaskList(cfg *config.Config, orderExpiryTask *order_expiry.OrderExpiry) []background.Task {
	if !cfg.Orders.ExpiryEnabled {
		return nil
	}
	return []background.Task{
		orderExpiryTask,
	}
}

func provideBackgroundWorkers(ctx context.Context, log logger.Logger, tasks []background.Task) (*background.Worker, error) {
	return background.New(ctx, log, tasks)
}

func providePaymentSuccessHandler(log logger.Logger, service payment_success.Service) *payment_success.Handler {
	return payment_success.New(log, service)
}

func providePaymentSuccessConsumerHandler(
	log logger.Logger,
	handler *payment_success.Handler,
	producer *kafka.Producer,
	sink *escalation.Escalation,
	cfg *config.Config,
) *kafka.ConsumerGroupHandler {
	return newConsumerGroupHandler(log, handler, producer, sink, cfg, kafka.HandlerOptions{
		Name:           "payment_success",
		MaxRetries:     cfg.Kafka.Retry.MaxRetries,
		ProcessTimeout: cfg.Kafka.Handlers.PaymentSuccess.ProcessTimeout,
		Autocommit:     cfg.Kafka.Sarama.ConsumerOffsetsAutocommit,
	})
}

func provideOrderReadyForPickupHandler(log logger.Logger, dispatcher order_ready_for_pickup.Dispatcher) *order_ready_for_pickup.Handler {
	return order_ready_for_pickup.New(log, dispatcher)
}

func provideOrderReadyForPickupConsumerHandler(
	log logger.Logger,
	handler *order_ready_for_pickup.Handler,
	producer *kafka.Producer,
	sink *escalation.Escalation,
	cfg *config.Config,
) *kafka.ConsumerGroupHandler {
	return newConsumerGroupHandler(log, handler, producer, sink, cfg, kafka.HandlerOptions{
		Name:           "order_ready_for_pickup",
		MaxRetries:     cfg.Kafka.Retry.MaxRetries,
		ProcessTimeout: cfg.Kafka.Handlers.OrderReadyForPickup.ProcessTimeout,
		Autocommit:     cfg.Kafka.Sarama.ConsumerOffsetsAutocommit,
	})
}

func provideHub(log logger.Logger) *realtime.Hub {
	return realtime.NewHub(log)
}

func provideEmitter(cfg *config.Config, hub *realtime.Hub, producer *kafka.Producer) internal_emit_post.Emitter {
	if cfg.Realtime.BackplaneEnabled {
		return realtime.NewBackplane(producer, cfg.Kafka.Topics.RealtimeBackplane)
	}
	return hub
}

func provideBackplaneHandler(log logger.Logger, hub realtime_backplane.Hub) *realtime_backplane.Handler {
	return realtime_backplane.New(log, hub)
}

// provideBackplaneConsumerHandler без requeue: устаревшее realtime сообщение повторять незачем.
func provideBackplaneConsumerHandler(
	log logger.Logger,
	handler *realtime_backplane.Handler,
	producer *kafka.Producer,
	cfg *config.Config,
) *kafka.ConsumerGroupHandler {
	if !cfg.Realtime.BackplaneEnabled {
		return nil
	}

	return newConsumerGroupHandler(log, handler, producer, nil, cfg, kafka.HandlerOptions{
		Name:           "realtime_backplane",
		MaxRetries:     0,
		ProcessTimeout: cfg.Realtime.WriteTimeout,
		Autocommit:     cfg.Kafka.Sarama.ConsumerOffsetsAutocommit,
	})
}

func newConsumerGroupHandler(
	log logger.Logger,
	handler kafka.Handler,
	producer *kafka.Producer,
	sink *escalation.Escalation,
	cfg *config.Config,
	opts kafka.HandlerOptions,
) *kafka.ConsumerGroupHandler {
	// публикация в retry/dlq повторяется до закрытия сессии
	publishRetrier := backoff_adapter.New(retrierconfig.Config{
		InitialInterval: publishInitialInterval,
		MaxInterval:     publishMaxInterval,
		Randomization:   requeueRandomization,
		Multiplier:      backoffMultiplier,
	})

	scheduler := backoff_adapter.New(retrierconfig.Config{
		InitialInterval: cfg.Kafka.Retry.InitialInterval,
		MaxInterval:     cfg.Kafka.Retry.MaxInterval,
		Randomization:   requeueRandomization,
		Multiplier:      backoffMultiplier,
	})

	var deadLetterSink kafka.DeadLetterSink
	if sink != nil {
		deadLetterSink = sink
	}

	return kafka.NewConsumerGroupHandler(log, handler, producer, deadLetterSink, publishRetrier, scheduler, opts)
}
