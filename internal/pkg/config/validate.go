package config

import (
	"errors"
	"time"
)

const (
	defaultKafkaRetryMax             = 5
	defaultKafkaRetryInitialInterval = 5 * time.Second
	defaultKafkaRetryMaxInterval     = 60 * time.Second
	defaultNotifyTimeout             = 2 * time.Second
	defaultHandshakeTimeout          = 5 * time.Second
	defaultWriteTimeout              = 5 * time.Second
	defaultAccessTimeout             = 3 * time.Second
	defaultSendBuffer                = 64
	defaultDispatchConcurrency       = 16
	defaultExpiryBatch               = 500
)

func ValidateServer(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server port is required (set via PORT env variable)")
	}
	if cfg.Server.RequestTimeout == time.Duration(0) {
		return errors.New("MIDDLEWARE_REQUEST_TIMEOUT is required")
	}
	if cfg.Server.RateLimiterQPS == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_QPS is required")
	}
	if cfg.Server.RateLimiterBurst == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_BURST is required")
	}
	if cfg.Server.PprofPort == "" && cfg.Server.PprofEnabled {
		return errors.New("PprofPort is required (set via PPROF_PORT env variable)")
	}
	return nil
}

func ValidateDatabase(cfg *Config) error {
	if cfg.Database.Host == "" {
		return errors.New("POSTGRES_HOST is required")
	}
	if cfg.Database.Port == "" {
		return errors.New("POSTGRES_PORT is required")
	}
	if cfg.Database.User == "" {
		return errors.New("POSTGRES_USER is required")
	}
	if cfg.Database.Password == "" {
		return errors.New("POSTGRES_PASSWORD is required")
	}
	if cfg.Database.DBName == "" {
		return errors.New("POSTGRES_DB is required")
	}
	if cfg.Database.SSLMode == "" {
		return errors.New("POSTGRES_SSLMODE is required")
	}
	return nil
}

// ValidateKafka общие настройки брокера и политика повторов (с дефолтами).
func ValidateKafka(cfg *Config) error {
	if cfg.Kafka.Brokers == "" {
		return errors.New("KAFKA_BROKERS is required")
	}
	if cfg.Kafka.Sarama.Version == "" {
		return errors.New("KAFKA_SARAMA_VERSION is required")
	}

	if cfg.Kafka.Retry.MaxRetries == 0 {
		cfg.Kafka.Retry.MaxRetries = defaultKafkaRetryMax
	}
	if cfg.Kafka.Retry.InitialInterval == time.Duration(0) {
		cfg.Kafka.Retry.InitialInterval = defaultKafkaRetryInitialInterval
	}
	if cfg.Kafka.Retry.MaxInterval == time.Duration(0) {
		cfg.Kafka.Retry.MaxInterval = defaultKafkaRetryMaxInterval
	}
	if cfg.Kafka.Retry.MaxInterval < cfg.Kafka.Retry.InitialInterval {
		return errors.New("KAFKA_RETRY_MAX_INTERVAL must not be less than KAFKA_RETRY_INITIAL_INTERVAL")
	}
	return nil
}

func ValidateKafkaWorker(cfg *Config) error {
	if cfg.Kafka.PortHealthcheck == "" {
		return errors.New("KAFKA_HTTP_HEALTHCHECK_PORT is required")
	}
	return nil
}

func ValidatePaymentSuccessHandler(cfg *Config) error {
	if cfg.Kafka.Topics.PaymentSuccess == "" {
		return errors.New("KAFKA_TOPIC_PAYMENT_SUCCESS is required")
	}
	if cfg.Kafka.Handlers.PaymentSuccess.ConsumerGroup == "" {
		return errors.New("KAFKA_HANDLER_PAYMENT_SUCCESS_GROUP is required")
	}
	if cfg.Kafka.Handlers.PaymentSuccess.ProcessTimeout == time.Duration(0) {
		return errors.New("KAFKA_HANDLER_PAYMENT_SUCCESS_PROCESS_TIMEOUT is required")
	}
	return nil
}

func ValidateOrderReadyForPickupHandler(cfg *Config) error {
	if cfg.Kafka.Topics.OrderReadyForPickup == "" {
		return errors.New("KAFKA_TOPIC_ORDER_READY_FOR_PICKUP is required")
	}
	if cfg.Kafka.Handlers.OrderReadyForPickup.ConsumerGroup == "" {
		return errors.New("KAFKA_HANDLER_ORDER_READY_FOR_PICKUP_GROUP is required")
	}
	if cfg.Kafka.Handlers.OrderReadyForPickup.ProcessTimeout == time.Duration(0) {
		return errors.New("KAFKA_HANDLER_ORDER_READY_FOR_PICKUP_PROCESS_TIMEOUT is required")
	}
	return nil
}

// ValidateNotifier клиент internal emit, которым пользуются service и воркеры.
func ValidateNotifier(cfg *Config) error {
	if cfg.Realtime.GatewayURL == "" {
		return errors.New("REALTIME_GATEWAY_URL is required")
	}
	if cfg.Realtime.GatewayGRPCHost == "" {
		return errors.New("REALTIME_GATEWAY_GRPC_HOST is required")
	}
	if cfg.Realtime.InternalKey == "" {
		return errors.New("REALTIME_INTERNAL_KEY is required")
	}
	if cfg.Realtime.NotifyTimeout == time.Duration(0) {
		cfg.Realtime.NotifyTimeout = defaultNotifyTimeout
	}
	return nil
}

func ValidateGateway(cfg *Config) error {
	if cfg.Realtime.Port == "" {
		return errors.New("REALTIME_PORT is required")
	}
	if cfg.Realtime.GRPCPort == "" {
		return errors.New("REALTIME_GRPC_PORT is required")
	}
	if cfg.Realtime.InternalKey == "" {
		return errors.New("REALTIME_INTERNAL_KEY is required")
	}
	if cfg.Realtime.OrderServiceURL == "" {
		return errors.New("ORDER_SERVICE_URL is required")
	}
	if cfg.Realtime.BackplaneEnabled && cfg.Kafka.Topics.RealtimeBackplane == "" {
		return errors.New("KAFKA_TOPIC_REALTIME_BACKPLANE is required when REALTIME_BACKPLANE_ENABLED")
	}
	if cfg.Realtime.HandshakeTimeout == time.Duration(0) {
		cfg.Realtime.HandshakeTimeout = defaultHandshakeTimeout
	}
	if cfg.Realtime.WriteTimeout == time.Duration(0) {
		cfg.Realtime.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Realtime.SendBuffer == 0 {
		cfg.Realtime.SendBuffer = defaultSendBuffer
	}
	if cfg.Realtime.AccessTimeout == time.Duration(0) {
		cfg.Realtime.AccessTimeout = defaultAccessTimeout
	}
	return nil
}

func ValidateAuth(cfg *Config) error {
	if cfg.Auth.JWTSecret == "" && cfg.Auth.JWTPublicKeyPath == "" {
		return errors.New("AUTH_JWT_SECRET or AUTH_JWT_PUBLIC_KEY_PATH is required")
	}
	if cfg.Auth.JWTSecret != "" && cfg.Auth.JWTPublicKeyPath != "" {
		return errors.New("only one of AUTH_JWT_SECRET and AUTH_JWT_PUBLIC_KEY_PATH may be set")
	}
	return nil
}

func ValidateDispatch(cfg *Config) error {
	if cfg.Dispatch.RadiusMeters <= 0 {
		return errors.New("DISPATCH_RADIUS_METERS is required")
	}
	if cfg.Dispatch.Concurrency == 0 {
		cfg.Dispatch.Concurrency = defaultDispatchConcurrency
	}
	return nil
}

func ValidateOrders(cfg *Config) error {
	if cfg.Orders.PaymentTTL == time.Duration(0) {
		return errors.New("ORDERS_PAYMENT_TTL is required")
	}
	if cfg.Orders.ExpiryEnabled && cfg.Orders.ExpiryInterval == time.Duration(0) {
		return errors.New("ORDERS_EXPIRY_INTERVAL is required when ORDERS_EXPIRY_ENABLED")
	}
	if cfg.Orders.ExpiryBatch <= 0 {
		cfg.Orders.ExpiryBatch = defaultExpiryBatch
	}
	return nil
}

// ValidateReadyTopic сервис публикует ORDER_READY_FOR_PICKUP, но не потребляет его.
func ValidateReadyTopic(cfg *Config) error {
	if cfg.Kafka.Topics.OrderReadyForPickup == "" {
		return errors.New("KAFKA_TOPIC_ORDER_READY_FOR_PICKUP is required")
	}
	return nil
}

// ValidateBackplane проверяет kafka, только если backplane включен.
func ValidateBackplane(cfg *Config) error {
	if !cfg.Realtime.BackplaneEnabled {
		return nil
	}
	return ValidateKafka(cfg)
}
