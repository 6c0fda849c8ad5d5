package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type (
	Log struct {
		Level string
	}

	HTTPServer struct {
		Port             string
		RequestTimeout   time.Duration // middleware timeout
		RateLimiterQPS   int           // middleware rate limiter rate
		RateLimiterBurst int           // middleware rate limiter burst
		PprofEnabled     bool
		PprofPort        string
	}

	Database struct {
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
		SSLMode  string
		Migrate  bool
	}

	Kafka struct {
		PortHealthcheck string
		Brokers         string
		Sarama          Sarama
		Topics          KafkaTopics
		Retry           KafkaRetry
		Handlers        KafkaHandlers
	}

	Sarama struct {
		Version                   string
		ConsumerOffsetsAutocommit bool
	}

	KafkaTopics struct {
		PaymentSuccess      string
		OrderReadyForPickup string
		RealtimeBackplane   string
	}

	// KafkaRetry политика requeue: после MaxRetries сообщение уходит в dead-letter.
	KafkaRetry struct {
		MaxRetries      int
		InitialInterval time.Duration
		MaxInterval     time.Duration
	}

	KafkaHandlers struct {
		PaymentSuccess      KafkaHandler
		OrderReadyForPickup KafkaHandler
	}

	KafkaHandler struct {
		ConsumerGroup  string
		ProcessTimeout time.Duration
	}

	// Realtime клиентская (notifier) и серверная (gateway) части.
	Realtime struct {
		GatewayURL       string
		GatewayGRPCHost  string
		InternalKey      string
		NotifyTimeout    time.Duration
		Port             string
		GRPCPort         string
		HandshakeTimeout time.Duration
		WriteTimeout     time.Duration
		SendBuffer       int
		BackplaneEnabled bool
		// OrderServiceURL gateway спрашивает у сервиса заказов, можно ли войти в order:<id>.
		OrderServiceURL string
		AccessTimeout   time.Duration
	}

	Auth struct {
		JWTSecret        string
		JWTPublicKeyPath string
	}

	Dispatch struct {
		RadiusMeters float64
		Concurrency  int
	}

	Orders struct {
		PaymentTTL     time.Duration
		ExpiryEnabled  bool
		ExpiryInterval time.Duration
		ExpiryBatch    int
	}

	Config struct {
		Log      Log
		Server   HTTPServer
		Database Database
		Kafka    Kafka
		Realtime Realtime
		Auth     Auth
		Dispatch Dispatch
		Orders   Orders
	}
)

// Section проверка секции, нужной конкретному бинарнику.
type Section func(cfg *Config) error

// Load читает все переменные окружения и валидирует только переданные секции.
func Load(sections ...Section) (*Config, error) {
	cfg, err := loadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("environment loading: %w", err)
	}

	for _, validate := range sections {
		if err := validate(cfg); err != nil {
			return nil, fmt.Errorf("validation: %w", err)
		}
	}
	return cfg, nil
}

func loadFromEnv() (*Config, error) {
	var errs []error

	requestTimeout := osGetEnvDuration("MIDDLEWARE_REQUEST_TIMEOUT", &errs)
	rateLimiterQPS := osGetInt("MIDDLEWARE_RATE_LIMIT_QPS", &errs)
	rateLimiterBurst := osGetInt("MIDDLEWARE_RATE_LIMIT_BURST", &errs)
	pprofEnabled := osGetBool("PPROF_ENABLED", &errs)

	migrate := osGetBool("POSTGRES_MIGRATE", &errs)

	saramaOffsetsAutocommit := osGetBool("KAFKA_SARAMA_OFFSETS_AUTOCOMMIT", &errs)
	retryMax := osGetInt("KAFKA_RETRY_MAX", &errs)
	retryInitial := osGetEnvDuration("KAFKA_RETRY_INITIAL_INTERVAL", &errs)
	retryMaxInterval := osGetEnvDuration("KAFKA_RETRY_MAX_INTERVAL", &errs)
	paymentTimeout := osGetEnvDuration("KAFKA_HANDLER_PAYMENT_SUCCESS_PROCESS_TIMEOUT", &errs)
	readyTimeout := osGetEnvDuration("KAFKA_HANDLER_ORDER_READY_FOR_PICKUP_PROCESS_TIMEOUT", &errs)

	notifyTimeout := osGetEnvDuration("REALTIME_NOTIFY_TIMEOUT", &errs)
	handshakeTimeout := osGetEnvDuration("REALTIME_HANDSHAKE_TIMEOUT", &errs)
	writeTimeout := osGetEnvDuration("REALTIME_WRITE_TIMEOUT", &errs)
	accessTimeout := osGetEnvDuration("REALTIME_ACCESS_TIMEOUT", &errs)
	sendBuffer := osGetInt("REALTIME_SEND_BUFFER", &errs)
	backplaneEnabled := osGetBool("REALTIME_BACKPLANE_ENABLED", &errs)

	radius := osGetFloat("DISPATCH_RADIUS_METERS", &errs)
	concurrency := osGetInt("DISPATCH_CONCURRENCY", &errs)

	paymentTTL := osGetEnvDuration("ORDERS_PAYMENT_TTL", &errs)
	expiryEnabled := osGetBool("ORDERS_EXPIRY_ENABLED", &errs)
	expiryInterval := osGetEnvDuration("ORDERS_EXPIRY_INTERVAL", &errs)
	expiryBatch := osGetInt("ORDERS_EXPIRY_BATCH", &errs)

	if len(errs) > 0 {
		return nil, fmt.Errorf("loading config: %w", errors.Join(errs...))
	}

	return &Config{
		Log: Log{
			Level: os.Getenv("LOG_LEVEL"),
		},
		Server: HTTPServer{
			Port:             os.Getenv("PORT"),
			RequestTimeout:   requestTimeout,
			RateLimiterQPS:   rateLimiterQPS,
			RateLimiterBurst: rateLimiterBurst,
			PprofEnabled:     pprofEnabled,
			PprofPort:        os.Getenv("PPROF_PORT"),
		},
		Database: Database{
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     os.Getenv("POSTGRES_PORT"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
			Migrate:  migrate,
		},
		Kafka: Kafka{
			Brokers:         os.Getenv("KAFKA_BROKERS"),
			PortHealthcheck: os.Getenv("KAFKA_HTTP_HEALTHCHECK_PORT"),
			Sarama: Sarama{
				Version:                   os.Getenv("KAFKA_SARAMA_VERSION"),
				ConsumerOffsetsAutocommit: saramaOffsetsAutocommit,
			},
			Topics: KafkaTopics{
				PaymentSuccess:      os.Getenv("KAFKA_TOPIC_PAYMENT_SUCCESS"),
				OrderReadyForPickup: os.Getenv("KAFKA_TOPIC_ORDER_READY_FOR_PICKUP"),
				RealtimeBackplane:   os.Getenv("KAFKA_TOPIC_REALTIME_BACKPLANE"),
			},
			Retry: KafkaRetry{
				MaxRetries:      retryMax,
				InitialInterval: retryInitial,
				MaxInterval:     retryMaxInterval,
			},
			Handlers: KafkaHandlers{
				PaymentSuccess: KafkaHandler{
					ConsumerGroup:  os.Getenv("KAFKA_HANDLER_PAYMENT_SUCCESS_GROUP"),
					ProcessTimeout: paymentTimeout,
				},
				OrderReadyForPickup: KafkaHandler{
					ConsumerGroup:  os.Getenv("KAFKA_HANDLER_ORDER_READY_FOR_PICKUP_GROUP"),
					ProcessTimeout: readyTimeout,
				},
			},
		},
		Realtime: Realtime{
			GatewayURL:       strings.TrimRight(os.Getenv("REALTIME_GATEWAY_URL"), "/"),
			GatewayGRPCHost:  os.Getenv("REALTIME_GATEWAY_GRPC_HOST"),
			InternalKey:      os.Getenv("REALTIME_INTERNAL_KEY"),
			NotifyTimeout:    notifyTimeout,
			Port:             os.Getenv("REALTIME_PORT"),
			GRPCPort:         os.Getenv("REALTIME_GRPC_PORT"),
			HandshakeTimeout: handshakeTimeout,
			WriteTimeout:     writeTimeout,
			SendBuffer:       sendBuffer,
			BackplaneEnabled: backplaneEnabled,
			OrderServiceURL:  strings.TrimRight(os.Getenv("ORDER_SERVICE_URL"), "/"),
			AccessTimeout:    accessTimeout,
		},
		Auth: Auth{
			JWTSecret:        os.Getenv("AUTH_JWT_SECRET"),
			JWTPublicKeyPath: os.Getenv("AUTH_JWT_PUBLIC_KEY_PATH"),
		},
		Dispatch: Dispatch{
			RadiusMeters: radius,
			Concurrency:  concurrency,
		},
		Orders: Orders{
			PaymentTTL:     paymentTTL,
			ExpiryEnabled:  expiryEnabled,
			ExpiryInterval: expiryInterval,
			ExpiryBatch:    expiryBatch,
		},
	}, nil
}

func osGetInt(s string, errs *[]error) int {
	val := os.Getenv(s)
	if val == "" {
		return 0
	}

	res, err := strconv.Atoi(val)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid int format for %s=%q: %w", s, val, err))
		return 0
	}
	return res
}

func osGetFloat(s string, errs *[]error) float64 {
	val := os.Getenv(s)
	if val == "" {
		return 0
	}

	res, err := strconv.ParseFloat(val, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid float format for %s=%q: %w", s, val, err))
		return 0
	}
	return res
}

func osGetEnvDuration(s string, errs *[]error) time.Duration {
	val := os.Getenv(s)
	if val == "" {
		return time.Duration(0)
	}

	res, err := time.ParseDuration(val)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid duration format for %s=%q: %w", s, val, err))
		return time.Duration(0)
	}
	return res
}

func osGetBool(s string, errs *[]error) bool {
	val := os.Getenv(s)
	if val == "" {
		return false
	}

	res, err := strconv.ParseBool(val)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid bool format for %s=%q: %w", s, val, err))
		return false
	}
	return res
}
