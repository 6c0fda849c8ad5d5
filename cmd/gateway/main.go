package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	application "orderflow/internal/app"
	"orderflow/internal/handlers/rest/healthcheck_head"
	"orderflow/internal/handlers/rest/internal_emit_post"
	"orderflow/internal/handlers/rest/ping_get"
	"orderflow/internal/handlers/ws/connect"
	"orderflow/internal/pkg/config"
	"orderflow/internal/pkg/dotenv"
	"orderflow/internal/pkg/grpcserver"
	"orderflow/internal/pkg/kafka"
	metrics_system "orderflow/internal/pkg/metrics"
	"orderflow/internal/pkg/middlewares/graceful_shutdown"
	"orderflow/internal/pkg/middlewares/metrics"
	"orderflow/internal/pkg/middlewares/timeout"
	"orderflow/pkg/logger"
	"orderflow/pkg/logger/zap_adapter"
)

const (
	serviceName = "realtime-gateway"

	backplaneGroupPrefix = "realtime-gateway-"
	emitTimeout          = 5 * time.Second
)

func main() {
	if err := dotenv.Load(); err != nil {
		stdlog.Fatalf("failed to load .env file: %v", err)
	}

	cfg, err := config.Load(
		config.ValidateGateway,
		config.ValidateAuth,
		config.ValidateBackplane,
	)
	if err != nil {
		stdlog.Fatalf("load config: %v", err)
	}

	zapLogger, err := zap_adapter.NewZapAdapter(cfg.Log.Level, serviceName)
	if err != nil {
		stdlog.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := zapLogger.Sync(); err != nil {
			stdlog.Printf("failed to sync logger: %v", err)
		}
	}()

	var appLogger logger.Logger = zapLogger
	mainLog := appLogger.With()

	mainLog.Info("starting realtime gateway")

	err = run(context.Background(), cfg, appLogger)
	if err != nil {
		mainLog.Error("application failed", logger.NewField("error", err))
		return
	}
}

//nolint:contextcheck // shutdownCtx и ongoingCtx намеренно наследуются от context.Background()
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	const (
		shutdownPeriod      = 15 * time.Second
		readinessDrainDelay = 5 * time.Second
	)

	var isShuttingDown atomic.Bool

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	runLog := log.With()

	var producer *kafka.Producer
	if cfg.Realtime.BackplaneEnabled {
		p, err := kafka.NewProducer(ctx, log, &cfg.Kafka)
		if err != nil {
			return fmt.Errorf("kafka producer: %w", err)
		}
		producer = p

		defer func() {
			err := producer.Close()
			if err != nil {
				runLog.Error("failed to close kafka producer",
					logger.NewField("error", err),
				)
			}
		}()
	}

	gatewayApp, err := application.InitializeGatewayApp(log, producer, cfg)
	if err != nil {
		return fmt.Errorf("gateway: %w", err)
	}

	metrics_system.StartSystemMetricsCollector(ctx)

	// ongoingCtx живет до server.Shutdown(); его отмена закрывает websocket сессии.
	ongoingCtx, stopOngoingGracefully := context.WithCancel(context.Background())
	defer stopOngoingGracefully()

	wsHandler := connect.New(log, gatewayApp.Hub, gatewayApp.Verifier, gatewayApp.OrderAccess, connect.Config{
		HandshakeTimeout: cfg.Realtime.HandshakeTimeout,
		WriteTimeout:     cfg.Realtime.WriteTimeout,
		SendBuffer:       cfg.Realtime.SendBuffer,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Realtime.Port),
		Handler: initRouter(ongoingCtx, log, &isShuttingDown, gatewayApp, wsHandler, cfg),
		BaseContext: func(_ net.Listener) context.Context {
			return ongoingCtx
		},

		// Read/WriteTimeout не выставляем: websocket соединения долгоживущие,
		// дедлайны записи держит сам обработчик.
		ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		defer close(serverErr)
		runLog.Info("server starting",
			logger.NewField("port", cfg.Realtime.Port),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	healthServer := grpcserver.NewHealthServer(log, grpcserver.ServiceRealtime)
	healthServerErr := make(chan error, 1)
	go func() {
		defer close(healthServerErr)
		if err := healthServer.ListenAndServe(cfg.Realtime.GRPCPort); err != nil {
			healthServerErr <- err
		}
	}()

	var consumer *kafka.Consumer
	consumerErr := make(chan error, 1)
	if gatewayApp.Backplane != nil {
		// своя группа у каждого инстанса: каждое сообщение backplane получают все gateway
		groupID := backplaneGroupPrefix + uuid.NewString()

		consumer, err = kafka.NewConsumer(
			ctx,
			log,
			&cfg.Kafka,
			groupID,
			[]string{cfg.Kafka.Topics.RealtimeBackplane},
			sarama.OffsetNewest,
			gatewayApp.Backplane,
		)
		if err != nil {
			return fmt.Errorf("backplane consumer: %w", err)
		}

		go func() {
			defer close(consumerErr)
			if err := consumer.Start(ongoingCtx); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, sarama.ErrClosedConsumerGroup) {
					runLog.Info("backplane consumer stopped gracefully")
				} else {
					consumerErr <- err
				}
			}
		}()
	}

	select {
	case <-ctx.Done():
		runLog.Info("shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	case err := <-healthServerErr:
		return fmt.Errorf("grpc health server: %w", err)
	case err := <-consumerErr:
		return fmt.Errorf("backplane consumer: %w", err)
	}

	stop()
	isShuttingDown.Store(true)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)
	defer cancel()

	// NOT_SERVING раньше дренажа, чтобы клиенты health перестали считать инстанс живым
	healthServer.Shutdown(shutdownCtx)

	time.Sleep(readinessDrainDelay)
	runLog.Info("draining connections")

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		runLog.Error("server shutdown error", logger.NewField("error", err))
	}

	// hijacked websocket соединения Shutdown не ждет, закрываем их отменой ongoingCtx
	stopOngoingGracefully()

	if consumer != nil {
		if err := consumer.Close(); err != nil {
			runLog.With(logger.NewField("error", err)).Error("failed to close backplane consumer")
		}
	}

	runLog.Info("gateway stopped")
	return nil
}

func initRouter(
	ongoingCtx context.Context,
	log logger.Logger,
	isShuttingDown *atomic.Bool,
	app *application.GatewayApp,
	wsHandler http.Handler,
	cfg *config.Config,
) http.Handler {
	router := mux.NewRouter()

	router.Use(graceful_shutdown.Middleware(isShuttingDown, ongoingCtx))
	router.Use(metrics.Middleware(log))
	router.Handle("/metrics", promhttp.Handler())

	router.Handle("/healthcheck", healthcheck_head.New(isShuttingDown)).Methods("HEAD")
	router.Handle("/ping", ping_get.New(log, serviceName)).Methods("GET")

	router.Handle("/ws", wsHandler).Methods("GET")

	internal := router.PathPrefix("/internal").Subrouter()
	internal.Use(timeout.Middleware(emitTimeout))
	internal.Handle("/emit", internal_emit_post.New(log, app.Emitter, cfg.Realtime.InternalKey)).Methods("POST")

	return router
}
