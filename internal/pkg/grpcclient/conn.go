package grpcclient

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"orderflow/pkg/logger"
	retrierconfig "orderflow/pkg/retrier"
	"orderflow/pkg/retrier/backoff_adapter"
)

const (
	KeepaliveTime                = 5 * time.Minute
	KeepaliveTimeout             = 3 * time.Second
	KeepalivePermitWithoutStream = false

	initialInterval = 1 * time.Second
	maxInterval     = 30 * time.Second
	maxElapsedTime  = 2 * time.Minute
	randomization   = 0.5
	multiplier      = 2
)

// NewHealthConn подключается к gRPC health сервису realtime gateway и проверяет SERVING в фоне.
// Уведомления best-effort, поэтому недоступный gateway старт не блокирует: только предупреждение в лог.
func NewHealthConn(ctx context.Context, log logger.Logger, host, service string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(
		host,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                KeepaliveTime,
			Timeout:             KeepaliveTimeout,
			PermitWithoutStream: KeepalivePermitWithoutStream,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC client: %w", err)
	}

	grpcLog := log.With(
		logger.NewField("component", "grpc-health-client"),
		logger.NewField("host", host),
		logger.NewField("service", service),
	)

	go watchServing(ctx, grpcLog, healthpb.NewHealthClient(conn), service)

	return conn, nil
}

func watchServing(ctx context.Context, log logger.Logger, client healthpb.HealthClient, service string) {
	err := WaitServing(ctx, log, client, service)
	if err == nil {
		GatewayServing.Set(1)
		return
	}
	GatewayServing.Set(0)
	if ctx.Err() != nil {
		return
	}
	log.With(
		logger.NewField("error", err),
	).Warn("realtime gateway is not serving, continuing without it")
}

func WaitServing(ctx context.Context, log logger.Logger, client healthpb.HealthClient, service string) error {
	retryConfig := retrierconfig.Config{
		InitialInterval: initialInterval,
		MaxInterval:     maxInterval,
		MaxElapsedTime:  maxElapsedTime,
		Randomization:   randomization,
		Multiplier:      multiplier,
		ShouldRetry:     nil, // все ошибки ретраим
	}

	retrier := backoff_adapter.New(retryConfig)

	var attempt uint64
	err := retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		attempt++
		log.With(
			logger.NewField("attempt", attempt),
		).Info("checking gRPC health")

		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
		if err != nil {
			return err
		}
		if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
			return fmt.Errorf("service %q is %s", service, resp.GetStatus())
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to reach serving state after %d attempts: %w", attempt, err)
	}

	log.With(
		logger.NewField("attempts", attempt),
	).Info("gRPC health check passed")
	return nil
}
