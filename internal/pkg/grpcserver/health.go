package grpcserver

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"orderflow/pkg/logger"
)

// HealthServer отдает grpc.health.v1 для одного сервиса.
type HealthServer struct {
	server  *grpc.Server
	health  *health.Server
	service string
	log     logger.Logger
}

func NewHealthServer(log logger.Logger, service string) *HealthServer {
	server := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)

	healthServer.SetServingStatus(service, healthpb.HealthCheckResponse_NOT_SERVING)

	return &HealthServer{
		server:  server,
		health:  healthServer,
		service: service,
		log: log.With(
			logger.NewField("component", "grpc-health-server"),
			logger.NewField("service", service),
		),
	}
}

func (s *HealthServer) Serve(lis net.Listener) error {
	s.health.SetServingStatus(s.service, healthpb.HealthCheckResponse_SERVING)
	s.log.With(logger.NewField("addr", lis.Addr().String())).Info("gRPC health server listening")

	if err := s.server.Serve(lis); err != nil {
		return fmt.Errorf("grpc health server: %w", err)
	}
	return nil
}

func (s *HealthServer) ListenAndServe(port string) error {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}
	return s.Serve(lis)
}

// Shutdown сначала NOT_SERVING, чтобы клиенты перестали слать трафик.
func (s *HealthServer) Shutdown(ctx context.Context) {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.server.Stop()
	}
}
