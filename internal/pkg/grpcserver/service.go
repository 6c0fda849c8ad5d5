package grpcserver

// ServiceRealtime имя сервиса в grpc.health.v1, которое отдает gateway.
const ServiceRealtime = "orderflow.realtime"
