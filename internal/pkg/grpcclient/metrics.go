package grpcclient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// GatewayServing 1 после успешной проверки health, 0 если gateway так и не ответил SERVING.
var GatewayServing = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "realtime_gateway_serving",
	Help: "Whether the realtime gateway reported SERVING at startup",
})
