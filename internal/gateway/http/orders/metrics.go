package orders

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var AccessChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "order_access_checks_total",
		Help: "Order room access checks against the order service",
	},
	[]string{"result"},
)
