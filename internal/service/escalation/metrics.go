package escalation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var deadLettersTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dead_letters_total",
		Help: "Messages escalated to operators by origin topic and reason class",
	},
	[]string{"topic", "reason"},
)
