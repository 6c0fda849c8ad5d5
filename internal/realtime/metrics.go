package realtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "realtime_connections_active",
			Help: "Sessions currently registered in the hub",
		},
	)

	messagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_messages_published_total",
			Help: "Messages published to rooms by event",
		},
		[]string{"event"},
	)

	messagesDelivered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "realtime_messages_delivered_total",
			Help: "Messages queued to session send buffers",
		},
	)

	messagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "realtime_messages_dropped_total",
			Help: "Messages dropped because a session send buffer was full",
		},
	)
)
