package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_total",
			Help: "Consumed messages by handler and applied decision",
		},
		[]string{"handler", "decision"},
	)

	messageProcessingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kafka_message_processing_duration_seconds",
			Help:    "Time spent in a consumer handler per message",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler"},
	)

	producedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_produced_messages_total",
			Help: "Produced messages by topic and result",
		},
		[]string{"topic", "result"},
	)
)
