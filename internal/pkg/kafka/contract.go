package kafka

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"orderflow/internal/entities"
	"orderflow/internal/events"
	"orderflow/pkg/logger"
)

//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=kafka_test

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

// Handler бизнес-обработчик события. Транспортом не занимается, только решает судьбу сообщения.
type Handler interface {
	Handle(ctx context.Context, event events.Event) Decision
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, value []byte, headers []sarama.RecordHeader) error
}

type DeadLetterSink interface {
	Escalate(ctx context.Context, letter entities.DeadLetter) error
}

type Retrier interface {
	ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error
}

type Scheduler interface {
	Interval(attempt int) time.Duration
}
