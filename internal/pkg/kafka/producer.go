package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"orderflow/internal/events"
	"orderflow/internal/pkg/config"
	"orderflow/pkg/logger"
)

const producerRetryMax = 5

// Producer синхронная публикация: Publish возвращается только после подтверждения
// всеми in-sync репликами.
type Producer struct {
	log      logger.Logger
	producer sarama.SyncProducer
	now      func() time.Time
}

func NewProducerConfig(versionStr string) (*sarama.Config, error) {
	cfg := sarama.NewConfig()

	version, err := sarama.ParseKafkaVersion(versionStr)
	if err != nil {
		return nil, fmt.Errorf("parse kafka version %q: %w", versionStr, err)
	}
	cfg.Version = version

	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Retry.Max = producerRetryMax
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.Partitioner = sarama.NewHashPartitioner
	// idempotent producer требует ровно один in-flight запрос
	cfg.Net.MaxOpenRequests = 1

	return cfg, nil
}

func NewProducer(ctx context.Context, log logger.Logger, cfg *config.Kafka) (*Producer, error) {
	brokers := Brokers(cfg)

	saramaConfig, err := NewProducerConfig(cfg.Sarama.Version)
	if err != nil {
		return nil, fmt.Errorf("build producer config: %w", err)
	}

	producerLog := log.With(
		logger.NewField("brokers", brokers),
	)

	err = pingKafka(ctx, producerLog, brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("kafka connection: %w", err)
	}

	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync producer: %w", err)
	}

	return NewProducerFromSarama(producerLog, producer), nil
}

func NewProducerFromSarama(log logger.Logger, producer sarama.SyncProducer) *Producer {
	return &Producer{
		log:      log,
		producer: producer,
		now:      time.Now,
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, value []byte, headers []sarama.RecordHeader) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Value:   sarama.ByteEncoder(value),
		Headers: headers,
	}
	if key != "" {
		msg.Key = sarama.StringEncoder(key)
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		producedTotal.WithLabelValues(topic, "error").Inc()
		return fmt.Errorf("send message to %s: %w", topic, err)
	}
	producedTotal.WithLabelValues(topic, "ok").Inc()

	p.log.With(
		logger.NewField("topic", topic),
		logger.NewField("partition", partition),
		logger.NewField("offset", offset),
	).Info("message published")
	return nil
}

// PublishEvent упаковывает payload в конверт. Ключом служит id заказа,
// чтобы события одного заказа попадали в одну партицию.
func (p *Producer) PublishEvent(ctx context.Context, topic, key string, payload events.Payload) error {
	value, err := events.Marshal(payload, p.now())
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", payload.EventType(), err)
	}
	return p.Publish(ctx, topic, key, value, nil)
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
