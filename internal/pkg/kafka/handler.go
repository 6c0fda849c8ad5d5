package kafka

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"orderflow/internal/entities"
	"orderflow/internal/events"
	"orderflow/pkg/logger"
)

type HandlerOptions struct {
	// Name метка для логов и метрик.
	Name           string
	MaxRetries     int
	ProcessTimeout time.Duration
	Autocommit     bool
}

// ConsumerGroupHandler применяет Decision бизнес-обработчика к сообщению:
// ack, отложенный requeue через retry-топик или dead-letter.
type ConsumerGroupHandler struct {
	log       handlerLogger
	handler   Handler
	publisher Publisher
	sink      DeadLetterSink
	retrier   Retrier
	scheduler Scheduler
	opts      HandlerOptions
	now       func() time.Time
}

// NewConsumerGroupHandler. sink может быть nil, тогда dead-letter только публикуется в dlq-топик.
func NewConsumerGroupHandler(
	log handlerLogger,
	handler Handler,
	publisher Publisher,
	sink DeadLetterSink,
	retrier Retrier,
	scheduler Scheduler,
	opts HandlerOptions,
) *ConsumerGroupHandler {
	return &ConsumerGroupHandler{
		log: log.With(
			logger.NewField("handler", opts.Name),
		),
		handler:   handler,
		publisher: publisher,
		sink:      sink,
		retrier:   retrier,
		scheduler: scheduler,
		opts:      opts,
		now:       time.Now,
	}
}

func (h *ConsumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *ConsumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *ConsumerGroupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				h.log.Info("claim messages channel closed, exiting ConsumeClaim")
				return nil
			}

			shouldExit := h.messageProcessing(sess, message)
			if shouldExit {
				return nil
			}

		case <-sess.Context().Done():
			// rebalance или остановка consumer group
			h.log.Info("session context done, exiting ConsumeClaim")
			return nil
		}
	}
}

// messageProcessing обрабатывает одно сообщение.
// Возвращает true, если сессия закрыта: offset не помечен и сообщение придет повторно.
func (h *ConsumerGroupHandler) messageProcessing(sess sarama.ConsumerGroupSession, message *sarama.ConsumerMessage) bool {
	sessCtx := sess.Context()
	attempt := attemptOf(message)

	msgLog := h.log.With(
		logger.NewField("topic", message.Topic),
		logger.NewField("partition", message.Partition),
		logger.NewField("offset", message.Offset),
		logger.NewField("attempt", attempt),
	)

	if !h.waitNotBefore(sessCtx, message) {
		msgLog.Warn("session closed while waiting for retry delay, message will be redelivered")
		return true
	}

	var (
		decision  Decision
		eventType string
	)

	event, err := events.Decode(message.Value)
	if err != nil {
		msgLog.With(
			logger.NewField("error", err),
		).Warn("undecodable message, sending to dead letter")
		decision = DeadLetter(err.Error())
	} else {
		eventType = event.Envelope.Type.String()
		decision = h.handle(sessCtx, event)
	}

	if sessCtx.Err() != nil {
		msgLog.Warn("session context done during processing, message will be redelivered")
		return true
	}

	err = h.apply(sessCtx, msgLog, message, attempt, eventType, decision)
	if err != nil {
		msgLog.With(
			logger.NewField("error", err),
			logger.NewField("decision", decision.Action.String()),
		).Error("failed to apply decision, message will be redelivered")
		return true
	}

	sess.MarkMessage(message, "")
	if !h.opts.Autocommit {
		sess.Commit()
	}

	messagesTotal.WithLabelValues(h.opts.Name, decision.Action.String()).Inc()
	return false
}

func (h *ConsumerGroupHandler) handle(sessCtx context.Context, event events.Event) Decision {
	start := time.Now()
	defer func() {
		messageProcessingDuration.WithLabelValues(h.opts.Name).Observe(time.Since(start).Seconds())
	}()

	ctx, cancel := context.WithTimeout(sessCtx, h.opts.ProcessTimeout)
	defer cancel()

	return h.handler.Handle(ctx, event)
}

func (h *ConsumerGroupHandler) apply(
	ctx context.Context,
	msgLog logger.Logger,
	message *sarama.ConsumerMessage,
	attempt int,
	eventType string,
	decision Decision,
) error {
	switch decision.Action {
	case ActionAck:
		return nil

	case ActionRequeue:
		if attempt >= h.opts.MaxRetries {
			msgLog.With(
				logger.NewField("reason", decision.Reason),
			).Warn("retries exhausted")
			reason := fmt.Sprintf("retries exhausted: %s", decision.Reason)
			return h.deadLetter(ctx, msgLog, message, attempt, eventType, reason)
		}
		return h.requeue(ctx, msgLog, message, attempt, decision.Reason)

	case ActionDeadLetter:
		return h.deadLetter(ctx, msgLog, message, attempt, eventType, decision.Reason)

	default:
		return fmt.Errorf("unknown decision action %d", decision.Action)
	}
}

func (h *ConsumerGroupHandler) requeue(
	ctx context.Context,
	msgLog logger.Logger,
	message *sarama.ConsumerMessage,
	attempt int,
	reason string,
) error {
	origin := originTopicOf(message)
	delay := h.scheduler.Interval(attempt)
	notBefore := h.now().Add(delay).UTC()

	headers := []sarama.RecordHeader{
		newHeader(HeaderAttempt, strconv.Itoa(attempt+1)),
		newHeader(HeaderOriginTopic, origin),
		newHeader(HeaderNotBefore, notBefore.Format(time.RFC3339Nano)),
	}

	err := h.publish(ctx, RetryTopic(origin), message, headers)
	if err != nil {
		return fmt.Errorf("requeue: %w", err)
	}

	msgLog.With(
		logger.NewField("reason", reason),
		logger.NewField("delay", delay.String()),
	).Warn("message requeued")
	return nil
}

func (h *ConsumerGroupHandler) deadLetter(
	ctx context.Context,
	msgLog logger.Logger,
	message *sarama.ConsumerMessage,
	attempt int,
	eventType string,
	reason string,
) error {
	origin := originTopicOf(message)

	headers := []sarama.RecordHeader{
		newHeader(HeaderAttempt, strconv.Itoa(attempt)),
		newHeader(HeaderOriginTopic, origin),
		newHeader(HeaderReason, reason),
	}

	err := h.publish(ctx, DeadLetterTopic(origin), message, headers)
	if err != nil {
		return fmt.Errorf("dead letter: %w", err)
	}

	msgLog.With(
		logger.NewField("reason", reason),
	).Error("message dead-lettered")

	if h.sink == nil {
		return nil
	}

	letter := entities.DeadLetter{
		ID:        uuid.NewString(),
		Topic:     origin,
		Partition: message.Partition,
		Offset:    message.Offset,
		Key:       string(message.Key),
		EventType: eventType,
		Payload:   message.Value,
		Reason:    reason,
		Attempts:  attempt + 1,
		CreatedAt: h.now().UTC(),
	}

	// сообщение уже лежит в dlq-топике, поэтому ошибка эскалации не блокирует партицию
	err = h.sink.Escalate(ctx, letter)
	if err != nil {
		msgLog.With(
			logger.NewField("error", err),
		).Error("failed to escalate dead letter")
	}
	return nil
}

// publish повторяет отправку, пока не закроется сессия.
func (h *ConsumerGroupHandler) publish(
	ctx context.Context,
	topic string,
	message *sarama.ConsumerMessage,
	headers []sarama.RecordHeader,
) error {
	err := h.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		return h.publisher.Publish(ctx, topic, string(message.Key), message.Value, headers)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			return fmt.Errorf("publish to %s: %w: %w", topic, ctxErr, err)
		}
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

func (h *ConsumerGroupHandler) waitNotBefore(ctx context.Context, message *sarama.ConsumerMessage) bool {
	notBefore, ok := notBeforeOf(message)
	if !ok {
		return true
	}

	delay := notBefore.Sub(h.now())
	if delay <= 0 {
		return true
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
