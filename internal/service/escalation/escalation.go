package escalation

import (
	"context"
	"fmt"
	"strings"

	"orderflow/internal/entities"
	"orderflow/pkg/logger"
)

const (
	ReasonRetriesExhausted = "retries_exhausted"
	ReasonMalformed        = "malformed"
	ReasonRejected         = "rejected"
)

// Escalation сохраняет письма из dead letter для ручного разбора.
// На dead_letters_total висят алерты.
type Escalation struct {
	repository Repository
	log        handlerLogger
}

func New(log handlerLogger, repository Repository) *Escalation {
	return &Escalation{
		repository: repository,
		log:        log.With(logger.NewField("component", "escalation")),
	}
}

func (e *Escalation) Escalate(ctx context.Context, letter entities.DeadLetter) error {
	if letter.ID == "" || letter.Topic == "" {
		return ErrInvalidLetter
	}

	class := ReasonClass(letter)
	letterLog := e.log.With(
		logger.NewField("letter_id", letter.ID),
		logger.NewField("topic", letter.Topic),
		logger.NewField("key", letter.Key),
		logger.NewField("event_type", letter.EventType),
		logger.NewField("attempts", letter.Attempts),
		logger.NewField("reason", letter.Reason),
	)

	if err := e.repository.Create(ctx, letter); err != nil {
		letterLog.With(logger.NewField("error", err)).Error("failed to persist dead letter")
		return fmt.Errorf("persist dead letter: %w", err)
	}

	deadLettersTotal.WithLabelValues(letter.Topic, class).Inc()
	letterLog.Error("message escalated to dead letter, operator action required")

	return nil
}

// ReasonClass сворачивает причину в ограниченный набор меток.
func ReasonClass(letter entities.DeadLetter) string {
	switch {
	case strings.HasPrefix(letter.Reason, "retries exhausted"):
		return ReasonRetriesExhausted
	case letter.EventType == "":
		return ReasonMalformed
	default:
		return ReasonRejected
	}
}
