package realtime_backplane

import (
	"context"
	"fmt"

	"orderflow/internal/entities"
	"orderflow/internal/events"
	"orderflow/internal/pkg/kafka"
	"orderflow/pkg/logger"
)

// Handler доставляет сообщения backplane сессиям этого инстанса.
type Handler struct {
	hub Hub
	log handlerLogger
}

func New(log handlerLogger, hub Hub) *Handler {
	return &Handler{
		hub: hub,
		log: log.With(logger.NewField("consumer", "realtime_backplane")),
	}
}

func (h *Handler) Handle(_ context.Context, event events.Event) kafka.Decision {
	data, ok := event.Payload.(*events.RealtimeEmitData)
	if !ok {
		return kafka.DeadLetter(fmt.Sprintf("unexpected payload %T for %s", event.Payload, event.Envelope.Type))
	}

	room, err := entities.ParseRoom(data.Room)
	if err != nil {
		h.log.With(
			logger.NewField("room", data.Room),
			logger.NewField("error", err),
		).Warn("realtime.emit with invalid room")
		return kafka.DeadLetter(fmt.Sprintf("room %q: %s", data.Room, err))
	}

	var payload any
	if len(data.Payload) > 0 {
		payload = data.Payload
	}

	delivered, err := h.hub.Publish(room, data.Event, payload)
	if err != nil {
		return kafka.DeadLetter(err.Error())
	}

	if delivered > 0 {
		h.log.With(
			logger.NewField("room", data.Room),
			logger.NewField("event", data.Event),
			logger.NewField("sessions", delivered),
		).Info("realtime.emit delivered")
	}
	return kafka.Ack()
}
