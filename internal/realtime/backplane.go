package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"orderflow/internal/entities"
	"orderflow/internal/events"
)

// Backplane отправляет сообщение через топик, который читают все инстансы
// gateway, каждый доставляет его своим сессиям.
type Backplane struct {
	publisher EventPublisher
	topic     string
}

func NewBackplane(publisher EventPublisher, topic string) *Backplane {
	return &Backplane{
		publisher: publisher,
		topic:     topic,
	}
}

func (b *Backplane) Emit(ctx context.Context, room entities.Room, event string, payload any) error {
	data := &events.RealtimeEmitData{
		Room:  room.String(),
		Event: event,
	}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		data.Payload = raw
	}

	// ключ по комнате сохраняет порядок внутри комнаты
	if err := b.publisher.PublishEvent(ctx, b.topic, room.String(), data); err != nil {
		return fmt.Errorf("publish to backplane: %w", err)
	}
	return nil
}
