package events

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrMalformedEnvelope = errors.New("malformed envelope")
	ErrUnknownType       = errors.New("unknown event type")
	ErrInvalidPayload    = errors.New("invalid event payload")
)

type Type string

const (
	PaymentSuccess      Type = "PAYMENT_SUCCESS"
	OrderReadyForPickup Type = "ORDER_READY_FOR_PICKUP"
	RealtimeEmit        Type = "REALTIME_EMIT"
)

func (t Type) String() string {
	return string(t)
}

// Envelope единственный формат, который пересекает границу сервиса.
type Envelope struct {
	Type      Type            `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// Payload типизированное содержимое data.
type Payload interface {
	EventType() Type
	Validate() error
}

// Event разобранный конверт вместе с payload.
type Event struct {
	Envelope Envelope
	Payload  Payload
}

func New(payload Payload, at time.Time) (Envelope, error) {
	if err := payload.Validate(); err != nil {
		return Envelope{}, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", payload.EventType(), err)
	}

	return Envelope{
		Type:      payload.EventType(),
		Data:      data,
		Timestamp: at.UTC(),
	}, nil
}

func Marshal(payload Payload, at time.Time) ([]byte, error) {
	env, err := New(payload, at)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

// Decode разбирает конверт и payload по тегу type. Неизвестные типы и
// невалидные payload отсекаются здесь и до бизнес-логики не доходят.
func Decode(raw []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Event{}, fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}
	if env.Type == "" {
		return Event{}, fmt.Errorf("%w: type is required", ErrMalformedEnvelope)
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return Event{}, fmt.Errorf("%w: data is required", ErrMalformedEnvelope)
	}

	newPayload, ok := registry[env.Type]
	if !ok {
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}

	payload := newPayload()
	if err := json.Unmarshal(env.Data, payload); err != nil {
		return Event{}, fmt.Errorf("%w: %s: %w", ErrInvalidPayload, env.Type, err)
	}
	if err := payload.Validate(); err != nil {
		return Event{}, fmt.Errorf("%s: %w", env.Type, err)
	}

	return Event{Envelope: env, Payload: payload}, nil
}
