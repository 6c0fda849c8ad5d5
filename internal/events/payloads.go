package events

import (
	"encoding/json"
	"fmt"
)

var registry = map[Type]func() Payload{
	PaymentSuccess:      func() Payload { return &PaymentSuccessData{} },
	OrderReadyForPickup: func() Payload { return &OrderReadyForPickupData{} },
	RealtimeEmit:        func() Payload { return &RealtimeEmitData{} },
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type PaymentSuccessData struct {
	OrderID          string `json:"orderId"`
	PaymentReference string `json:"paymentReference"`
}

func (*PaymentSuccessData) EventType() Type { return PaymentSuccess }

func (d *PaymentSuccessData) Validate() error {
	if d.OrderID == "" {
		return fmt.Errorf("%w: orderId is required", ErrInvalidPayload)
	}
	if d.PaymentReference == "" {
		return fmt.Errorf("%w: paymentReference is required", ErrInvalidPayload)
	}
	return nil
}

type OrderReadyForPickupData struct {
	OrderID        string    `json:"orderId"`
	PickupLocation *Location `json:"pickupLocation"`
}

func (*OrderReadyForPickupData) EventType() Type { return OrderReadyForPickup }

func (d *OrderReadyForPickupData) Validate() error {
	if d.OrderID == "" {
		return fmt.Errorf("%w: orderId is required", ErrInvalidPayload)
	}
	if d.PickupLocation == nil {
		return fmt.Errorf("%w: pickupLocation is required", ErrInvalidPayload)
	}
	l := d.PickupLocation
	if l.Lat < -90 || l.Lat > 90 || l.Lng < -180 || l.Lng > 180 {
		return fmt.Errorf("%w: pickupLocation out of range", ErrInvalidPayload)
	}
	return nil
}

// RealtimeEmitData сообщение backplane между инстансами gateway.
type RealtimeEmitData struct {
	Room    string          `json:"room"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (*RealtimeEmitData) EventType() Type { return RealtimeEmit }

func (d *RealtimeEmitData) Validate() error {
	if d.Room == "" || d.Event == "" {
		return fmt.Errorf("%w: room and event are required", ErrInvalidPayload)
	}
	return nil
}
