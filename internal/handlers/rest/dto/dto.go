package dto

import (
	"encoding/json"
	"time"

	"orderflow/internal/entities"
)

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (l Location) ToDomain() entities.Location {
	return entities.Location{Lat: l.Lat, Lng: l.Lng}
}

type OrderCreateRequest struct {
	RestaurantID     string    `json:"restaurantId"`
	PickupLocation   *Location `json:"pickupLocation"`
	DeliveryLocation *Location `json:"deliveryLocation"`
}

type StatusChangeRequest struct {
	Status string `json:"status"`
}

type Order struct {
	ID               string     `json:"id"`
	UserID           string     `json:"userId"`
	RestaurantID     string     `json:"restaurantId"`
	Status           string     `json:"status"`
	PaymentStatus    string     `json:"paymentStatus"`
	RiderID          *string    `json:"riderId"`
	PickupLocation   Location   `json:"pickupLocation"`
	DeliveryLocation Location   `json:"deliveryLocation"`
	ExpiresAt        *time.Time `json:"expiresAt"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func OrderFromDomain(o *entities.Order) Order {
	return Order{
		ID:               o.ID,
		UserID:           o.UserID,
		RestaurantID:     o.RestaurantID,
		Status:           o.Status.String(),
		PaymentStatus:    o.PaymentStatus.String(),
		RiderID:          o.RiderID,
		PickupLocation:   Location{Lat: o.PickupLocation.Lat, Lng: o.PickupLocation.Lng},
		DeliveryLocation: Location{Lat: o.DeliveryLocation.Lat, Lng: o.DeliveryLocation.Lng},
		ExpiresAt:        o.ExpiresAt,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

type AcceptResponse struct {
	Success bool   `json:"success"`
	RiderID string `json:"riderId,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

type EmitRequest struct {
	Event   string          `json:"event"`
	Room    string          `json:"room"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type EmitResponse struct {
	Success bool `json:"success"`
}

type PingResponse struct {
	Message *string `json:"message,omitempty"`
	Service string  `json:"service,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
