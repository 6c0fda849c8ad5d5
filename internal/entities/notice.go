package entities

import "time"

// События, которые gateway доставляет клиентам.
const (
	EventOrderAvailable   = "order:available"
	EventPaymentConfirmed = "order:payment_confirmed"
	EventOrderNew         = "order:new"
	EventRiderAssigned    = "order:rider_assigned"
	EventStatusChanged    = "order:status_changed"
	EventOrderExpired     = "order:expired"
)

// OrderNotice payload push-уведомления о заказе.
type OrderNotice struct {
	OrderID          string      `json:"orderId"`
	Status           OrderStatus `json:"status"`
	RestaurantID     string      `json:"restaurantId,omitempty"`
	RiderID          string      `json:"riderId,omitempty"`
	PickupLocation   *Location   `json:"pickupLocation,omitempty"`
	DeliveryLocation *Location   `json:"deliveryLocation,omitempty"`
	DistanceMeters   float64     `json:"distanceMeters,omitempty"`
	At               time.Time   `json:"at"`
}

func NoticeFromOrder(o *Order, at time.Time) OrderNotice {
	notice := OrderNotice{
		OrderID:      o.ID,
		Status:       o.Status,
		RestaurantID: o.RestaurantID,
		At:           at.UTC(),
	}
	if o.RiderID != nil {
		notice.RiderID = *o.RiderID
	}
	return notice
}
