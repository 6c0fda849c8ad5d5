package order

import (
	"time"

	"orderflow/internal/entities"
)

type OrderDB struct {
	ID               string
	UserID           string
	RestaurantID     string
	Status           string
	PaymentStatus    string
	PaymentReference *string
	RiderID          *string
	PickupLat        float64
	PickupLng        float64
	DeliveryLat      float64
	DeliveryLng      float64
	ExpiresAt        *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

const orderColumns = `id, user_id, restaurant_id, status, payment_status, payment_reference, rider_id,
	pickup_lat, pickup_lng, delivery_lat, delivery_lng, expires_at, created_at, updated_at`

var orderColumnList = []string{
	"id", "user_id", "restaurant_id", "status", "payment_status", "payment_reference", "rider_id",
	"pickup_lat", "pickup_lng", "delivery_lat", "delivery_lng", "expires_at", "created_at", "updated_at",
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (*OrderDB, error) {
	var o OrderDB
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.RestaurantID,
		&o.Status,
		&o.PaymentStatus,
		&o.PaymentReference,
		&o.RiderID,
		&o.PickupLat,
		&o.PickupLng,
		&o.DeliveryLat,
		&o.DeliveryLng,
		&o.ExpiresAt,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func ToDomain(o *OrderDB) *entities.Order {
	if o == nil {
		return nil
	}

	return &entities.Order{
		ID:               o.ID,
		UserID:           o.UserID,
		RestaurantID:     o.RestaurantID,
		Status:           entities.OrderStatus(o.Status),
		PaymentStatus:    entities.PaymentStatus(o.PaymentStatus),
		PaymentReference: o.PaymentReference,
		RiderID:          o.RiderID,
		PickupLocation:   entities.Location{Lat: o.PickupLat, Lng: o.PickupLng},
		DeliveryLocation: entities.Location{Lat: o.DeliveryLat, Lng: o.DeliveryLng},
		ExpiresAt:        o.ExpiresAt,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}
