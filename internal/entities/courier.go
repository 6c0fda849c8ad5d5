package entities

import "time"

// Courier read-модель курьера, пишется внешним сервисом.
type Courier struct {
	ID                string
	Location          Location
	IsAvailable       bool
	IsVerified        bool
	LocationUpdatedAt time.Time
}

// CourierOffer кандидат, получивший предложение заказа.
type CourierOffer struct {
	CourierID      string
	DistanceMeters float64
}

type OfferResult struct {
	OrderID string
	Offers  []CourierOffer
}
