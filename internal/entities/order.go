package entities

import "time"

type Order struct {
	ID               string
	UserID           string
	RestaurantID     string
	Status           OrderStatus
	PaymentStatus    PaymentStatus
	PaymentReference *string
	RiderID          *string
	PickupLocation   Location
	DeliveryLocation Location
	ExpiresAt        *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type OrderCreate struct {
	UserID           string
	RestaurantID     string
	PickupLocation   Location
	DeliveryLocation Location
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func (s PaymentStatus) String() string {
	return string(s)
}

// Settlement результат применения PAYMENT_SUCCESS.
type Settlement struct {
	Order *Order
	// AlreadySettled - повторная доставка события, изменений нет.
	AlreadySettled bool
	// NotifyErr ошибка best-effort уведомления, на результат не влияет.
	NotifyErr error
}

const ReasonAlreadyAssigned = "already assigned"

type AssignmentResult struct {
	Success bool
	RiderID string
	Reason  string
}
