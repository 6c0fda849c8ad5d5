package entities

// OrderOwner условие на участника заказа для условного UPDATE. Пустые поля не проверяются,
// нулевое значение пропускает любой заказ.
type OrderOwner struct {
	UserID       string
	RestaurantID string
	RiderID      string
}

func (o OrderOwner) IsZero() bool {
	return o == OrderOwner{}
}

func (o OrderOwner) Matches(order *Order) bool {
	if o.UserID != "" && o.UserID != order.UserID {
		return false
	}
	if o.RestaurantID != "" && o.RestaurantID != order.RestaurantID {
		return false
	}
	if o.RiderID != "" && (order.RiderID == nil || *order.RiderID != o.RiderID) {
		return false
	}
	return true
}
