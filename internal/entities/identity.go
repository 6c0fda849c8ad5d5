package entities

const (
	RoleCustomer   = "customer"
	RoleRestaurant = "restaurant"
	RoleRider      = "rider"
)

// Identity проверенная личность из bearer токена.
type Identity struct {
	UserID       string
	RestaurantID string
	Role         string
}

// Rooms комнаты, в которые соединение входит сразу после рукопожатия.
func (i Identity) Rooms() []Room {
	rooms := []Room{UserRoom(i.UserID)}
	if i.RestaurantID != "" {
		rooms = append(rooms, RestaurantRoom(i.RestaurantID))
	}
	return rooms
}

// CanView участник заказа: клиент, его ресторан или назначенный курьер.
func (i Identity) CanView(o *Order) bool {
	switch {
	case i.UserID != "" && i.UserID == o.UserID:
		return true
	case i.RestaurantID != "" && i.RestaurantID == o.RestaurantID:
		return true
	case i.UserID != "" && o.RiderID != nil && *o.RiderID == i.UserID:
		return true
	default:
		return false
	}
}
