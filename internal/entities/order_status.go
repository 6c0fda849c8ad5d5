package entities

type OrderStatus string

const (
	OrderPlaced         OrderStatus = "placed"
	OrderPaymentPending OrderStatus = "payment_pending"
	OrderPaid           OrderStatus = "paid"
	OrderPreparing      OrderStatus = "preparing"
	OrderReadyForPickup OrderStatus = "ready_for_pickup"
	OrderRiderAssigned  OrderStatus = "rider_assigned"
	OrderPickedUp       OrderStatus = "picked_up"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
	OrderExpired        OrderStatus = "expired"
)

// transitions допустимые переходы. cancelled достижим из любого нетерминального статуса.
var transitions = map[OrderStatus][]OrderStatus{
	OrderPlaced:         {OrderPaymentPending, OrderPaid, OrderExpired, OrderCancelled},
	OrderPaymentPending: {OrderPaid, OrderExpired, OrderCancelled},
	OrderPaid:           {OrderPreparing, OrderCancelled},
	OrderPreparing:      {OrderReadyForPickup, OrderCancelled},
	OrderReadyForPickup: {OrderRiderAssigned, OrderCancelled},
	OrderRiderAssigned:  {OrderPickedUp, OrderCancelled},
	OrderPickedUp:       {OrderDelivered, OrderCancelled},
	OrderDelivered:      nil,
	OrderCancelled:      nil,
	OrderExpired:        nil,
}

// progress порядковый номер статуса на основной ветке.
var progress = map[OrderStatus]int{
	OrderPlaced:         0,
	OrderPaymentPending: 1,
	OrderPaid:           2,
	OrderPreparing:      3,
	OrderReadyForPickup: 4,
	OrderRiderAssigned:  5,
	OrderPickedUp:       6,
	OrderDelivered:      7,
}

func (s OrderStatus) String() string {
	return string(s)
}

func (s OrderStatus) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

func (s OrderStatus) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsBeyond true, если s на основной ветке находится строго после other.
// Терминальные cancelled и expired считаются пройденными для любого статуса.
func (s OrderStatus) IsBeyond(other OrderStatus) bool {
	if s == OrderCancelled || s == OrderExpired {
		return true
	}
	sp, ok := progress[s]
	if !ok {
		return false
	}
	op, ok := progress[other]
	if !ok {
		return false
	}
	return sp > op
}

// Predecessors статусы, из которых target достижим одним переходом.
func Predecessors(target OrderStatus) []OrderStatus {
	result := make([]OrderStatus, 0, 2)
	for _, from := range orderedStatuses {
		if from.CanTransitionTo(target) {
			result = append(result, from)
		}
	}
	return result
}

var orderedStatuses = []OrderStatus{
	OrderPlaced,
	OrderPaymentPending,
	OrderPaid,
	OrderPreparing,
	OrderReadyForPickup,
	OrderRiderAssigned,
	OrderPickedUp,
	OrderDelivered,
	OrderCancelled,
	OrderExpired,
}

func StatusStrings(statuses []OrderStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = s.String()
	}
	return result
}
