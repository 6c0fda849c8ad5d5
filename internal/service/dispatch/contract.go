//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=dispatch_test
package dispatch

import (
	"context"

	"github.com/paulmach/orb"
	"orderflow/internal/entities"
)

type OrderService interface {
	MarkReadyForPickup(ctx context.Context, id string) (*entities.Order, error)
}

type CourierRepository interface {
	FindAvailableWithin(ctx context.Context, bound orb.Bound) ([]entities.Courier, error)
}

type Notifier interface {
	Emit(ctx context.Context, room entities.Room, event string, payload any) error
}
