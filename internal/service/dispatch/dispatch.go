package dispatch

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/paulmach/orb/geo"
	"golang.org/x/sync/errgroup"
	"orderflow/internal/entities"
)

type Config struct {
	RadiusMeters float64
	Concurrency  int
}

// Dispatch рассылает готовый заказ свободным курьерам рядом с рестораном.
// Кто из них получит заказ, решает AcceptOrder.
type Dispatch struct {
	orders   OrderService
	couriers CourierRepository
	notifier Notifier
	cfg      Config
	now      func() time.Time
}

func New(orders OrderService, couriers CourierRepository, notifier Notifier, cfg Config) *Dispatch {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}

	return &Dispatch{
		orders:   orders,
		couriers: couriers,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *Dispatch) OfferOrder(ctx context.Context, orderID string, pickup entities.Location) (*entities.OfferResult, error) {
	if err := pickup.Validate(); err != nil {
		return nil, fmt.Errorf("pickup location: %w", err)
	}

	order, err := s.orders.MarkReadyForPickup(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("mark ready for pickup: %w", err)
	}

	offers, err := s.candidates(ctx, pickup)
	if err != nil {
		return nil, err
	}

	notice := entities.NoticeFromOrder(order, s.now())
	notice.PickupLocation = &pickup
	notice.DeliveryLocation = &order.DeliveryLocation

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

	for _, offer := range offers {
		offerNotice := notice
		offerNotice.DistanceMeters = offer.DistanceMeters

		g.Go(func() error {
			err := s.notifier.Emit(gctx, entities.UserRoom(offer.CourierID), entities.EventOrderAvailable, offerNotice)
			if err != nil {
				return fmt.Errorf("offer to courier %s: %w", offer.CourierID, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDispatchFailed, err)
	}

	return &entities.OfferResult{
		OrderID: order.ID,
		Offers:  offers,
	}, nil
}

// candidates грубый отбор по bounding box в базе, затем точный по haversine.
func (s *Dispatch) candidates(ctx context.Context, pickup entities.Location) ([]entities.CourierOffer, error) {
	center := pickup.Point()
	bound := geo.NewBoundAroundPoint(center, s.cfg.RadiusMeters)

	couriers, err := s.couriers.FindAvailableWithin(ctx, bound)
	if err != nil {
		return nil, fmt.Errorf("find couriers: %w", err)
	}

	offers := make([]entities.CourierOffer, 0, len(couriers))
	for _, c := range couriers {
		distance := geo.DistanceHaversine(center, c.Location.Point())
		if distance > s.cfg.RadiusMeters {
			continue
		}
		offers = append(offers, entities.CourierOffer{
			CourierID:      c.ID,
			DistanceMeters: distance,
		})
	}

	if len(offers) == 0 {
		return nil, ErrNoCandidateFound
	}

	slices.SortFunc(offers, func(a, b entities.CourierOffer) int {
		return cmp.Compare(a.DistanceMeters, b.DistanceMeters)
	})
	return offers, nil
}
