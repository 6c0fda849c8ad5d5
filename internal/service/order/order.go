package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"orderflow/internal/entities"
	"orderflow/internal/events"
	"orderflow/pkg/logger"
)

// apiTargets статусы, которые можно выставить через ChangeStatus.
// paid, ready_for_pickup, rider_assigned и expired имеют собственные операции.
var apiTargets = map[entities.OrderStatus]struct{}{
	entities.OrderPaymentPending: {},
	entities.OrderPreparing:      {},
	entities.OrderPickedUp:       {},
	entities.OrderDelivered:      {},
	entities.OrderCancelled:      {},
}

type Config struct {
	PaymentTTL time.Duration
	ReadyTopic string
}

type Service struct {
	repository Repository
	notifier   Notifier
	publisher  EventPublisher
	log        handlerLogger
	cfg        Config
	now        func() time.Time
}

func New(log handlerLogger, repository Repository, notifier Notifier, publisher EventPublisher, cfg Config) *Service {
	return &Service{
		repository: repository,
		notifier:   notifier,
		publisher:  publisher,
		log:        log.With(logger.NewField("component", "order_service")),
		cfg:        cfg,
		now:        time.Now,
	}
}

func (s *Service) CreateOrder(ctx context.Context, create entities.OrderCreate) (*entities.Order, error) {
	if strings.TrimSpace(create.UserID) == "" || strings.TrimSpace(create.RestaurantID) == "" {
		return nil, ErrMissingRequiredFields
	}
	if err := create.PickupLocation.Validate(); err != nil {
		return nil, fmt.Errorf("pickup location: %w", err)
	}
	if err := create.DeliveryLocation.Validate(); err != nil {
		return nil, fmt.Errorf("delivery location: %w", err)
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.cfg.PaymentTTL)

	order, err := s.repository.Create(ctx, entities.Order{
		ID:               uuid.NewString(),
		UserID:           create.UserID,
		RestaurantID:     create.RestaurantID,
		Status:           entities.OrderPlaced,
		PaymentStatus:    entities.PaymentPending,
		PickupLocation:   create.PickupLocation,
		DeliveryLocation: create.DeliveryLocation,
		ExpiresAt:        &expiresAt,
		CreatedAt:        now,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	return order, nil
}

// GetOrder заказ виден только его участникам.
func (s *Service) GetOrder(ctx context.Context, identity entities.Identity, id string) (*entities.Order, error) {
	order, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if !identity.CanView(order) {
		return nil, fmt.Errorf("get order %s: %w", id, ErrForbidden)
	}
	return order, nil
}

// ChangeStatus переход, инициированный через API (оформление, кухня, курьер, отмена).
// Владелец перехода проверяется тем же UPDATE, что и статус.
func (s *Service) ChangeStatus(
	ctx context.Context,
	identity entities.Identity,
	id string,
	target entities.OrderStatus,
) (*entities.Order, error) {
	if !target.IsValid() {
		return nil, fmt.Errorf("%q: %w", target, ErrUnknownStatus)
	}
	if _, ok := apiTargets[target]; !ok {
		return nil, fmt.Errorf("%s: %w", target, ErrUnsupportedTarget)
	}

	owner, err := transitionOwner(identity, target)
	if err != nil {
		return nil, fmt.Errorf("change status: %w", err)
	}

	order, err := s.repository.TransitionStatus(ctx, id, entities.Predecessors(target), target, owner)
	if err != nil {
		return nil, fmt.Errorf("change status: %w", err)
	}

	s.notifyStatusChanged(ctx, order)
	return order, nil
}

// MarkReady переводит preparing -> ready_for_pickup и публикует ORDER_READY_FOR_PICKUP.
// Если заказ уже готов, событие публикуется повторно: потребитель идемпотентен.
func (s *Service) MarkReady(ctx context.Context, identity entities.Identity, id string) (*entities.Order, error) {
	owner, err := transitionOwner(identity, entities.OrderReadyForPickup)
	if err != nil {
		return nil, fmt.Errorf("mark ready: %w", err)
	}

	order, changed, err := s.markReady(ctx, id, owner)
	if err != nil {
		return nil, fmt.Errorf("mark ready: %w", err)
	}

	if changed {
		s.notifyStatusChanged(ctx, order)
	}

	pickup := order.PickupLocation
	err = s.publisher.PublishEvent(ctx, s.cfg.ReadyTopic, order.ID, &events.OrderReadyForPickupData{
		OrderID:        order.ID,
		PickupLocation: &events.Location{Lat: pickup.Lat, Lng: pickup.Lng},
	})
	if err != nil {
		return nil, fmt.Errorf("publish ready event: %w", err)
	}

	return order, nil
}

// MarkReadyForPickup применяет ready_for_pickup со стороны потребителя события.
// Возвращает ErrOrderPastReady, если курьер уже назначен или заказ завершен.
func (s *Service) MarkReadyForPickup(ctx context.Context, id string) (*entities.Order, error) {
	order, changed, err := s.markReady(ctx, id, entities.OrderOwner{})
	if err != nil {
		return nil, err
	}

	if changed {
		s.notifyStatusChanged(ctx, order)
	}
	return order, nil
}

func (s *Service) markReady(ctx context.Context, id string, owner entities.OrderOwner) (*entities.Order, bool, error) {
	from := entities.Predecessors(entities.OrderReadyForPickup)
	// cancelled не ведет в ready, Predecessors вернет только preparing
	order, err := s.repository.TransitionStatus(ctx, id, from, entities.OrderReadyForPickup, owner)
	if err == nil {
		return order, true, nil
	}
	if !errors.Is(err, ErrInvalidTransition) {
		return nil, false, err
	}

	current, getErr := s.repository.GetByID(ctx, id)
	if getErr != nil {
		return nil, false, getErr
	}

	switch {
	case current.Status == entities.OrderReadyForPickup:
		return current, false, nil
	case current.Status.IsBeyond(entities.OrderReadyForPickup):
		return nil, false, fmt.Errorf("order %s is %s: %w", id, current.Status, ErrOrderPastReady)
	default:
		return nil, false, err
	}
}

// SettlePayment применяет PAYMENT_SUCCESS. Повторная доставка не меняет заказ и не шлет уведомлений.
func (s *Service) SettlePayment(ctx context.Context, id, reference string) (*entities.Settlement, error) {
	if id == "" || reference == "" {
		return nil, ErrMissingRequiredFields
	}

	order, err := s.repository.SettlePayment(ctx, id, reference)
	if err != nil {
		if errors.Is(err, ErrPaymentAlreadySettled) {
			return &entities.Settlement{AlreadySettled: true}, nil
		}
		return nil, fmt.Errorf("settle payment: %w", err)
	}

	notice := entities.NoticeFromOrder(order, s.now())
	notifyErr := errors.Join(
		s.emit(ctx, entities.UserRoom(order.UserID), entities.EventPaymentConfirmed, notice),
		s.emit(ctx, entities.RestaurantRoom(order.RestaurantID), entities.EventOrderNew, notice),
	)

	return &entities.Settlement{
		Order:     order,
		NotifyErr: notifyErr,
	}, nil
}

// AcceptOrder атомарное назначение курьера. Проигрыш гонки это обычный результат, а не ошибка.
func (s *Service) AcceptOrder(ctx context.Context, id, riderID string) (*entities.AssignmentResult, error) {
	if id == "" || riderID == "" {
		return nil, ErrMissingRequiredFields
	}

	order, err := s.repository.AssignRider(ctx, id, riderID)
	if err != nil {
		if errors.Is(err, ErrAssignmentConflict) {
			return &entities.AssignmentResult{
				Success: false,
				Reason:  entities.ReasonAlreadyAssigned,
			}, nil
		}
		return nil, fmt.Errorf("accept order: %w", err)
	}

	notice := entities.NoticeFromOrder(order, s.now())
	for _, room := range []entities.Room{
		entities.UserRoom(order.UserID),
		entities.RestaurantRoom(order.RestaurantID),
		entities.OrderRoom(order.ID),
	} {
		if err := s.emit(ctx, room, entities.EventRiderAssigned, notice); err != nil {
			s.logNotifyError(order.ID, entities.EventRiderAssigned, err)
		}
	}

	return &entities.AssignmentResult{
		Success: true,
		RiderID: riderID,
	}, nil
}

// ExpireOverdueOrders контракт для свипера: до limit просроченных неоплаченных заказов за вызов.
func (s *Service) ExpireOverdueOrders(ctx context.Context, limit int) ([]entities.Order, error) {
	now := s.now().UTC()

	expired, err := s.repository.ExpireOverdue(ctx, now, limit)
	if err != nil {
		return nil, fmt.Errorf("expire overdue orders: %w", err)
	}

	for i := range expired {
		order := &expired[i]
		err := s.emit(ctx, entities.UserRoom(order.UserID), entities.EventOrderExpired, entities.NoticeFromOrder(order, now))
		if err != nil {
			s.logNotifyError(order.ID, entities.EventOrderExpired, err)
		}
	}

	return expired, nil
}

// transitionOwner кто вправе выставить target:
// payment_pending и cancelled клиент заказа, preparing и ready_for_pickup его ресторан,
// picked_up и delivered назначенный курьер.
func transitionOwner(identity entities.Identity, target entities.OrderStatus) (entities.OrderOwner, error) {
	switch target {
	case entities.OrderPaymentPending, entities.OrderCancelled:
		if identity.UserID == "" {
			return entities.OrderOwner{}, ErrForbidden
		}
		return entities.OrderOwner{UserID: identity.UserID}, nil

	case entities.OrderPreparing, entities.OrderReadyForPickup:
		if identity.Role != entities.RoleRestaurant || identity.RestaurantID == "" {
			return entities.OrderOwner{}, fmt.Errorf("%s requires restaurant: %w", target, ErrForbidden)
		}
		return entities.OrderOwner{RestaurantID: identity.RestaurantID}, nil

	case entities.OrderPickedUp, entities.OrderDelivered:
		if identity.Role != entities.RoleRider || identity.UserID == "" {
			return entities.OrderOwner{}, fmt.Errorf("%s requires rider: %w", target, ErrForbidden)
		}
		return entities.OrderOwner{RiderID: identity.UserID}, nil

	default:
		return entities.OrderOwner{}, fmt.Errorf("%s: %w", target, ErrUnsupportedTarget)
	}
}

func (s *Service) notifyStatusChanged(ctx context.Context, order *entities.Order) {
	notice := entities.NoticeFromOrder(order, s.now())
	for _, room := range []entities.Room{
		entities.UserRoom(order.UserID),
		entities.OrderRoom(order.ID),
	} {
		if err := s.emit(ctx, room, entities.EventStatusChanged, notice); err != nil {
			s.logNotifyError(order.ID, entities.EventStatusChanged, err)
		}
	}
}

func (s *Service) emit(ctx context.Context, room entities.Room, event string, payload any) error {
	err := s.notifier.Emit(ctx, room, event, payload)
	if err != nil {
		return fmt.Errorf("emit %s to %s: %w", event, room, err)
	}
	return nil
}

func (s *Service) logNotifyError(orderID, event string, err error) {
	s.log.With(
		logger.NewField("order", orderID),
		logger.NewField("event", event),
		logger.NewField("error", err),
	).Warn("best-effort notification failed")
}
