package order_ready_for_pickup

import (
	"context"
	"errors"
	"fmt"

	"orderflow/internal/entities"
	"orderflow/internal/events"
	"orderflow/internal/pkg/kafka"
	"orderflow/internal/service/dispatch"
	orderservice "orderflow/internal/service/order"
	"orderflow/pkg/logger"
)

type Handler struct {
	dispatcher Dispatcher
	log        handlerLogger
}

func New(log handlerLogger, dispatcher Dispatcher) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		log:        log.With(logger.NewField("consumer", "order_ready_for_pickup")),
	}
}

// Handle подтверждает сообщение только когда все предложения разосланы.
func (h *Handler) Handle(ctx context.Context, event events.Event) kafka.Decision {
	data, ok := event.Payload.(*events.OrderReadyForPickupData)
	if !ok {
		return kafka.DeadLetter(fmt.Sprintf("unexpected payload %T for %s", event.Payload, event.Envelope.Type))
	}

	pickup := entities.Location{
		Lat: data.PickupLocation.Lat,
		Lng: data.PickupLocation.Lng,
	}

	msgLog := h.log.With(
		logger.NewField("order", data.OrderID),
		logger.NewField("pickup_lat", pickup.Lat),
		logger.NewField("pickup_lng", pickup.Lng),
	)

	result, err := h.dispatcher.OfferOrder(ctx, data.OrderID, pickup)
	if err != nil {
		msgLog = msgLog.With(logger.NewField("error", err))

		switch {
		case errors.Is(err, orderservice.ErrOrderPastReady):
			msgLog.Info("order.ready_for_pickup: order already assigned or finished, no offers sent")
			return kafka.Ack()

		case errors.Is(err, orderservice.ErrOrderNotFound),
			errors.Is(err, entities.ErrInvalidLocation):
			msgLog.Error("order.ready_for_pickup rejected")
			return kafka.DeadLetter(err.Error())

		case errors.Is(err, dispatch.ErrNoCandidateFound):
			msgLog.Warn("order.ready_for_pickup: no couriers in radius, will retry")
			return kafka.Requeue(err.Error())

		case errors.Is(err, dispatch.ErrDispatchFailed):
			msgLog.Warn("order.ready_for_pickup: offer dispatch failed, will retry")
			return kafka.Requeue(err.Error())

		case errors.Is(err, orderservice.ErrInvalidTransition):
			// событие обогнало перевод в preparing
			msgLog.Warn("order.ready_for_pickup arrived before order is preparing, will retry")
			return kafka.Requeue(err.Error())

		default:
			msgLog.Warn("order.ready_for_pickup failed, message will be retried")
			return kafka.Requeue(err.Error())
		}
	}

	msgLog.With(
		logger.NewField("offers", len(result.Offers)),
	).Info("order.ready_for_pickup: offers dispatched")
	return kafka.Ack()
}
