package payment_success

import (
	"context"
	"errors"
	"fmt"

	"orderflow/internal/events"
	"orderflow/internal/pkg/kafka"
	orderservice "orderflow/internal/service/order"
	"orderflow/pkg/logger"
)

type Handler struct {
	orderService Service
	log          handlerLogger
}

func New(log handlerLogger, orderService Service) *Handler {
	return &Handler{
		orderService: orderService,
		log:          log.With(logger.NewField("consumer", "payment_success")),
	}
}

func (h *Handler) Handle(ctx context.Context, event events.Event) kafka.Decision {
	data, ok := event.Payload.(*events.PaymentSuccessData)
	if !ok {
		return kafka.DeadLetter(fmt.Sprintf("unexpected payload %T for %s", event.Payload, event.Envelope.Type))
	}

	msgLog := h.log.With(
		logger.NewField("order", data.OrderID),
		logger.NewField("payment_reference", data.PaymentReference),
	)

	settlement, err := h.orderService.SettlePayment(ctx, data.OrderID, data.PaymentReference)
	if err != nil {
		msgLog = msgLog.With(logger.NewField("error", err))

		switch {
		case errors.Is(err, orderservice.ErrOrderNotFound):
			msgLog.Error("payment.success for unknown order")
			return kafka.DeadLetter(err.Error())

		case errors.Is(err, orderservice.ErrMissingRequiredFields):
			msgLog.Error("payment.success without order id or reference")
			return kafka.DeadLetter(err.Error())

		case errors.Is(err, orderservice.ErrInvalidTransition):
			// заказ уже истек или отменен, оплату разбирают вне пайплайна
			msgLog.Warn("payment.success for order that can no longer be paid")
			return kafka.Ack()

		default:
			msgLog.Warn("payment.success failed, message will be retried")
			return kafka.Requeue(err.Error())
		}
	}

	if settlement.AlreadySettled {
		msgLog.Info("payment.success redelivered, order already paid")
		return kafka.Ack()
	}

	if settlement.NotifyErr != nil {
		msgLog.With(
			logger.NewField("error", settlement.NotifyErr),
		).Warn("payment.success settled, notification failed")
	}

	msgLog.Info("payment.success: processed")
	return kafka.Ack()
}
