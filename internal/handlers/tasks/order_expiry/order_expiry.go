package order_expiry

import (
	"context"
	"time"

	"orderflow/pkg/logger"
)

// maxBatchesPerRun ограничивает один запуск, остаток подберет следующий тик.
const maxBatchesPerRun = 10

// OrderExpiry переводит неоплаченные заказы с истекшим expires_at в expired.
// Точность ограничена интервалом опроса.
type OrderExpiry struct {
	log      handlerLogger
	service  Service
	interval time.Duration
	batch    int
}

func NewOrderExpiry(log handlerLogger, service Service, interval time.Duration, batch int) *OrderExpiry {
	return &OrderExpiry{
		log:      log.With(logger.NewField("task", "order_expiry")),
		service:  service,
		interval: interval,
		batch:    batch,
	}
}

func (o *OrderExpiry) TTL() time.Duration {
	return o.interval
}

func (o *OrderExpiry) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, o.interval)
	defer cancel()

	total := 0
	for i := 0; i < maxBatchesPerRun; i++ {
		expired, err := o.service.ExpireOverdueOrders(ctxWithTimeout, o.batch)
		total += len(expired)
		if err != nil {
			o.logTotal(total)
			return err
		}
		if len(expired) < o.batch {
			break
		}
	}

	o.logTotal(total)
	return nil
}

func (o *OrderExpiry) logTotal(total int) {
	if total > 0 {
		o.log.With(
			logger.NewField("expired_orders", total),
		).Info("order expiry")
	}
}

func (o *OrderExpiry) Info() string {
	return "order expiry"
}
