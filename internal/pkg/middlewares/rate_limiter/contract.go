package rate_limiter

import "orderflow/pkg/logger"

// Limiter реализует *rate.Limiter из golang.org/x/time/rate.
type Limiter interface {
	Allow() bool
}

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
