package retrier

import (
	"context"
	"time"
)

type Retrier interface {
	ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error
}

// Scheduler отдает паузу перед попыткой attempt (с нуля), без выполнения самой операции.
type Scheduler interface {
	Interval(attempt int) time.Duration
}

type ShouldRetryFunc func(error) bool

type Config struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration // 0 - без ограничения по времени
	Randomization   float64
	Multiplier      float64

	// 0 - без ограничения по количеству попыток
	MaxRetries uint64

	// Если nil - ретраятся все ошибки, если не nil - только те где функция вернула true
	ShouldRetry ShouldRetryFunc
}
