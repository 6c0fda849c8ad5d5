package orders

import "errors"

var ErrOrderServiceUnavailable = errors.New("order service unavailable")
