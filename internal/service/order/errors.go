package order

import "errors"

var (
	ErrMissingRequiredFields = errors.New("missing required fields")
	ErrUnknownStatus         = errors.New("unknown order status")
	ErrUnsupportedTarget     = errors.New("status can not be set through this operation")

	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderExists           = errors.New("order already exists")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrAssignmentConflict    = errors.New("order already assigned to another rider")
	ErrPaymentAlreadySettled = errors.New("payment already settled")
	ErrOrderPastReady        = errors.New("order already past ready_for_pickup")
	ErrForbidden             = errors.New("order belongs to another party")

	// ErrStorageUnavailable присоединяется ко всем неожиданным ошибкам хранилища, такие ошибки ретраятся.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
