package dispatch

import "errors"

var (
	ErrNoCandidateFound = errors.New("no available courier within radius")
	ErrDispatchFailed   = errors.New("failed to deliver offer to every candidate")
)
