package escalation

import "errors"

var ErrInvalidLetter = errors.New("dead letter has no id or topic")
