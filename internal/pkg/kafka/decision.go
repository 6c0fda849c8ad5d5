package kafka

type Action int

const (
	ActionAck Action = iota
	ActionRequeue
	ActionDeadLetter
)

func (a Action) String() string {
	switch a {
	case ActionAck:
		return "ack"
	case ActionRequeue:
		return "requeue"
	case ActionDeadLetter:
		return "dead_letter"
	default:
		return "unknown"
	}
}

// Decision результат обработки сообщения, который применяет ConsumerGroupHandler.
type Decision struct {
	Action Action
	Reason string
}

func Ack() Decision {
	return Decision{Action: ActionAck}
}

func Requeue(reason string) Decision {
	return Decision{Action: ActionRequeue, Reason: reason}
}

func DeadLetter(reason string) Decision {
	return Decision{Action: ActionDeadLetter, Reason: reason}
}
