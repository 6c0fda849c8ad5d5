package entities

import "time"

type DeadLetter struct {
	ID        string
	Topic     string
	Partition int32
	Offset    int64
	Key       string
	EventType string
	Payload   []byte
	Reason    string
	Attempts  int
	CreatedAt time.Time
}
