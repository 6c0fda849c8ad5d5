package kafka

import (
	"strconv"
	"time"

	"github.com/IBM/sarama"
)

const (
	HeaderAttempt     = "x-attempt"
	HeaderOriginTopic = "x-origin-topic"
	HeaderNotBefore   = "x-not-before"
	HeaderReason      = "x-dead-letter-reason"

	retrySuffix      = ".retry"
	deadLetterSuffix = ".dlq"
)

func RetryTopic(topic string) string {
	return topic + retrySuffix
}

func DeadLetterTopic(topic string) string {
	return topic + deadLetterSuffix
}

func header(msg *sarama.ConsumerMessage, key string) (string, bool) {
	for _, h := range msg.Headers {
		if h != nil && string(h.Key) == key {
			return string(h.Value), true
		}
	}
	return "", false
}

// attemptOf число уже выполненных повторов; для свежего сообщения 0.
func attemptOf(msg *sarama.ConsumerMessage) int {
	v, ok := header(msg, HeaderAttempt)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func originTopicOf(msg *sarama.ConsumerMessage) string {
	if v, ok := header(msg, HeaderOriginTopic); ok && v != "" {
		return v
	}
	return msg.Topic
}

func notBeforeOf(msg *sarama.ConsumerMessage) (time.Time, bool) {
	v, ok := header(msg, HeaderNotBefore)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func newHeader(key, value string) sarama.RecordHeader {
	return sarama.RecordHeader{Key: []byte(key), Value: []byte(value)}
}
