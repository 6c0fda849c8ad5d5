package realtime

import (
	"sync"

	"orderflow/internal/entities"
)

// Session одно соединение клиента. Запись в сокет делает владелец соединения,
// читая Outbound.
type Session struct {
	id       string
	identity entities.Identity
	send     chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func NewSession(id string, identity entities.Identity, buffer int) *Session {
	if buffer < 1 {
		buffer = 1
	}

	return &Session{
		id:       id,
		identity: identity,
		send:     make(chan []byte, buffer),
		done:     make(chan struct{}),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Identity() entities.Identity {
	return s.identity
}

func (s *Session) Outbound() <-chan []byte {
	return s.send
}

func (s *Session) Done() <-chan struct{} {
	return s.done
}

// enqueue не блокируется: при полном буфере сообщение теряется.
func (s *Session) enqueue(frame []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.send <- frame:
		return true
	default:
		return false
	}
}

// Reply кадр только этой сессии, вне комнат.
func (s *Session) Reply(event string, payload any) bool {
	frame, err := encodeFrame("", event, payload)
	if err != nil {
		return false
	}
	return s.enqueue(frame)
}

func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}
