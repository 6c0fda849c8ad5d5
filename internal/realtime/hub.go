package realtime

import (
	"context"
	"fmt"
	"sync"

	"orderflow/internal/entities"
	"orderflow/pkg/logger"
)

// Hub реестр комнат одного инстанса gateway. Ничего не сохраняется,
// после переподключения клиент заходит в комнаты заново.
type Hub struct {
	mu          sync.RWMutex
	rooms       map[entities.Room]map[*Session]struct{}
	memberships map[*Session]map[entities.Room]struct{}
	log         handlerLogger
}

func NewHub(log handlerLogger) *Hub {
	return &Hub{
		rooms:       make(map[entities.Room]map[*Session]struct{}),
		memberships: make(map[*Session]map[entities.Room]struct{}),
		log:         log.With(logger.NewField("component", "realtime_hub")),
	}
}

// Register добавляет сессию и сразу заводит ее в комнаты личности.
func (h *Hub) Register(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.memberships[s]; ok {
		return
	}
	h.memberships[s] = make(map[entities.Room]struct{})
	connectionsActive.Inc()

	for _, room := range s.identity.Rooms() {
		h.join(s, room)
	}
}

func (h *Hub) Join(s *Session, room entities.Room) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.memberships[s]; !ok {
		return false
	}
	h.join(s, room)
	return true
}

func (h *Hub) join(s *Session, room entities.Room) {
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Session]struct{})
		h.rooms[room] = members
	}
	members[s] = struct{}{}
	h.memberships[s][room] = struct{}{}
}

func (h *Hub) Leave(s *Session, room entities.Room) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leave(s, room)
}

func (h *Hub) leave(s *Session, room entities.Room) {
	if members, ok := h.rooms[room]; ok {
		delete(members, s)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	if rooms, ok := h.memberships[s]; ok {
		delete(rooms, room)
	}
}

// Remove убирает сессию из всех комнат и закрывает ее.
func (h *Hub) Remove(s *Session) {
	h.mu.Lock()
	rooms, ok := h.memberships[s]
	if ok {
		for room := range rooms {
			h.leave(s, room)
		}
		delete(h.memberships, s)
		connectionsActive.Dec()
	}
	h.mu.Unlock()

	s.Close()
}

// Publish ставит сообщение в очередь каждой сессии комнаты и возвращает
// число сессий, которым оно досталось. Пустая комната не ошибка.
func (h *Hub) Publish(room entities.Room, event string, payload any) (int, error) {
	frame, err := encodeFrame(room.String(), event, payload)
	if err != nil {
		return 0, fmt.Errorf("encode frame: %w", err)
	}

	messagesPublished.WithLabelValues(event).Inc()

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for s := range h.rooms[room] {
		if !s.enqueue(frame) {
			messagesDropped.Inc()
			h.log.With(
				logger.NewField("session_id", s.id),
				logger.NewField("room", room.String()),
				logger.NewField("event", event),
			).Warn("session send buffer full, message dropped")
			continue
		}
		delivered++
	}
	messagesDelivered.Add(float64(delivered))

	return delivered, nil
}

// Emit доставка в локальные сессии в форме Notifier.
func (h *Hub) Emit(_ context.Context, room entities.Room, event string, payload any) error {
	_, err := h.Publish(room, event, payload)
	return err
}

func (h *Hub) RoomSize(room entities.Room) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[room])
}

func (h *Hub) Rooms(s *Session) []entities.Room {
	h.mu.RLock()
	defer h.mu.RUnlock()

	rooms := make([]entities.Room, 0, len(h.memberships[s]))
	for room := range h.memberships[s] {
		rooms = append(rooms, room)
	}
	return rooms
}
