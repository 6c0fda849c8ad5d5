package entities

import (
	"errors"
	"strings"
	"unicode"
)

var ErrInvalidRoom = errors.New("invalid room")

type RoomKind string

const (
	RoomUser       RoomKind = "user"
	RoomRestaurant RoomKind = "restaurant"
	RoomOrder      RoomKind = "order"
)

// Room ключ комнаты вида "<kind>:<id>", регистр значим.
type Room string

func UserRoom(id string) Room {
	return Room(string(RoomUser) + ":" + id)
}

func RestaurantRoom(id string) Room {
	return Room(string(RoomRestaurant) + ":" + id)
}

func OrderRoom(id string) Room {
	return Room(string(RoomOrder) + ":" + id)
}

func ParseRoom(s string) (Room, error) {
	kind, id, ok := strings.Cut(s, ":")
	if !ok {
		return "", ErrInvalidRoom
	}

	switch RoomKind(kind) {
	case RoomUser, RoomRestaurant, RoomOrder:
	default:
		return "", ErrInvalidRoom
	}

	if id == "" || strings.IndexFunc(id, unicode.IsSpace) >= 0 {
		return "", ErrInvalidRoom
	}
	return Room(s), nil
}

func (r Room) Kind() RoomKind {
	kind, _, _ := strings.Cut(string(r), ":")
	return RoomKind(kind)
}

func (r Room) String() string {
	return string(r)
}

// ID часть после первого двоеточия.
func (r Room) ID() string {
	_, id, _ := strings.Cut(string(r), ":")
	return id
}
