package entities

import (
	"errors"

	"github.com/paulmach/orb"
)

var ErrInvalidLocation = errors.New("invalid location")

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (l Location) Validate() error {
	if l.Lat < -90 || l.Lat > 90 || l.Lng < -180 || l.Lng > 180 {
		return ErrInvalidLocation
	}
	return nil
}

// Point orb хранит точку как [lng, lat].
func (l Location) Point() orb.Point {
	return orb.Point{l.Lng, l.Lat}
}

func LocationFromPoint(p orb.Point) Location {
	return Location{Lat: p.Lat(), Lng: p.Lon()}
}
