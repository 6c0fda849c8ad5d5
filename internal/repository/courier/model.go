package courier

import (
	"time"

	"orderflow/internal/entities"
)

type CourierDB struct {
	ID                string
	Lat               float64
	Lng               float64
	IsAvailable       bool
	IsVerified        bool
	LocationUpdatedAt time.Time
}

func ToDomain(c *CourierDB) *entities.Courier {
	if c == nil {
		return nil
	}

	return &entities.Courier{
		ID:                c.ID,
		Location:          entities.Location{Lat: c.Lat, Lng: c.Lng},
		IsAvailable:       c.IsAvailable,
		IsVerified:        c.IsVerified,
		LocationUpdatedAt: c.LocationUpdatedAt,
	}
}

func ToDomainList(couriersDB []CourierDB) []entities.Courier {
	if len(couriersDB) == 0 {
		return []entities.Courier{}
	}

	result := make([]entities.Courier, len(couriersDB))
	for i, courierDB := range couriersDB {
		result[i] = *ToDomain(&courierDB)
	}
	return result
}
