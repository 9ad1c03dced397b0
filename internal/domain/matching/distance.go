package matching

import (
	"spark/internal/domain/entity"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Kilometers is a great-circle distance.
type Kilometers float64

// Distance returns the haversine distance between a and b.
func Distance(a, b entity.Coordinates) Kilometers {
	meters := geo.DistanceHaversine(toPoint(a), toPoint(b))

	return Kilometers(meters / 1000)
}

func toPoint(c entity.Coordinates) orb.Point {
	return orb.Point{c.Longitude, c.Latitude}
}
