// Package inmem is a catalog.Store that keeps everything in memory. It is lost
// when the program exits.
package inmem

import (
	"github.com/dekarrin/chatmacro/internal/catalog"
)

type store struct {
	maps *InMemoryMapsRepository
	pois *InMemoryPointsOfInterestRepository
}

func NewDatastore() catalog.Store {
	return &store{
		maps: NewMapsRepository(),
		pois: NewPointsOfInterestRepository(),
	}
}

func (s *store) Maps() catalog.MapRepository {
	return s.maps
}

func (s *store) PointsOfInterest() catalog.PointOfInterestRepository {
	return s.pois
}

func (s *store) Close() error {
	return nil
}
