package inmem

import (
	"context"
	"sync"

	"github.com/dekarrin/chatmacro/internal/catalog"
)

func NewPointsOfInterestRepository() *InMemoryPointsOfInterestRepository {
	return &InMemoryPointsOfInterestRepository{
		byMapIndex: make(map[int][]catalog.PointOfInterest),
	}
}

type InMemoryPointsOfInterestRepository struct {
	mu         sync.RWMutex
	byMapIndex map[int][]catalog.PointOfInterest
}

func (imr *InMemoryPointsOfInterestRepository) Create(ctx context.Context, poi catalog.PointOfInterest) (catalog.PointOfInterest, error) {
	imr.mu.Lock()
	defer imr.mu.Unlock()

	onMap := imr.byMapIndex[poi.MapID]
	for i := range onMap {
		if onMap[i].ID == poi.ID {
			return catalog.PointOfInterest{}, catalog.ErrConstraintViolation
		}
	}

	imr.byMapIndex[poi.MapID] = append(onMap, poi)
	return poi, nil
}

func (imr *InMemoryPointsOfInterestRepository) GetAllByMap(ctx context.Context, mapID int) ([]catalog.PointOfInterest, error) {
	imr.mu.RLock()
	defer imr.mu.RUnlock()

	onMap := imr.byMapIndex[mapID]

	all := make([]catalog.PointOfInterest, len(onMap))
	copy(all, onMap)

	return all, nil
}

func (imr *InMemoryPointsOfInterestRepository) DeleteAllByMap(ctx context.Context, mapID int) error {
	imr.mu.Lock()
	defer imr.mu.Unlock()

	delete(imr.byMapIndex, mapID)
	return nil
}
