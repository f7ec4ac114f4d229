package inmem

import (
	"context"
	"sort"
	"sync"

	"github.com/dekarrin/chatmacro/internal/catalog"
)

func NewMapsRepository() *InMemoryMapsRepository {
	return &InMemoryMapsRepository{
		maps: make(map[int]catalog.Map),
	}
}

type InMemoryMapsRepository struct {
	mu   sync.RWMutex
	maps map[int]catalog.Map
}

func (imr *InMemoryMapsRepository) Create(ctx context.Context, m catalog.Map) (catalog.Map, error) {
	imr.mu.Lock()
	defer imr.mu.Unlock()

	if _, ok := imr.maps[m.ID]; ok {
		return catalog.Map{}, catalog.ErrConstraintViolation
	}

	imr.maps[m.ID] = m
	return m, nil
}

func (imr *InMemoryMapsRepository) GetByID(ctx context.Context, id int) (catalog.Map, error) {
	imr.mu.RLock()
	defer imr.mu.RUnlock()

	m, ok := imr.maps[id]
	if !ok {
		return catalog.Map{}, catalog.ErrNotFound
	}
	return m, nil
}

func (imr *InMemoryMapsRepository) GetAll(ctx context.Context) ([]catalog.Map, error) {
	imr.mu.RLock()
	defer imr.mu.RUnlock()

	all := make([]catalog.Map, 0, len(imr.maps))
	for _, m := range imr.maps {
		all = append(all, m)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].ID < all[j].ID
	})

	return all, nil
}

func (imr *InMemoryMapsRepository) Delete(ctx context.Context, id int) (catalog.Map, error) {
	imr.mu.Lock()
	defer imr.mu.Unlock()

	m, ok := imr.maps[id]
	if !ok {
		return catalog.Map{}, catalog.ErrNotFound
	}

	delete(imr.maps, id)
	return m, nil
}
