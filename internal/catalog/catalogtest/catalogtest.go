// Package catalogtest holds tests that every catalog.Store implementation must
// pass.
package catalogtest

import (
	"context"
	"testing"

	"github.com/dekarrin/chatmacro/internal/catalog"
	"github.com/stretchr/testify/assert"
)

// LionsArch returns a fully populated test Map.
func LionsArch() catalog.Map {
	return catalog.Map{
		ID:   50,
		Name: "Lion's Arch",
		MapRect: catalog.Rect{
			Min: catalog.Coord{X: -49152, Y: -49152},
			Max: catalog.Coord{X: 49152, Y: 49152},
		},
		ContinentRect: catalog.Rect{
			Min: catalog.Coord{X: 15104, Y: 14336},
			Max: catalog.Coord{X: 17152, Y: 16384},
		},
	}
}

// RunStoreTests runs the shared Store tests. newStore must give a new, empty
// Store each time it is called.
func RunStoreTests(t *testing.T, newStore func(t *testing.T) catalog.Store) {
	ctx := context.Background()

	t.Run("map create and get", func(t *testing.T) {
		assert := assert.New(t)
		st := newStore(t)

		created, err := st.Maps().Create(ctx, LionsArch())
		if !assert.NoError(err) {
			return
		}
		assert.Equal(LionsArch(), created)

		actual, err := st.Maps().GetByID(ctx, 50)
		assert.NoError(err)
		assert.Equal(LionsArch(), actual)
	})

	t.Run("map duplicate id", func(t *testing.T) {
		assert := assert.New(t)
		st := newStore(t)

		_, err := st.Maps().Create(ctx, LionsArch())
		assert.NoError(err)

		_, err = st.Maps().Create(ctx, catalog.Map{ID: 50, Name: "Other"})
		assert.ErrorIs(err, catalog.ErrConstraintViolation)
	})

	t.Run("map not found", func(t *testing.T) {
		assert := assert.New(t)
		st := newStore(t)

		_, err := st.Maps().GetByID(ctx, 404)
		assert.ErrorIs(err, catalog.ErrNotFound)

		_, err = st.Maps().Delete(ctx, 404)
		assert.ErrorIs(err, catalog.ErrNotFound)
	})

	t.Run("map get all is ordered by id", func(t *testing.T) {
		assert := assert.New(t)
		st := newStore(t)

		for _, id := range []int{28, 15, 50} {
			_, err := st.Maps().Create(ctx, catalog.Map{ID: id, Name: "m"})
			if !assert.NoError(err) {
				return
			}
		}

		all, err := st.Maps().GetAll(ctx)
		if !assert.NoError(err) {
			return
		}

		var ids []int
		for _, m := range all {
			ids = append(ids, m.ID)
		}
		assert.Equal([]int{15, 28, 50}, ids)
	})

	t.Run("map delete", func(t *testing.T) {
		assert := assert.New(t)
		st := newStore(t)

		_, err := st.Maps().Create(ctx, LionsArch())
		assert.NoError(err)

		deleted, err := st.Maps().Delete(ctx, 50)
		assert.NoError(err)
		assert.Equal("Lion's Arch", deleted.Name)

		_, err = st.Maps().GetByID(ctx, 50)
		assert.ErrorIs(err, catalog.ErrNotFound)
	})

	t.Run("points of interest keep creation order", func(t *testing.T) {
		assert := assert.New(t)
		st := newStore(t)

		_, err := st.Maps().Create(ctx, LionsArch())
		assert.NoError(err)

		pois := []catalog.PointOfInterest{
			{ID: 9, MapID: 50, Name: "Zeta", Type: catalog.PoiWaypoint, Coord: catalog.Coord{X: 1, Y: 2}, ChatLink: "[&z]"},
			{ID: 3, MapID: 50, Name: "Alpha", Type: catalog.PoiLandmark, Coord: catalog.Coord{X: 3, Y: 4}, ChatLink: "[&a]"},
			{ID: 5, MapID: 50, Name: "Mid", Type: catalog.PoiVista, Coord: catalog.Coord{X: 5, Y: 6}, ChatLink: "[&m]"},
		}
		for _, p := range pois {
			_, err := st.PointsOfInterest().Create(ctx, p)
			if !assert.NoError(err) {
				return
			}
		}

		actual, err := st.PointsOfInterest().GetAllByMap(ctx, 50)
		assert.NoError(err)
		assert.Equal(pois, actual)
	})

	t.Run("point of interest duplicate on same map", func(t *testing.T) {
		assert := assert.New(t)
		st := newStore(t)

		_, err := st.Maps().Create(ctx, LionsArch())
		assert.NoError(err)

		_, err = st.PointsOfInterest().Create(ctx, catalog.PointOfInterest{ID: 1, MapID: 50, Name: "a"})
		assert.NoError(err)

		_, err = st.PointsOfInterest().Create(ctx, catalog.PointOfInterest{ID: 1, MapID: 50, Name: "b"})
		assert.ErrorIs(err, catalog.ErrConstraintViolation)
	})

	t.Run("no points of interest", func(t *testing.T) {
		assert := assert.New(t)
		st := newStore(t)

		actual, err := st.PointsOfInterest().GetAllByMap(ctx, 50)
		assert.NoError(err)
		assert.Empty(actual)
	})

	t.Run("delete points of interest by map", func(t *testing.T) {
		assert := assert.New(t)
		st := newStore(t)

		_, err := st.Maps().Create(ctx, LionsArch())
		assert.NoError(err)
		_, err = st.Maps().Create(ctx, catalog.Map{ID: 15, Name: "Queensdale"})
		assert.NoError(err)

		_, err = st.PointsOfInterest().Create(ctx, catalog.PointOfInterest{ID: 1, MapID: 50, Name: "a"})
		assert.NoError(err)
		_, err = st.PointsOfInterest().Create(ctx, catalog.PointOfInterest{ID: 1, MapID: 15, Name: "b"})
		assert.NoError(err)

		err = st.PointsOfInterest().DeleteAllByMap(ctx, 50)
		assert.NoError(err)

		gone, err := st.PointsOfInterest().GetAllByMap(ctx, 50)
		assert.NoError(err)
		assert.Empty(gone)

		kept, err := st.PointsOfInterest().GetAllByMap(ctx, 15)
		assert.NoError(err)
		assert.Len(kept, 1)
	})
}
