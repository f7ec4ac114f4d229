package location

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dekarrin/chatmacro/internal/catalog"
	"github.com/dekarrin/chatmacro/internal/catalog/inmem"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// testMap spans 1000x1000 map inches and projects onto a 100x100 continent
// square starting at (2000, 3000).
func testMap() catalog.Map {
	return catalog.Map{
		ID:   15,
		Name: "Queensdale",
		MapRect: catalog.Rect{
			Min: catalog.Coord{X: 0, Y: 0},
			Max: catalog.Coord{X: 1000, Y: 1000},
		},
		ContinentRect: catalog.Rect{
			Min: catalog.Coord{X: 2000, Y: 3000},
			Max: catalog.Coord{X: 2100, Y: 3100},
		},
	}
}

func testPois() []catalog.PointOfInterest {
	return []catalog.PointOfInterest{
		{ID: 1, MapID: 15, Name: "Shaemoor Waypoint", Type: catalog.PoiWaypoint, Coord: catalog.Coord{X: 2010, Y: 3090}, ChatLink: "[&wp1]"},
		{ID: 2, MapID: 15, Name: "Claypool Waypoint", Type: catalog.PoiWaypoint, Coord: catalog.Coord{X: 2090, Y: 3010}, ChatLink: "[&wp2]"},
		{ID: 3, MapID: 15, Name: "Shaemoor Fields", Type: catalog.PoiLandmark, Coord: catalog.Coord{X: 2020, Y: 3080}, ChatLink: "[&lm1]"},
		{ID: 4, MapID: 15, Name: "Queen's Forest", Type: catalog.PoiLandmark, Coord: catalog.Coord{X: 2080, Y: 3020}, ChatLink: "[&lm2]"},
		{ID: 5, MapID: 15, Name: "Vista", Type: catalog.PoiVista, Coord: catalog.Coord{X: 2050, Y: 3050}, ChatLink: "[&v]"},
	}
}

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()

	ctx := context.Background()
	st := inmem.NewDatastore()

	if _, err := st.Maps().Create(ctx, testMap()); err != nil {
		t.Fatalf("create map: %v", err)
	}
	for _, p := range testPois() {
		if _, err := st.PointsOfInterest().Create(ctx, p); err != nil {
			t.Fatalf("create poi: %v", err)
		}
	}

	return NewTracker(st, zerolog.Nop())
}

// metersAt gives the avatar position that projects onto the continent point
// (cx, cy) of testMap.
func metersAt(cx, cy float64) Position {
	x := (cx - 2000) * 10
	z := (1 - (cy-3000)/100) * 1000
	return Position{X: x / InchesPerMeter, Z: z / InchesPerMeter}
}

func Test_ToContinentCoords(t *testing.T) {
	m := testMap()

	testCases := []struct {
		name   string
		pos    Position
		expect catalog.Coord
	}{
		{
			name:   "map origin is bottom left of continent rect",
			pos:    Position{X: 0, Z: 0},
			expect: catalog.Coord{X: 2000, Y: 3100},
		},
		{
			name:   "far corner is top right",
			pos:    Position{X: 1000 / InchesPerMeter, Z: 1000 / InchesPerMeter},
			expect: catalog.Coord{X: 2100, Y: 3000},
		},
		{
			name:   "center",
			pos:    Position{X: 500 / InchesPerMeter, Y: 42, Z: 500 / InchesPerMeter},
			expect: catalog.Coord{X: 2050, Y: 3050},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := ToContinentCoords(tc.pos, m.MapRect, m.ContinentRect)

			assert.InDelta(tc.expect.X, actual.X, 1e-6)
			assert.InDelta(tc.expect.Y, actual.Y, 1e-6)
		})
	}
}

func Test_ToContinentCoords_degenerateRect(t *testing.T) {
	assert := assert.New(t)

	actual := ToContinentCoords(Position{X: 5, Z: 5}, catalog.Rect{}, testMap().ContinentRect)

	assert.Equal(catalog.Coord{X: 2000, Y: 3000}, actual)
}

func Test_Nearest(t *testing.T) {
	testCases := []struct {
		name     string
		at       catalog.Coord
		pois     []catalog.PointOfInterest
		typ      catalog.PoiType
		expectID int
	}{
		{
			name:     "closest waypoint",
			at:       catalog.Coord{X: 2012, Y: 3088},
			pois:     testPois(),
			typ:      catalog.PoiWaypoint,
			expectID: 1,
		},
		{
			name:     "closest landmark",
			at:       catalog.Coord{X: 2095, Y: 3005},
			pois:     testPois(),
			typ:      catalog.PoiLandmark,
			expectID: 4,
		},
		{
			name:     "other types are ignored",
			at:       catalog.Coord{X: 2050, Y: 3050},
			pois:     testPois(),
			typ:      catalog.PoiWaypoint,
			expectID: 1,
		},
		{
			name: "tie keeps earlier",
			at:   catalog.Coord{X: 0, Y: 0},
			pois: []catalog.PointOfInterest{
				{ID: 10, Type: catalog.PoiWaypoint, Coord: catalog.Coord{X: 3, Y: 4}},
				{ID: 11, Type: catalog.PoiWaypoint, Coord: catalog.Coord{X: -4, Y: 3}},
			},
			typ:      catalog.PoiWaypoint,
			expectID: 10,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := Nearest(tc.at, tc.pois, tc.typ)

			if assert.NotNil(actual) {
				assert.Equal(tc.expectID, actual.ID)
			}
		})
	}
}

func Test_Nearest_none(t *testing.T) {
	assert := assert.New(t)

	assert.Nil(Nearest(catalog.Coord{}, testPois(), catalog.PoiUnlock))
	assert.Nil(Nearest(catalog.Coord{}, nil, catalog.PoiWaypoint))
}

func Test_Tracker_startsEmpty(t *testing.T) {
	assert := assert.New(t)

	tr := newTestTracker(t)

	assert.Nil(tr.CurrentMap())
	assert.Nil(tr.ClosestWaypoint())
	assert.Nil(tr.ClosestPoi())

	tr.UpdatePosition(metersAt(2010, 3090))

	assert.Nil(tr.ClosestWaypoint())
}

func Test_Tracker_SetMap(t *testing.T) {
	assert := assert.New(t)

	tr := newTestTracker(t)

	err := tr.SetMap(context.Background(), 15)

	assert.NoError(err)
	if assert.NotNil(tr.CurrentMap()) {
		assert.Equal("Queensdale", tr.CurrentMap().Name)
	}
	assert.Nil(tr.ClosestWaypoint())
	assert.Nil(tr.ClosestPoi())
}

func Test_Tracker_SetMap_unknownKeepsSnapshot(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	tr := newTestTracker(t)
	assert.NoError(tr.SetMap(ctx, 15))
	tr.UpdatePosition(metersAt(2010, 3090))
	before := tr.Snapshot()

	err := tr.SetMap(ctx, 9999)

	assert.ErrorIs(err, catalog.ErrNotFound)
	assert.Same(before, tr.Snapshot())
	assert.Equal("[&wp1]", tr.ClosestWaypoint().ChatLink)
}

// gatedStore holds up the lookup of one map until release is closed.
type gatedStore struct {
	catalog.Store
	gateID  int
	entered chan struct{}
	release chan struct{}
}

func (gs *gatedStore) Maps() catalog.MapRepository {
	return gatedMaps{MapRepository: gs.Store.Maps(), gs: gs}
}

type gatedMaps struct {
	catalog.MapRepository
	gs *gatedStore
}

func (gm gatedMaps) GetByID(ctx context.Context, id int) (catalog.Map, error) {
	if id == gm.gs.gateID {
		close(gm.gs.entered)
		<-gm.gs.release
	}
	return gm.MapRepository.GetByID(ctx, id)
}

func Test_Tracker_SetMap_overlappingCallsKeepCallOrder(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	st := inmem.NewDatastore()
	for _, m := range []catalog.Map{testMap(), {ID: 16, Name: "Kessex Hills"}} {
		if _, err := st.Maps().Create(ctx, m); err != nil {
			t.Fatalf("create map: %v", err)
		}
	}
	gs := &gatedStore{
		Store:   st,
		gateID:  15,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	tr := NewTracker(gs, zerolog.Nop())

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- tr.SetMap(ctx, 15)
	}()
	<-gs.entered

	secondDone := make(chan error, 1)
	go func() {
		secondDone <- tr.SetMap(ctx, 16)
	}()

	// give the second call time to finish if it is not held behind the first
	time.Sleep(50 * time.Millisecond)
	close(gs.release)

	assert.NoError(<-firstDone)
	assert.NoError(<-secondDone)
	if assert.NotNil(tr.CurrentMap()) {
		assert.Equal("Kessex Hills", tr.CurrentMap().Name)
	}
}

func Test_Tracker_UpdatePosition(t *testing.T) {
	testCases := []struct {
		name     string
		at       Position
		expectWp string
		expectLm string
	}{
		{
			name:     "south west",
			at:       metersAt(2011, 3089),
			expectWp: "[&wp1]",
			expectLm: "[&lm1]",
		},
		{
			name:     "north east",
			at:       metersAt(2089, 3011),
			expectWp: "[&wp2]",
			expectLm: "[&lm2]",
		},
		{
			name:     "toward the middle",
			at:       metersAt(2070, 3030),
			expectWp: "[&wp2]",
			expectLm: "[&lm2]",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			tr := newTestTracker(t)
			assert.NoError(tr.SetMap(context.Background(), 15))

			tr.UpdatePosition(tc.at)

			if assert.NotNil(tr.ClosestWaypoint()) {
				assert.Equal(tc.expectWp, tr.ClosestWaypoint().ChatLink)
			}
			if assert.NotNil(tr.ClosestPoi()) {
				assert.Equal(tc.expectLm, tr.ClosestPoi().ChatLink)
			}
		})
	}
}

func Test_Tracker_concurrentReaders(t *testing.T) {
	assert := assert.New(t)

	tr := newTestTracker(t)
	assert.NoError(tr.SetMap(context.Background(), 15))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				snap := tr.Snapshot()
				_ = snap.ClosestWaypoint()
				_ = snap.CurrentMap()
			}
		}()
	}

	for j := 0; j < 200; j++ {
		tr.UpdatePosition(metersAt(2000+float64(j%100), 3050))
	}
	wg.Wait()

	assert.NotNil(tr.ClosestWaypoint())
}
