// Package location tracks where the player is in the game world and keeps the
// closest points of interest up to date as they move.
package location

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/dekarrin/chatmacro/internal/catalog"
	"github.com/rs/zerolog"
)

// InchesPerMeter converts avatar positions, which are in meters, to the inches
// that map rects are measured in.
const InchesPerMeter = 39.3700787

// Position is an avatar position in the game's 3D coordinate system, in
// meters. Y is the vertical axis.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Snapshot is an immutable view of the player location at one point in time.
// A nil *Snapshot is valid and knows nothing.
type Snapshot struct {
	Map      *catalog.Map
	Waypoint *catalog.PointOfInterest
	Poi      *catalog.PointOfInterest
}

func (s *Snapshot) CurrentMap() *catalog.Map {
	if s == nil {
		return nil
	}
	return s.Map
}

func (s *Snapshot) ClosestWaypoint() *catalog.PointOfInterest {
	if s == nil {
		return nil
	}
	return s.Waypoint
}

func (s *Snapshot) ClosestPoi() *catalog.PointOfInterest {
	if s == nil {
		return nil
	}
	return s.Poi
}

// Tracker follows map changes and position updates and publishes a new
// Snapshot after each one. Readers get the latest snapshot without locking;
// SetMap and UpdatePosition are serialized against each other.
//
// Tracker should not be used directly; create one with [NewTracker].
type Tracker struct {
	store catalog.Store
	log   zerolog.Logger

	cur atomic.Pointer[Snapshot]

	mu   sync.Mutex
	pois []catalog.PointOfInterest
}

// NewTracker creates a Tracker that looks maps up in store. It starts with no
// current map.
func NewTracker(store catalog.Store, logger zerolog.Logger) *Tracker {
	t := &Tracker{store: store, log: logger}
	t.cur.Store(&Snapshot{})
	return t
}

// Snapshot returns the most recently published snapshot.
func (t *Tracker) Snapshot() *Snapshot {
	return t.cur.Load()
}

func (t *Tracker) CurrentMap() *catalog.Map {
	return t.Snapshot().CurrentMap()
}

func (t *Tracker) ClosestWaypoint() *catalog.PointOfInterest {
	return t.Snapshot().ClosestWaypoint()
}

func (t *Tracker) ClosestPoi() *catalog.PointOfInterest {
	return t.Snapshot().ClosestPoi()
}

// SetMap switches the tracker to the map with the given ID and loads its
// points of interest. The closest points are cleared until the next position
// update. If the catalog has no such map, the current snapshot is kept and
// catalog.ErrNotFound is returned.
//
// Overlapping calls take effect in the order they acquire the tracker, so the
// last map set is the one that stays current.
func (t *Tracker) SetMap(ctx context.Context, mapID int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	m, err := t.store.Maps().GetByID(ctx, mapID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			t.log.Debug().Int("map_id", mapID).Msg("map not in catalog; keeping current location")
		}
		return fmt.Errorf("get map %d: %w", mapID, err)
	}

	pois, err := t.store.PointsOfInterest().GetAllByMap(ctx, mapID)
	if err != nil {
		return fmt.Errorf("get points of interest of map %d: %w", mapID, err)
	}

	t.pois = pois
	t.cur.Store(&Snapshot{Map: &m})

	t.log.Debug().Int("map_id", mapID).Str("map", m.Name).Int("pois", len(pois)).Msg("map changed")
	return nil
}

// UpdatePosition recomputes the closest waypoint and closest landmark of the
// current map for the given avatar position. It does nothing if no map is
// set.
func (t *Tracker) UpdatePosition(pos Position) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := t.cur.Load()
	if cur.Map == nil {
		return
	}

	at := ToContinentCoords(pos, cur.Map.MapRect, cur.Map.ContinentRect)

	t.cur.Store(&Snapshot{
		Map:      cur.Map,
		Waypoint: Nearest(at, t.pois, catalog.PoiWaypoint),
		Poi:      Nearest(at, t.pois, catalog.PoiLandmark),
	})
}

// ToContinentCoords projects an avatar position onto the continent map. The
// horizontal X and Z axes of pos are scaled from mapRect to continentRect; the
// continent Y axis points the opposite way of the map Z axis.
func ToContinentCoords(pos Position, mapRect, continentRect catalog.Rect) catalog.Coord {
	x := pos.X * InchesPerMeter
	z := pos.Z * InchesPerMeter

	var c catalog.Coord
	if w := mapRect.Width(); w != 0 {
		c.X = continentRect.Min.X + (x-mapRect.Min.X)/w*continentRect.Width()
	} else {
		c.X = continentRect.Min.X
	}
	if h := mapRect.Height(); h != 0 {
		c.Y = continentRect.Min.Y + (1-(z-mapRect.Min.Y)/h)*continentRect.Height()
	} else {
		c.Y = continentRect.Min.Y
	}
	return c
}

// Nearest returns the point of interest of the given type that is closest to
// at, or nil if pois has none of that type. If several are equally close, the
// one that comes first in pois is returned.
func Nearest(at catalog.Coord, pois []catalog.PointOfInterest, typ catalog.PoiType) *catalog.PointOfInterest {
	var best *catalog.PointOfInterest
	bestDist := math.MaxFloat64

	for i := range pois {
		if pois[i].Type != typ {
			continue
		}
		d := math.Hypot(at.X-pois[i].Coord.X, at.Y-pois[i].Coord.Y)
		if d < bestDist {
			bestDist = d
			found := pois[i]
			best = &found
		}
	}

	return best
}
