// Package catalog provides data access objects for the map catalog: the maps
// of the game world and the points of interest found in their regions.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
)

// Store holds all the repositories.
type Store interface {
	Maps() MapRepository
	PointsOfInterest() PointOfInterestRepository
	Close() error
}

// MapRepository stores Maps keyed by their game ID.
type MapRepository interface {

	// Create creates a new Map. The ID of the given Map is used as-is; if a
	// Map with the same ID already exists, ErrConstraintViolation is returned.
	Create(ctx context.Context, m Map) (Map, error)
	GetByID(ctx context.Context, id int) (Map, error)
	GetAll(ctx context.Context) ([]Map, error)
	Delete(ctx context.Context, id int) (Map, error)
}

// PointOfInterestRepository stores the points of interest of every region map.
type PointOfInterestRepository interface {

	// Create creates a new PointOfInterest. If one with the same ID already
	// exists on the same map, ErrConstraintViolation is returned.
	Create(ctx context.Context, poi PointOfInterest) (PointOfInterest, error)

	// GetAllByMap returns every point of interest across all regions of the
	// given map, in the order they were created. A map with no points of
	// interest gives an empty slice and a nil error.
	GetAllByMap(ctx context.Context, mapID int) ([]PointOfInterest, error)
	DeleteAllByMap(ctx context.Context, mapID int) error
}

// PoiType is the kind of a point of interest.
type PoiType int

const (
	PoiUnknown PoiType = iota
	PoiLandmark
	PoiWaypoint
	PoiVista
	PoiUnlock
)

func (pt PoiType) String() string {
	switch pt {
	case PoiUnknown:
		return "unknown"
	case PoiLandmark:
		return "landmark"
	case PoiWaypoint:
		return "waypoint"
	case PoiVista:
		return "vista"
	case PoiUnlock:
		return "unlock"
	default:
		return fmt.Sprintf("PoiType(%d)", int(pt))
	}
}

// ParsePoiType parses a PoiType from its string form.
func ParsePoiType(s string) (PoiType, error) {
	check := strings.ToLower(s)
	switch check {
	case "landmark":
		return PoiLandmark, nil
	case "waypoint":
		return PoiWaypoint, nil
	case "vista":
		return PoiVista, nil
	case "unlock":
		return PoiUnlock, nil
	default:
		return PoiUnknown, fmt.Errorf("must be one of 'landmark', 'waypoint', 'vista', or 'unlock'")
	}
}

// Coord is a point in 2D continent coordinates.
type Coord struct {
	X float64
	Y float64
}

// Rect is an axis-aligned rectangle given by two opposite corners.
type Rect struct {
	Min Coord
	Max Coord
}

// Width is the extent of r along the X axis.
func (r Rect) Width() float64 {
	return r.Max.X - r.Min.X
}

// Height is the extent of r along the Y axis.
func (r Rect) Height() float64 {
	return r.Max.Y - r.Min.Y
}

// Map is a single explorable map of the game world.
type Map struct {
	ID   int
	Name string

	// MapRect is the bounds of the map in map coordinates (inches), with Min
	// being the bottom-left corner.
	MapRect Rect

	// ContinentRect is the bounds of the map in continent coordinates, with
	// Min being the top-left corner.
	ContinentRect Rect
}

// PointOfInterest is a named location on a region map.
type PointOfInterest struct {
	ID    int
	MapID int
	Name  string
	Type  PoiType
	Coord Coord

	// ChatLink is the code that renders as a clickable link to the point of
	// interest when sent in chat.
	ChatLink string
}
