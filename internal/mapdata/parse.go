package mapdata

import (
	"fmt"
	"strings"

	"github.com/dekarrin/chatmacro/internal/catalog"
)

func parseCatalogData(mcd topLevelCatalogData) (CatalogData, error) {
	var data CatalogData

	seenMaps := map[int]bool{}

	for i, rm := range mcd.Maps {
		if seenMaps[rm.ID] {
			return data, fmt.Errorf("map[%d]: duplicate map ID %d", i, rm.ID)
		}
		seenMaps[rm.ID] = true

		reg, err := rm.toRegion()
		if err != nil {
			return data, fmt.Errorf("map[%d] (ID %d): %w", i, rm.ID, err)
		}

		data.Regions = append(data.Regions, reg)
	}

	return data, nil
}

func (rm regionMap) toRegion() (Region, error) {
	var reg Region
	var err error

	if rm.ID <= 0 {
		return reg, fmt.Errorf("id: must be greater than 0")
	}
	if strings.TrimSpace(rm.Name) == "" {
		return reg, fmt.Errorf("name: must not be blank")
	}

	reg.Map = catalog.Map{ID: rm.ID, Name: rm.Name}

	reg.Map.MapRect, err = parseRect(rm.MapRect)
	if err != nil {
		return reg, fmt.Errorf("map_rect: %w", err)
	}
	reg.Map.ContinentRect, err = parseRect(rm.ContinentRect)
	if err != nil {
		return reg, fmt.Errorf("continent_rect: %w", err)
	}

	seenPois := map[int]bool{}
	for i, p := range rm.Pois {
		if seenPois[p.ID] {
			return reg, fmt.Errorf("poi[%d]: duplicate point of interest ID %d", i, p.ID)
		}
		seenPois[p.ID] = true

		gp, err := p.toCatalogPoi(rm.ID)
		if err != nil {
			return reg, fmt.Errorf("poi[%d] (ID %d): %w", i, p.ID, err)
		}
		reg.Pois = append(reg.Pois, gp)
	}

	return reg, nil
}

func (p poi) toCatalogPoi(mapID int) (catalog.PointOfInterest, error) {
	gp := catalog.PointOfInterest{
		ID:       p.ID,
		MapID:    mapID,
		Name:     p.Name,
		ChatLink: p.ChatLink,
	}

	var err error
	gp.Type, err = catalog.ParsePoiType(p.Type)
	if err != nil {
		return gp, fmt.Errorf("type: %w", err)
	}

	gp.Coord, err = parseCoord(p.Coord)
	if err != nil {
		return gp, fmt.Errorf("coord: %w", err)
	}

	if gp.ChatLink == "" && (gp.Type == catalog.PoiWaypoint || gp.Type == catalog.PoiLandmark) {
		return gp, fmt.Errorf("chat_link: must be set for a %s", gp.Type)
	}

	return gp, nil
}

func parseCoord(c []float64) (catalog.Coord, error) {
	if len(c) != 2 {
		return catalog.Coord{}, fmt.Errorf("must be a pair [x, y]; got %d values", len(c))
	}
	return catalog.Coord{X: c[0], Y: c[1]}, nil
}

func parseRect(r [][]float64) (catalog.Rect, error) {
	if len(r) != 2 {
		return catalog.Rect{}, fmt.Errorf("must be two corners [[x1, y1], [x2, y2]]; got %d", len(r))
	}

	lo, err := parseCoord(r[0])
	if err != nil {
		return catalog.Rect{}, fmt.Errorf("first corner: %w", err)
	}
	hi, err := parseCoord(r[1])
	if err != nil {
		return catalog.Rect{}, fmt.Errorf("second corner: %w", err)
	}

	rect := catalog.Rect{Min: lo, Max: hi}
	if rect.Width() <= 0 || rect.Height() <= 0 {
		return rect, fmt.Errorf("second corner must be greater than first on both axes")
	}
	return rect, nil
}
