package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dekarrin/chatmacro/internal/catalog"
	"github.com/dekarrin/chatmacro/server/result"
)

// HTTPGetAllMaps returns a HandlerFunc that lists every map in the catalog.
func (api API) HTTPGetAllMaps() http.HandlerFunc {
	return api.Endpoint(api.epGetAllMaps)
}

// HTTPGetMap returns a HandlerFunc that gives one map of the catalog along
// with its points of interest.
func (api API) HTTPGetMap() http.HandlerFunc {
	return api.Endpoint(api.epGetMap)
}

func (api API) epGetAllMaps(req *http.Request) result.Result {
	maps, err := api.Backend.Maps(req.Context())
	if err != nil {
		return result.InternalServerError("%s", err.Error())
	}

	resp := make([]MapModel, len(maps))
	for i := range maps {
		resp[i] = mapModel(maps[i], nil)
	}

	return result.OK(resp, "got all %d maps", len(resp))
}

func (api API) epGetMap(req *http.Request) result.Result {
	id, err := requireIDParam(req)
	if err != nil {
		return result.BadRequest(err.Error(), "%s", err.Error())
	}

	m, pois, err := api.Backend.Map(req.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return result.NotFound("%s", err.Error())
		}
		return result.InternalServerError("%s", err.Error())
	}

	return result.OK(mapModel(m, pois), "got map %d", id)
}

func mapModel(m catalog.Map, pois []catalog.PointOfInterest) MapModel {
	mm := MapModel{
		URI:  PathPrefix + "/maps/" + strconv.Itoa(m.ID),
		ID:   m.ID,
		Name: m.Name,
	}
	for i := range pois {
		mm.Pois = append(mm.Pois, poiModel(pois[i]))
	}
	return mm
}

func poiModel(p catalog.PointOfInterest) PoiModel {
	return PoiModel{
		ID:       p.ID,
		Name:     p.Name,
		Type:     p.Type.String(),
		X:        p.Coord.X,
		Y:        p.Coord.Y,
		ChatLink: p.ChatLink,
	}
}
