package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/chatmacro/internal/catalog"
	"github.com/dekarrin/chatmacro/internal/location"
	"github.com/dekarrin/chatmacro/server/result"
	"github.com/dekarrin/chatmacro/server/serr"
)

// HTTPGetLocation returns a HandlerFunc that gives the current map of the
// player and the points of interest closest to them.
func (api API) HTTPGetLocation() http.HandlerFunc {
	return api.Endpoint(api.epGetLocation)
}

// HTTPReplaceLocation returns a HandlerFunc that sets the map and position of
// the player. The map is only reloaded when map_id differs from the current
// one. If position is omitted, only the map is changed.
func (api API) HTTPReplaceLocation() http.HandlerFunc {
	return api.Endpoint(api.epReplaceLocation)
}

func (api API) epGetLocation(req *http.Request) result.Result {
	return result.OK(locationModel(api.Backend.Location()), "got location")
}

func (api API) epReplaceLocation(req *http.Request) result.Result {
	var locReq LocationRequest
	if err := parseJSON(req, &locReq); err != nil {
		if errors.Is(err, serr.ErrBadArgument) || errors.Is(err, serr.ErrBodyUnmarshal) {
			return result.BadRequest(err.Error(), "%s", err.Error())
		}
		return result.InternalServerError("%s", err.Error())
	}
	if locReq.MapID < 1 {
		return result.BadRequest("map_id: property is missing or not a positive number", "bad map_id %d", locReq.MapID)
	}

	ctx := req.Context()

	if cur := api.Backend.Location().CurrentMap(); cur == nil || cur.ID != locReq.MapID {
		if err := api.Backend.SetMap(ctx, locReq.MapID); err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return result.BadRequest("map_id: no map with that ID is in the catalog", "%s", err.Error())
			}
			return result.InternalServerError("%s", err.Error())
		}
	}

	if locReq.Position != nil {
		api.Backend.UpdatePosition(location.Position{
			X: locReq.Position.X,
			Y: locReq.Position.Y,
			Z: locReq.Position.Z,
		})
	}

	return result.OK(locationModel(api.Backend.Location()), "location set to map %d", locReq.MapID)
}

func locationModel(snap *location.Snapshot) LocationModel {
	var resp LocationModel

	if m := snap.CurrentMap(); m != nil {
		mm := mapModel(*m, nil)
		resp.Map = &mm
	}
	if wp := snap.ClosestWaypoint(); wp != nil {
		pm := poiModel(*wp)
		resp.ClosestWaypoint = &pm
	}
	if poi := snap.ClosestPoi(); poi != nil {
		pm := poiModel(*poi)
		resp.ClosestPoi = &pm
	}

	return resp
}
