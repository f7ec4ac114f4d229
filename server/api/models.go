package api

// note that these are *not* the catalog models; those are distinct and closer
// to the storage format. Rather these are the models that are received from
// and sent to the client.

type ExpansionRequest struct {
	Text string `json:"text"`
}

type ExpansionModel struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Result     string `json:"result"`
	Suppressed bool   `json:"suppressed"`
}

type PositionModel struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type LocationRequest struct {
	MapID    int            `json:"map_id"`
	Position *PositionModel `json:"position,omitempty"`
}

type LocationModel struct {
	Map             *MapModel `json:"map"`
	ClosestWaypoint *PoiModel `json:"closest_waypoint"`
	ClosestPoi      *PoiModel `json:"closest_poi"`
}

type MapModel struct {
	URI  string     `json:"uri"`
	ID   int        `json:"id"`
	Name string     `json:"name"`
	Pois []PoiModel `json:"pois,omitempty"`
}

type PoiModel struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	ChatLink string  `json:"chat_link,omitempty"`
}

type InfoModel struct {
	Version struct {
		Server    string `json:"server"`
		ChatMacro string `json:"chatmacro"`
	} `json:"version"`
	Commands []string `json:"commands"`
}
