package api

import (
	"net/http"

	"github.com/dekarrin/chatmacro/internal/version"
	"github.com/dekarrin/chatmacro/server/result"
)

// HTTPGetInfo returns a HandlerFunc that retrieves information on the API and
// server.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return api.Endpoint(api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	var resp InfoModel
	resp.Version.Server = version.ServerCurrent
	resp.Version.ChatMacro = version.Current

	for _, kw := range api.Backend.Keywords() {
		resp.Commands = append(resp.Commands, api.Backend.Usage(kw))
	}

	return result.OK(resp, "got API info")
}
