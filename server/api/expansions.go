package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/chatmacro/server/result"
	"github.com/dekarrin/chatmacro/server/serr"
	"github.com/google/uuid"
)

// HTTPCreateExpansion returns a HandlerFunc that expands the macro text in the
// request body. A suppressed expansion is still a successful response; its
// result is empty and suppressed is set.
func (api API) HTTPCreateExpansion() http.HandlerFunc {
	return api.Endpoint(api.epCreateExpansion)
}

func (api API) epCreateExpansion(req *http.Request) result.Result {
	var expReq ExpansionRequest
	if err := parseJSON(req, &expReq); err != nil {
		if errors.Is(err, serr.ErrBadArgument) || errors.Is(err, serr.ErrBodyUnmarshal) {
			return result.BadRequest(err.Error(), "%s", err.Error())
		}
		return result.InternalServerError("%s", err.Error())
	}

	ctx := req.Context()
	select {
	case exp := <-api.Backend.ExpandAsync(ctx, expReq.Text):
		resp := ExpansionModel{
			ID:         uuid.New().String(),
			Text:       exp.Text,
			Result:     exp.Result,
			Suppressed: exp.Suppressed,
		}
		return result.OK(resp, "expansion %s done (suppressed=%t)", resp.ID, resp.Suppressed)
	case <-ctx.Done():
		return result.GatewayTimeout("expansion abandoned: %s", ctx.Err())
	}
}
