// Package api provides HTTP API endpoints for the ChatMacro server.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"runtime/debug"
	"strconv"

	"github.com/dekarrin/chatmacro"
	"github.com/dekarrin/chatmacro/server/middle"
	"github.com/dekarrin/chatmacro/server/result"
	"github.com/dekarrin/chatmacro/server/serr"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	// PathPrefix is the prefix of all paths in the API. Routers should mount
	// a sub-router that routes all requests to the API at this path.
	PathPrefix = "/api/v1"

	// MaxBodySize is the largest request body that is read.
	MaxBodySize = 64 * 1024
)

// API holds parameters for endpoints needed to run and the Expander that
// performs the actual work. To use API, create one and then assign the result
// of its HTTP* methods as handlers to a router or some other kind of server
// mux.
type API struct {
	// Backend expands macros and tracks the player location.
	Backend *chatmacro.Expander

	// Log receives a line for every response.
	Log zerolog.Logger
}

// EndpointFunc handles a request and gives the Result to write back.
type EndpointFunc func(req *http.Request) result.Result

// Endpoint wraps ep in a HandlerFunc that logs and writes its Result and turns
// panics into an HTTP-500.
func (api API) Endpoint(ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer api.panicTo500(w, req)
		r := ep(req)

		// pre-call PrepareMarshaledResponse bc if it fails in call to
		// WriteResponse, it will panic.
		if err := r.PrepareMarshaledResponse(); err != nil {
			r = result.InternalServerError("could not marshal JSON response: %s", err.Error())
		}

		api.logHTTPResponse(req, r)
		r.WriteResponse(w)
	}
}

// requireIDParam gets the integer ID of the main entity being referenced in
// the URI. The route pattern must only allow digits for it.
func requireIDParam(r *http.Request) (int, error) {
	return getURLParam(r, "id", strconv.Atoi)
}

func getURLParam[E any](r *http.Request, key string, parse func(string) (E, error)) (val E, err error) {
	valStr := chi.URLParam(r, key)
	if valStr == "" {
		return val, serr.New(fmt.Sprintf("parameter %q does not exist", key), serr.ErrBadArgument)
	}

	val, err = parse(valStr)
	if err != nil {
		return val, serr.New(fmt.Sprintf("parameter %q is not valid", key), err, serr.ErrBadArgument)
	}
	return val, nil
}

// v must be a pointer to a type. Will return error such that
// errors.Is(err, serr.ErrBodyUnmarshal) returns true if it is a problem
// decoding the JSON itself.
func parseJSON(req *http.Request, v interface{}) error {
	mediaType, _, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return serr.New("request content-type is not application/json", serr.ErrBadArgument)
	}

	bodyData, err := io.ReadAll(io.LimitReader(req.Body, MaxBodySize+1))
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	if len(bodyData) > MaxBodySize {
		return serr.New(fmt.Sprintf("request body is larger than %d bytes", MaxBodySize), serr.ErrBadArgument)
	}
	defer func() {
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(bodyData))
	}()

	if err := json.Unmarshal(bodyData, v); err != nil {
		return serr.New("malformed JSON in request", err, serr.ErrBodyUnmarshal)
	}

	return nil
}

func (api API) panicTo500(w http.ResponseWriter, req *http.Request) {
	if panicErr := recover(); panicErr != nil {
		r := result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			"panic: %v", panicErr,
		)
		api.Log.Error().
			Str("request_id", middle.GetRequestID(req.Context())).
			Bytes("stack", debug.Stack()).
			Msg(r.InternalMsg)
		r.WriteResponse(w)
	}
}

func (api API) logHTTPResponse(req *http.Request, r result.Result) {
	ev := api.Log.Info()
	if r.IsErr {
		if r.Status >= 500 {
			ev = api.Log.Error()
		} else {
			ev = api.Log.Warn()
		}
	}

	ev.
		Str("request_id", middle.GetRequestID(req.Context())).
		Str("remote", req.RemoteAddr).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", r.Status).
		Msg(r.InternalMsg)
}
