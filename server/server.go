// Package server provides the HTTP REST server that expands macros for a
// remote host program and receives its location updates.
//
// Routes:
//
//	POST /api/v1/expansions  - expand macro text.
//	GET  /api/v1/location    - get the current map and closest points.
//	PUT  /api/v1/location    - set the current map and position.
//	GET  /api/v1/maps        - list the maps in the catalog.
//	GET  /api/v1/maps/{id}   - get a map and its points of interest.
//	GET  /api/v1/info        - get version info and the macro commands.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/chatmacro"
	"github.com/dekarrin/chatmacro/internal/config"
	"github.com/dekarrin/chatmacro/server/api"
	"github.com/dekarrin/chatmacro/server/middle"
	"github.com/dekarrin/chatmacro/server/result"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// shutdownGrace is how long in-flight requests get to finish once the server
// is told to stop.
const shutdownGrace = 5 * time.Second

// Server is an HTTP REST server that expands ChatMacro macros. The zero value
// should not be used directly; call New to get one ready for use.
type Server struct {
	router chi.Router
	api    api.API
	cfg    config.Server
	log    zerolog.Logger
}

// New creates a new Server that expands macros with exp. cfg must have had
// defaults filled.
func New(exp *chatmacro.Expander, cfg config.Server, logger zerolog.Logger) *Server {
	s := &Server{
		api: api.API{
			Backend: exp,
			Log:     logger,
		},
		cfg: cfg,
		log: logger,
	}
	s.router = newRouter(s.api, cfg.RequestTimeout)
	return s
}

// ServeHTTP routes the request to the API.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.router.ServeHTTP(w, req)
}

// ServeUntilDone listens on the configured address until ctx is done, and then
// shuts down gracefully.
func (s *Server) ServeUntilDone(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("address", s.cfg.Listen).Msg("listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// p is a quick parameter in a URI, made very small to ease readability in route
// listings.
func p(nameType string) string {
	name, pat, hasPat := strings.Cut(nameType, ":")
	if !hasPat {
		return "{" + name + "}"
	}
	if pat == "int" {
		pat = "[0-9]+"
	}
	return "{" + name + ":" + pat + "}"
}

func newRouter(a api.API, timeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middle.AssignRequestID())
	r.Use(middle.Timeout(timeout))

	r.Mount(api.PathPrefix, newAPIRouter(a))

	return r
}

func newAPIRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Post("/expansions", a.HTTPCreateExpansion())

	r.Get("/location", a.HTTPGetLocation())
	r.Put("/location", a.HTTPReplaceLocation())

	r.Get("/maps", a.HTTPGetAllMaps())
	r.Get("/maps/"+p("id:int"), a.HTTPGetMap())

	r.Get("/info", a.HTTPGetInfo())

	r.HandleFunc("/expansions/", redirectNoTrailingSlash)
	r.HandleFunc("/location/", redirectNoTrailingSlash)
	r.HandleFunc("/maps/", redirectNoTrailingSlash)
	r.HandleFunc("/info/", redirectNoTrailingSlash)

	r.NotFound(a.Endpoint(func(req *http.Request) result.Result {
		return result.NotFound("no route for %s", req.URL.Path)
	}))
	r.MethodNotAllowed(a.Endpoint(func(req *http.Request) result.Result {
		return result.MethodNotAllowed(req)
	}))

	return r
}

// redirectNoTrailingSlash redirects to the same URL as the request but with
// no trailing slash.
func redirectNoTrailingSlash(w http.ResponseWriter, req *http.Request) {
	redirPath := strings.TrimRight(req.URL.Path, "/")
	result.Redirection(redirPath).WriteResponse(w)
}
