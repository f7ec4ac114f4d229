// Package chatmacro expands chat macros for a single player. It ties the
// macro engine to the map catalog and the location tracker and provides an
// interactive shell for trying macros out at a terminal.
package chatmacro

import (
	"context"
	"fmt"

	"github.com/dekarrin/chatmacro/internal/catalog"
	"github.com/dekarrin/chatmacro/internal/config"
	"github.com/dekarrin/chatmacro/internal/fetch"
	"github.com/dekarrin/chatmacro/internal/location"
	"github.com/dekarrin/chatmacro/internal/macro"
	"github.com/dekarrin/chatmacro/internal/mapdata"
	"github.com/rs/zerolog"
)

// Expansion is the outcome of expanding one piece of macro text.
type Expansion struct {
	// Text is the macro text as given.
	Text string

	// Result is the text with every command replaced. It is empty if
	// Suppressed is true.
	Result string

	// Suppressed is whether a command in Text had no value, so that nothing
	// should be sent.
	Suppressed bool
}

// Expander expands macro text using the location of a single player. It is
// safe for concurrent use.
type Expander struct {
	store    catalog.Store
	tracker  *location.Tracker
	resolver *macro.Resolver
	engine   *macro.Engine
}

// NewExpander creates an Expander that looks up maps in store. The Location
// of opts is replaced with the Expander's own location tracker.
func NewExpander(store catalog.Store, opts macro.Options, logger zerolog.Logger) *Expander {
	tracker := location.NewTracker(store, logger.With().Str("component", "location").Logger())

	resolverLog := logger.With().Str("component", "macro").Logger()
	opts.Location = tracker
	if opts.Logger == nil {
		opts.Logger = &resolverLog
	}
	resolver := macro.NewResolver(opts)

	return &Expander{
		store:    store,
		tracker:  tracker,
		resolver: resolver,
		engine:   macro.NewEngine(resolver),
	}
}

// ResolverOptions builds the macro options described by cfg. cfg must have
// had defaults filled.
func ResolverOptions(cfg config.Config) (macro.Options, error) {
	culture, err := macro.ParseCulture(cfg.Culture)
	if err != nil {
		return macro.Options{}, err
	}

	fetcher := fetch.New(fetch.Config{
		Timeout:           cfg.HTTP.Timeout,
		RequestsPerSecond: cfg.HTTP.RequestsPerSecond,
		Burst:             cfg.HTTP.Burst,
		UserAgent:         cfg.HTTP.UserAgent,
	})

	return macro.Options{
		Fetcher:     fetcher,
		Culture:     &culture,
		HostName:    cfg.Host.Name,
		HostVersion: cfg.Host.Version,
	}, nil
}

// OpenCatalog connects to the catalog store given by cfg and imports the
// catalog data file into it, if one is set. cfg must have had defaults filled.
func OpenCatalog(ctx context.Context, cfg config.Catalog, logger zerolog.Logger) (catalog.Store, error) {
	store, err := cfg.DB.Connect()
	if err != nil {
		return nil, fmt.Errorf("connect to catalog: %w", err)
	}

	if cfg.DataFile == "" {
		return store, nil
	}

	data, err := mapdata.LoadBundle(cfg.DataFile)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("load catalog data: %w", err)
	}

	maps, pois, err := mapdata.Import(ctx, store, data)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("import catalog data: %w", err)
	}

	logger.Info().Str("file", cfg.DataFile).Int("maps", maps).Int("pois", pois).Msg("catalog data imported")
	return store, nil
}

// Expand replaces the commands in text with their values.
func (e *Expander) Expand(ctx context.Context, text string) Expansion {
	return newExpansion(text, e.engine.ReplaceCommands(ctx, text))
}

// ExpandAsync is Expand run in the background. Exactly one Expansion is sent
// on the returned channel; callers that stop waiting for it may drop it.
func (e *Expander) ExpandAsync(ctx context.Context, text string) <-chan Expansion {
	resultCh := e.engine.ReplaceCommandsAsync(ctx, text)

	expCh := make(chan Expansion, 1)
	go func() {
		expCh <- newExpansion(text, <-resultCh)
	}()
	return expCh
}

func newExpansion(text, result string) Expansion {
	return Expansion{
		Text:       text,
		Result:     result,
		Suppressed: result == "" && text != "",
	}
}

// SetMap moves the player to the map with the given ID.
func (e *Expander) SetMap(ctx context.Context, mapID int) error {
	return e.tracker.SetMap(ctx, mapID)
}

// UpdatePosition moves the player to pos on the current map.
func (e *Expander) UpdatePosition(pos location.Position) {
	e.tracker.UpdatePosition(pos)
}

// Location returns the current location of the player.
func (e *Expander) Location() *location.Snapshot {
	return e.tracker.Snapshot()
}

// Maps returns every map in the catalog.
func (e *Expander) Maps(ctx context.Context) ([]catalog.Map, error) {
	return e.store.Maps().GetAll(ctx)
}

// Map returns the map with the given ID and its points of interest. If there
// is no such map, the returned error matches catalog.ErrNotFound.
func (e *Expander) Map(ctx context.Context, id int) (catalog.Map, []catalog.PointOfInterest, error) {
	m, err := e.store.Maps().GetByID(ctx, id)
	if err != nil {
		return catalog.Map{}, nil, fmt.Errorf("get map %d: %w", id, err)
	}

	pois, err := e.store.PointsOfInterest().GetAllByMap(ctx, id)
	if err != nil {
		return catalog.Map{}, nil, fmt.Errorf("get points of interest of map %d: %w", id, err)
	}

	return m, pois, nil
}

// Keywords returns the keyword of every macro command.
func (e *Expander) Keywords() []string {
	return e.resolver.Keywords()
}

// Usage returns the arguments the command with the given keyword takes.
func (e *Expander) Usage(keyword string) string {
	return e.resolver.Usage(keyword)
}
