// Package macro expands the commands embedded in chat macro text. A command is
// written as "{keyword arg1 arg2}" and is replaced by the value its provider
// resolves to, such as the current time or the closest waypoint.
package macro

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/dekarrin/chatmacro/internal/catalog"
	"github.com/dekarrin/chatmacro/internal/fetch"
	"github.com/dekarrin/chatmacro/internal/util"
	"github.com/dekarrin/chatmacro/internal/version"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
)

// LocationSnapshot is read-only access to the latest known location of the
// player. Any accessor may return nil if the information is not known. Values
// may change between calls.
type LocationSnapshot interface {
	CurrentMap() *catalog.Map
	ClosestWaypoint() *catalog.PointOfInterest
	ClosestPoi() *catalog.PointOfInterest
}

// Fetcher retrieves the body of a remote resource as text.
type Fetcher interface {
	GetString(ctx context.Context, url string) (string, error)
}

// Clock gives the current time.
type Clock interface {
	Now() time.Time
}

// IntSource is a source of uniformly distributed random integers. It is
// satisfied by *rand.Rand from math/rand/v2.
type IntSource interface {
	// Int64N returns a value in [0, n). It may panic if n <= 0.
	Int64N(n int64) int64
}

// ProviderFunc is the implementation of a command. It receives the arguments
// that followed the keyword and returns the resolved value.
//
// Expected failures, such as missing data, are reported by returning
// Unavailable with a nil error. A non-nil error is reserved for unexpected
// faults; it is logged by the Resolver and treated the same as Unavailable.
type ProviderFunc func(ctx context.Context, args []string) (Result, error)

// Provider defines a command that can be used in macro text.
type Provider struct {
	// Keyword is the name of the command, as written in "{keyword ...}". It is
	// case-sensitive.
	Keyword string

	// Usage is a short description of the arguments the command accepts.
	Usage string

	// Call is the Go implementation of the command.
	Call ProviderFunc
}

// Options configures a Resolver. The zero value is valid; every unset field
// falls back to a default.
type Options struct {
	// Location gives the player location for the "map", "wp", and "poi"
	// commands. If nil, those commands are always unavailable.
	Location LocationSnapshot

	// Fetcher performs the HTTP requests of the "json" command. Defaults to a
	// fetch.Client with default settings.
	Fetcher Fetcher

	// Clock is used by "time" and "today". Defaults to the system clock.
	Clock Clock

	// Rand is used by "random" and "txt". Defaults to the math/rand/v2
	// top-level generator. It need not be safe for concurrent use; the
	// Resolver serializes calls to it.
	Rand IntSource

	// Culture is the active UI culture. Defaults to English.
	Culture *Culture

	// HostName and HostVersion make up the label given by the "blish"
	// command. HostName defaults to version.HostName; if HostVersion is empty
	// the command is unavailable.
	HostName    string
	HostVersion string

	// Logger receives errors raised inside providers. Defaults to a logger
	// that discards everything.
	Logger *zerolog.Logger
}

// Resolver maps command keywords to providers and calls them. A Resolver is
// safe for concurrent use once created.
//
// Resolver should not be used directly; create one with [NewResolver].
type Resolver struct {
	fn map[string]Provider

	loc      LocationSnapshot
	fetcher  Fetcher
	clock    Clock
	rand     IntSource
	culture  Culture
	hostName string
	hostVer  string
	log      zerolog.Logger
}

// NewResolver creates a Resolver with the fixed set of built-in providers.
func NewResolver(opts Options) *Resolver {
	r := &Resolver{
		loc:      opts.Location,
		fetcher:  opts.Fetcher,
		clock:    opts.Clock,
		rand:     opts.Rand,
		hostName: opts.HostName,
		hostVer:  opts.HostVersion,
	}

	if r.fetcher == nil {
		r.fetcher = fetch.New(fetch.Config{})
	}
	if r.clock == nil {
		r.clock = systemClock{}
	}
	if r.rand == nil {
		r.rand = globalRand{}
	} else {
		r.rand = &lockedRand{src: r.rand}
	}
	if opts.Culture != nil {
		r.culture = *opts.Culture
	} else {
		r.culture = NewCulture(language.English)
	}
	if r.hostName == "" {
		r.hostName = version.HostName
	}
	if opts.Logger != nil {
		r.log = *opts.Logger
	} else {
		r.log = zerolog.Nop()
	}

	r.initProviders()

	return r
}

// Keywords returns the keyword of every registered provider in a stable order.
func (r *Resolver) Keywords() []string {
	return util.OrderedKeys(r.fn)
}

// Usage returns the usage text of the provider with the given keyword, or the
// empty string if there is no such provider.
func (r *Resolver) Usage(keyword string) string {
	return r.fn[keyword].Usage
}

// Resolve resolves the full text of one command, such as "random 1 100". An
// unknown keyword, a provider that has nothing to give, and a provider that
// fails all give Unavailable; no error ever escapes Resolve.
func (r *Resolver) Resolve(ctx context.Context, commandText string) (res Result) {
	cmd := ParseCommand(commandText)

	p, ok := r.fn[cmd.Keyword]
	if !ok {
		r.log.Debug().Str("keyword", cmd.Keyword).Msg("unknown macro command")
		return Unavailable
	}

	defer func() {
		if panicErr := recover(); panicErr != nil {
			r.log.Error().
				Str("command", commandText).
				Interface("panic", panicErr).
				Bytes("stack", debug.Stack()).
				Msg("macro provider panicked")
			res = Unavailable
		}
	}()

	var err error
	res, err = p.Call(ctx, cmd.Args)
	if err != nil {
		r.log.Error().Err(err).Str("command", commandText).Msg("macro provider failed")
		return Unavailable
	}

	return res
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

type lockedRand struct {
	mu  sync.Mutex
	src IntSource
}

func (lr *lockedRand) Int64N(n int64) int64 {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	return lr.src.Int64N(n)
}
