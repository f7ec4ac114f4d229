package macro

import (
	"context"
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_Resolver_Resolve_blish(t *testing.T) {
	testCases := []struct {
		name     string
		hostName string
		version  string
		expect   Result
	}{
		{
			name:    "default host name",
			version: "1.2.3",
			expect:  Resolved("ChatMacro v1.2.3"),
		},
		{
			name:     "build metadata is cut",
			hostName: "Blish HUD",
			version:  "1.1.0+20240101.abc",
			expect:   Resolved("Blish HUD v1.1.0"),
		},
		{
			name:    "no version",
			version: "",
			expect:  Unavailable,
		},
		{
			name:    "only build metadata",
			version: "+abc",
			expect:  Unavailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			r := NewResolver(Options{HostName: tc.hostName, HostVersion: tc.version})

			actual := r.Resolve(context.Background(), "blish")

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Resolver_Resolve_clock(t *testing.T) {
	de, _ := ParseCulture("de-DE")
	when := fixedClock(time.Date(2024, time.January, 1, 7, 3, 0, 0, time.UTC))

	testCases := []struct {
		name    string
		command string
		culture *Culture
		expect  string
	}{
		{
			name:    "time",
			command: "time",
			expect:  "07:03",
		},
		{
			name:    "today english",
			command: "today",
			expect:  "Monday, 1.1.2024",
		},
		{
			name:    "today german",
			command: "today",
			culture: &de,
			expect:  "Montag, 1.1.2024",
		},
		{
			name:    "args are ignored",
			command: "time please",
			expect:  "07:03",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			r := NewResolver(Options{Clock: when, Culture: tc.culture})

			actual := r.Resolve(context.Background(), tc.command)

			assert.Equal(Resolved(tc.expect), actual)
		})
	}
}

func Test_Resolver_Resolve_location(t *testing.T) {
	testCases := []struct {
		name    string
		loc     LocationSnapshot
		command string
		expect  Result
	}{
		{
			name:    "map name",
			loc:     lionsArch(),
			command: "map",
			expect:  Resolved("Lion's Arch"),
		},
		{
			name:    "waypoint chat link",
			loc:     lionsArch(),
			command: "wp",
			expect:  Resolved("[&BDAEAAA=]"),
		},
		{
			name:    "poi chat link",
			loc:     lionsArch(),
			command: "poi",
			expect:  Resolved("[&BDIEAAA=]"),
		},
		{
			name:    "no map",
			loc:     fakeLocation{},
			command: "map",
			expect:  Unavailable,
		},
		{
			name:    "no waypoint",
			loc:     fakeLocation{},
			command: "wp",
			expect:  Unavailable,
		},
		{
			name:    "no poi",
			loc:     fakeLocation{},
			command: "poi",
			expect:  Unavailable,
		},
		{
			name:    "no location source",
			loc:     nil,
			command: "wp",
			expect:  Unavailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			r := NewResolver(Options{Location: tc.loc})

			actual := r.Resolve(context.Background(), tc.command)

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Resolver_Resolve_random(t *testing.T) {
	testCases := []struct {
		name      string
		command   string
		expectMin int64
		expectMax int64
	}{
		{
			name:      "max only",
			command:   "random 5",
			expectMin: 0,
			expectMax: 5,
		},
		{
			name:      "min and max",
			command:   "random 10 20",
			expectMin: 10,
			expectMax: 20,
		},
		{
			name:      "bounds out of order are swapped",
			command:   "random 20 10",
			expectMin: 10,
			expectMax: 20,
		},
		{
			name:      "negative range",
			command:   "random -3 -1",
			expectMin: -3,
			expectMax: -1,
		},
		{
			name:      "non-numbers are zero",
			command:   "random x y",
			expectMin: 0,
			expectMax: 0,
		},
		{
			name:      "non-number max is zero",
			command:   "random abc",
			expectMin: 0,
			expectMax: 0,
		},
		{
			name:      "no args",
			command:   "random",
			expectMin: math.MinInt32,
			expectMax: math.MaxInt32,
		},
		{
			name:      "too many args ignores them and stays non-negative",
			command:   "random -50 -40 -30",
			expectMin: 0,
			expectMax: math.MaxInt32,
		},
		{
			name:      "arg beyond 32 bits is zero",
			command:   "random 99999999999",
			expectMin: 0,
			expectMax: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			r := NewResolver(Options{Rand: seededRand()})

			for i := 0; i < 100; i++ {
				actual := r.Resolve(context.Background(), tc.command)
				if !assert.True(actual.OK) {
					return
				}

				n, err := strconv.ParseInt(actual.Value, 10, 64)
				if !assert.NoError(err) {
					return
				}
				assert.GreaterOrEqual(n, tc.expectMin)
				assert.LessOrEqual(n, tc.expectMax)
			}
		})
	}
}

func Test_Resolver_Resolve_randomCoversRange(t *testing.T) {
	assert := assert.New(t)

	r := NewResolver(Options{Rand: seededRand()})

	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		seen[r.Resolve(context.Background(), "random 1 4").Value] = true
	}

	assert.Equal(map[string]bool{"1": true, "2": true, "3": true, "4": true}, seen)
}

func Test_Resolver_Resolve_json(t *testing.T) {
	const body = `{"data":{"name":"Rata Sum","tags":["asura","city"],"level":80,"ok":true}}`

	testCases := []struct {
		name        string
		command     string
		body        string
		err         error
		expect      Result
		expectCalls int
	}{
		{
			name:        "string property",
			command:     "json data.name https://api.example.com/maps/1",
			body:        body,
			expect:      Resolved("Rata Sum"),
			expectCalls: 1,
		},
		{
			name:        "number property",
			command:     "json data.level https://api.example.com/maps/1",
			body:        body,
			expect:      Resolved("80"),
			expectCalls: 1,
		},
		{
			name:        "array index",
			command:     "json data.tags.1 https://api.example.com/maps/1",
			body:        body,
			expect:      Resolved("city"),
			expectCalls: 1,
		},
		{
			name:        "missing property",
			command:     "json data.region https://api.example.com/maps/1",
			body:        body,
			expect:      Unavailable,
			expectCalls: 1,
		},
		{
			name:        "malformed body",
			command:     "json data.name https://api.example.com/maps/1",
			body:        `{"data":`,
			expect:      Unavailable,
			expectCalls: 1,
		},
		{
			name:        "request failed",
			command:     "json data.name https://api.example.com/maps/1",
			err:         errFetch,
			expect:      Unavailable,
			expectCalls: 1,
		},
		{
			name:        "missing url",
			command:     "json data.name",
			body:        body,
			expect:      Unavailable,
			expectCalls: 0,
		},
		{
			name:        "not a web link",
			command:     "json data.name ftp://api.example.com/maps/1",
			body:        body,
			expect:      Unavailable,
			expectCalls: 0,
		},
		{
			name:        "relative url",
			command:     "json data.name /maps/1",
			body:        body,
			expect:      Unavailable,
			expectCalls: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			ff := &fakeFetcher{body: tc.body, err: tc.err}
			r := NewResolver(Options{Fetcher: ff})

			actual := r.Resolve(context.Background(), tc.command)

			assert.Equal(tc.expect, actual)
			assert.Equal(tc.expectCalls, ff.calls)
		})
	}
}

func Test_Resolver_Resolve_txt(t *testing.T) {
	path := writeTempFile(t, "lines.txt", "alpha\nbeta\r\ngamma\n")

	testCases := []struct {
		name    string
		command string
		expect  Result
	}{
		{
			name:    "first line",
			command: "txt " + path + " 0",
			expect:  Resolved("alpha"),
		},
		{
			name:    "middle line",
			command: "txt " + path + " 1",
			expect:  Resolved("beta"),
		},
		{
			name:    "index that does not parse selects first line",
			command: "txt " + path + " second",
			expect:  Resolved("alpha"),
		},
		{
			name:    "negative index",
			command: "txt " + path + " -1",
			expect:  Unavailable,
		},
		{
			name:    "missing file",
			command: "txt " + path + ".missing",
			expect:  Unavailable,
		},
		{
			name:    "directory",
			command: "txt " + t.TempDir(),
			expect:  Unavailable,
		},
		{
			name:    "no args",
			command: "txt",
			expect:  Unavailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			r := NewResolver(Options{Rand: seededRand()})

			actual := r.Resolve(context.Background(), tc.command)

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Resolver_Resolve_txtRandomLine(t *testing.T) {
	path := writeTempFile(t, "lines.txt", "alpha\nbeta\ngamma")

	testCases := []struct {
		name    string
		command string
	}{
		{
			name:    "no index",
			command: "txt " + path,
		},
		{
			name:    "index of last line",
			command: "txt " + path + " 2",
		},
		{
			name:    "index past the end",
			command: "txt " + path + " 42",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			r := NewResolver(Options{Rand: seededRand()})

			seen := map[string]bool{}
			for i := 0; i < 300; i++ {
				seen[r.Resolve(context.Background(), tc.command).Value] = true
			}

			assert.Equal(map[string]bool{"alpha": true, "beta": true, "gamma": true}, seen)
		})
	}
}

func Test_Resolver_Resolve_txtEncodedSpaces(t *testing.T) {
	assert := assert.New(t)

	path := writeTempFile(t, "my quotes.txt", "\uFEFFfirst\rsecond\r")
	encoded := strings.ReplaceAll(path, " ", "%20")

	r := NewResolver(Options{Rand: seededRand()})

	assert.Equal(Resolved("first"), r.Resolve(context.Background(), "txt "+encoded+" 0"))
}

func Test_Resolver_Resolve_txtEmptyFile(t *testing.T) {
	assert := assert.New(t)

	path := writeTempFile(t, "empty.txt", "")

	r := NewResolver(Options{Rand: seededRand()})

	assert.Equal(Unavailable, r.Resolve(context.Background(), "txt "+path))
}

func Test_GetProperty(t *testing.T) {
	testCases := []struct {
		name   string
		json   string
		path   string
		expect string
	}{
		{
			name:   "top level",
			json:   `{"name":"Divinity's Reach"}`,
			path:   "name",
			expect: "Divinity's Reach",
		},
		{
			name:   "nested",
			json:   `{"a":{"b":{"c":"deep"}}}`,
			path:   "a.b.c",
			expect: "deep",
		},
		{
			name:   "empty segments ignored",
			json:   `{"a":{"b":"x"}}`,
			path:   ".a..b.",
			expect: "x",
		},
		{
			name:   "object gives its json",
			json:   `{"a":{"b":1}}`,
			path:   "a",
			expect: `{"b":1}`,
		},
		{
			name:   "array index",
			json:   `{"list":[10,20,30]}`,
			path:   "list.2",
			expect: "30",
		},
		{
			name:   "index past the end",
			json:   `{"list":[10,20,30]}`,
			path:   "list.3",
			expect: "",
		},
		{
			name:   "wildcard chars are literal",
			json:   `{"a*":"star","ab":"plain"}`,
			path:   "a*",
			expect: "star",
		},
		{
			name:   "hash is literal",
			json:   `{"list":[1,2],"#":"hash"}`,
			path:   "#",
			expect: "hash",
		},
		{
			name:   "boolean",
			json:   `{"ok":true}`,
			path:   "ok",
			expect: "true",
		},
		{
			name:   "missing",
			json:   `{"a":1}`,
			path:   "b",
			expect: "",
		},
		{
			name:   "empty path",
			json:   `{"a":1}`,
			path:   "",
			expect: "",
		},
		{
			name:   "malformed json",
			json:   `{"a":`,
			path:   "a",
			expect: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := GetProperty(tc.json, tc.path)

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_readLines(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		expect  []string
	}{
		{
			name:    "unix endings",
			content: "a\nb\n",
			expect:  []string{"a", "b"},
		},
		{
			name:    "windows endings",
			content: "a\r\nb\r\n",
			expect:  []string{"a", "b"},
		},
		{
			name:    "old mac endings",
			content: "a\rb",
			expect:  []string{"a", "b"},
		},
		{
			name:    "blank lines kept",
			content: "a\n\nb",
			expect:  []string{"a", "", "b"},
		},
		{
			name:    "byte order mark stripped",
			content: "\uFEFFa\nb",
			expect:  []string{"a", "b"},
		},
		{
			name:    "empty file",
			content: "",
			expect:  nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			path := writeTempFile(t, "f.txt", tc.content)

			actual, err := readLines(path)

			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}
