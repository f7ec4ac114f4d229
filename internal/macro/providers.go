package macro

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/dekarrin/chatmacro/internal/util"
	"github.com/tidwall/gjson"
)

// file contains the implementations of the built-in commands.

func (r *Resolver) initProviders() {
	r.fn = map[string]Provider{}

	r.fn["blish"] = Provider{Keyword: "blish", Usage: "{blish}", Call: r.hostLabel}
	r.fn["time"] = Provider{Keyword: "time", Usage: "{time}", Call: r.shortTime}
	r.fn["today"] = Provider{Keyword: "today", Usage: "{today}", Call: r.longDate}
	r.fn["wp"] = Provider{Keyword: "wp", Usage: "{wp}", Call: r.closestWaypoint}
	r.fn["poi"] = Provider{Keyword: "poi", Usage: "{poi}", Call: r.closestPoi}
	r.fn["map"] = Provider{Keyword: "map", Usage: "{map}", Call: r.currentMap}
	r.fn["random"] = Provider{Keyword: "random", Usage: "{random [[MIN] MAX]}", Call: r.random}
	r.fn["json"] = Provider{Keyword: "json", Usage: "{json PATH URL}", Call: r.jsonValue}
	r.fn["txt"] = Provider{Keyword: "txt", Usage: "{txt FILE [LINE]}", Call: r.textLine}
}

func (r *Resolver) hostLabel(_ context.Context, _ []string) (Result, error) {
	ver, _, _ := strings.Cut(r.hostVer, "+")
	if ver == "" {
		return Unavailable, nil
	}
	return Resolved(r.hostName + " v" + ver), nil
}

func (r *Resolver) shortTime(_ context.Context, _ []string) (Result, error) {
	return Resolved(r.culture.ShortTime(r.clock.Now())), nil
}

func (r *Resolver) longDate(_ context.Context, _ []string) (Result, error) {
	return Resolved(r.culture.LongDate(r.clock.Now())), nil
}

func (r *Resolver) closestWaypoint(_ context.Context, _ []string) (Result, error) {
	if r.loc == nil {
		return Unavailable, nil
	}
	wp := r.loc.ClosestWaypoint()
	if wp == nil {
		return Unavailable, nil
	}
	return Resolved(wp.ChatLink), nil
}

func (r *Resolver) closestPoi(_ context.Context, _ []string) (Result, error) {
	if r.loc == nil {
		return Unavailable, nil
	}
	poi := r.loc.ClosestPoi()
	if poi == nil {
		return Unavailable, nil
	}
	return Resolved(poi.ChatLink), nil
}

func (r *Resolver) currentMap(_ context.Context, _ []string) (Result, error) {
	if r.loc == nil {
		return Unavailable, nil
	}
	m := r.loc.CurrentMap()
	if m == nil {
		return Unavailable, nil
	}
	return Resolved(m.Name), nil
}

// random gives a number in the full 32-bit range with no args, in [0, MAX]
// with one, and in [MIN, MAX] with two. Any more args are ignored and give
// [0, MaxInt32]. Args that are not numbers count as 0.
func (r *Resolver) random(_ context.Context, args []string) (Result, error) {
	lo := int64(math.MinInt32)
	hi := int64(math.MaxInt32)

	switch len(args) {
	case 0:
	case 1:
		lo = 0
		hi = parseInt32OrZero(args[0])
	case 2:
		lo = parseInt32OrZero(args[0])
		hi = parseInt32OrZero(args[1])
	default:
		lo = 0
	}

	return Resolved(strconv.FormatInt(r.randomBetween(lo, hi), 10)), nil
}

func (r *Resolver) jsonValue(ctx context.Context, args []string) (Result, error) {
	if len(args) < 2 {
		return Unavailable, nil
	}

	path := args[0]
	url := args[1]

	if !util.IsWebLink(url) {
		return Unavailable, nil
	}

	body, err := r.fetcher.GetString(ctx, url)
	if err != nil {
		r.log.Debug().Err(err).Str("url", url).Msg("json request failed")
		return Unavailable, nil
	}

	val := GetProperty(body, path)
	if val == "" {
		return Unavailable, nil
	}
	return Resolved(val), nil
}

// textLine picks a line from a local text file. With only a file, the line is
// random. With a line index, that line is used if it comes before the last
// line of the file, and a random one is used otherwise.
func (r *Resolver) textLine(_ context.Context, args []string) (Result, error) {
	if len(args) == 0 {
		return Unavailable, nil
	}

	path := strings.ReplaceAll(args[0], "%20", " ")

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Unavailable, nil
		}
		return Unavailable, fmt.Errorf("stat %q: %w", path, err)
	}
	if info.IsDir() {
		return Unavailable, nil
	}

	lines, err := readLines(path)
	if err != nil {
		return Unavailable, fmt.Errorf("read %q: %w", path, err)
	}
	if len(lines) == 0 {
		return Unavailable, nil
	}

	line := int(r.randomBetween(0, int64(len(lines)-1)))

	if len(args) == 2 {
		idx, err := strconv.ParseInt(args[1], 10, 32)
		if err != nil {
			// an index that does not parse selects the first line
			line = 0
		} else if int(idx) < len(lines)-1 {
			line = int(idx)
		} else {
			line = int(r.randomBetween(0, int64(len(lines)-1)))
		}
	}

	if line < 0 {
		return Unavailable, fmt.Errorf("line index %d is out of range for %q", line, path)
	}

	return Resolved(lines[line]), nil
}

// randomBetween returns a uniformly distributed value in [lo, hi]. If lo is
// greater than hi the bounds are swapped.
func (r *Resolver) randomBetween(lo, hi int64) int64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo + r.rand.Int64N(hi-lo+1)
}

// GetProperty returns the value found at the dot-delimited property path in
// the given JSON text. Objects and arrays are returned as their JSON text. If
// the JSON is malformed or nothing is at the path, the empty string is
// returned.
//
// Every segment of the path is a literal property name or array index; empty
// segments are ignored.
func GetProperty(jsonText string, dotPath string) string {
	if !gjson.Valid(jsonText) {
		return ""
	}

	segments := util.SplitOn(dotPath, ".")
	if len(segments) == 0 {
		return ""
	}

	for i := range segments {
		segments[i] = escapePathSegment(segments[i])
	}

	res := gjson.Get(jsonText, strings.Join(segments, "."))
	if !res.Exists() {
		return ""
	}
	return res.String()
}

// escapePathSegment escapes every char gjson would otherwise read as path
// syntax.
func escapePathSegment(seg string) string {
	const special = `\.*?|#@!`

	if !strings.ContainsAny(seg, special) {
		return seg
	}

	var sb strings.Builder
	for _, ch := range seg {
		if strings.ContainsRune(special, ch) {
			sb.WriteRune('\\')
		}
		sb.WriteRune(ch)
	}
	return sb.String()
}

func parseInt32OrZero(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0
	}
	return n
}

// readLines reads every line of the file at path. Lines may end in "\n",
// "\r\n", or "\r"; a final line terminator does not start another line.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	sc.Split(scanAnyLineEnding)

	for sc.Scan() {
		line := sc.Text()
		if len(lines) == 0 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

func scanAnyLineEnding(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}

		// got a '\r'; need the next byte to know if it is "\r\n"
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if !atEOF {
			return 0, nil, nil
		}
		return i + 1, data[:i], nil
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

type globalRand struct{}

func (globalRand) Int64N(n int64) int64 {
	return rand.Int64N(n)
}
