package macro

import (
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dekarrin/chatmacro/internal/catalog"
)

type fakeLocation struct {
	m   *catalog.Map
	wp  *catalog.PointOfInterest
	poi *catalog.PointOfInterest
}

func (fl fakeLocation) CurrentMap() *catalog.Map                  { return fl.m }
func (fl fakeLocation) ClosestWaypoint() *catalog.PointOfInterest { return fl.wp }
func (fl fakeLocation) ClosestPoi() *catalog.PointOfInterest      { return fl.poi }

type fakeFetcher struct {
	body  string
	err   error
	calls int
}

func (ff *fakeFetcher) GetString(ctx context.Context, url string) (string, error) {
	ff.calls++
	return ff.body, ff.err
}

type fixedClock time.Time

func (fc fixedClock) Now() time.Time {
	return time.Time(fc)
}

type panickingFetcher struct{}

func (panickingFetcher) GetString(ctx context.Context, url string) (string, error) {
	panic("fetcher exploded")
}

var errFetch = errors.New("connection refused")

func seededRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func lionsArch() fakeLocation {
	return fakeLocation{
		m:   &catalog.Map{ID: 50, Name: "Lion's Arch"},
		wp:  &catalog.PointOfInterest{ID: 1, MapID: 50, Name: "Trader's Forum Waypoint", Type: catalog.PoiWaypoint, ChatLink: "[&BDAEAAA=]"},
		poi: &catalog.PointOfInterest{ID: 2, MapID: 50, Name: "Grand Piazza", Type: catalog.PoiLandmark, ChatLink: "[&BDIEAAA=]"},
	}
}

// writeTempFile writes content to a new file in a temp dir and returns its
// path.
func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
