// Package mapdata loads the map catalog from MCD (Macro Catalog Data) files, a
// TOML-based format that lists the maps of the game world and their points of
// interest.
//
// An MCD file starts with a header giving its format and type:
//
//	format = "MCD"
//	type = "DATA"
//
// A DATA file holds [[map]] tables, each with any number of [[map.poi]]
// tables. A MANIFEST file instead holds a 'files' list of other MCD files,
// relative to itself, whose contents are combined.
package mapdata

import (
	"context"
	"errors"
	"fmt"
	"os"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/chatmacro/internal/catalog"
)

const MaxManifestRecursionDepth = 32

var (
	// ErrManifestEmpty is the error returned when a manifest file is read
	// successfully but lists no files to include.
	ErrManifestEmpty = errors.New("does not list any valid files to include")

	// ErrManifestStackOverflow is the error returned when manifests include
	// other manifests more than MaxManifestRecursionDepth levels deep.
	ErrManifestStackOverflow = errors.New("too many manifests deep")

	// ErrManifestCircularRef is the error returned when a chain of manifests
	// refers back to a manifest already being read.
	ErrManifestCircularRef = errors.New("manifest inclusion chain refers back to itself")
)

// FileInfo contains the header info every MCD file must have.
type FileInfo struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`
}

// Region is a single map along with all of its points of interest, in the
// order they were listed.
type Region struct {
	Map  catalog.Map
	Pois []catalog.PointOfInterest
}

// CatalogData is the fully parsed and checked contents of one or more MCD
// files.
type CatalogData struct {
	// Regions holds every map, in the order they were read.
	Regions []Region
}

// LoadBundle loads catalog data from the MCD file at path. If it is a
// MANIFEST file, every file it lists is loaded as well and the results are
// combined before being checked.
func LoadBundle(path string) (CatalogData, error) {
	unmarshaled, err := recursiveUnmarshalResource(path, nil)
	if err != nil {
		return CatalogData{}, err
	}

	return parseCatalogData(unmarshaled)
}

// LoadDataFile loads catalog data from a single MCD DATA file.
func LoadDataFile(path string) (CatalogData, error) {
	fileData, err := os.ReadFile(path)
	if err != nil {
		return CatalogData{}, err
	}

	unmarshaled, err := unmarshalCatalogData(fileData)
	if err != nil {
		return CatalogData{}, err
	}

	return parseCatalogData(unmarshaled)
}

// Import writes all of data into st. Maps that already exist in st are
// replaced along with their points of interest. It returns the number of maps
// and points of interest written.
func Import(ctx context.Context, st catalog.Store, data CatalogData) (maps int, pois int, err error) {
	for _, reg := range data.Regions {
		_, err := st.Maps().GetByID(ctx, reg.Map.ID)
		if err == nil {
			if err := st.PointsOfInterest().DeleteAllByMap(ctx, reg.Map.ID); err != nil {
				return maps, pois, fmt.Errorf("map %d: clear points of interest: %w", reg.Map.ID, err)
			}
			if _, err := st.Maps().Delete(ctx, reg.Map.ID); err != nil {
				return maps, pois, fmt.Errorf("map %d: remove old entry: %w", reg.Map.ID, err)
			}
		} else if !errors.Is(err, catalog.ErrNotFound) {
			return maps, pois, fmt.Errorf("map %d: %w", reg.Map.ID, err)
		}

		if _, err := st.Maps().Create(ctx, reg.Map); err != nil {
			return maps, pois, fmt.Errorf("map %d: %w", reg.Map.ID, err)
		}
		maps++

		for _, p := range reg.Pois {
			if _, err := st.PointsOfInterest().Create(ctx, p); err != nil {
				return maps, pois, fmt.Errorf("map %d: poi %d: %w", reg.Map.ID, p.ID, err)
			}
			pois++
		}
	}

	return maps, pois, nil
}

// ScanFileInfo reads the MCD header from data. Only the part of data before
// the first table header is parsed.
func ScanFileInfo(data []byte) (FileInfo, error) {
	// only run the toml parser up to the end of the top-level table
	var topLevelEnd int = -1
	var onNewLine = true
	for b := range data {
		if onNewLine {
			if data[b] == '[' {
				topLevelEnd = b
				break
			}
		}

		if data[b] == '\n' {
			onNewLine = true
		} else if !unicode.IsSpace(rune(data[b])) {
			onNewLine = false
		}
	}

	scanData := data
	if topLevelEnd != -1 {
		scanData = data[:topLevelEnd]
	}

	var info FileInfo
	err := toml.Unmarshal(scanData, &info)
	return info, err
}
