package mapdata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const formatName = "MCD"

type topLevelManifest struct {
	Format string   `toml:"format"`
	Type   string   `toml:"type"`
	Files  []string `toml:"files"`
}

// topLevelCatalogData is the top-level structure containing all keys in a
// complete MCD 'DATA' type file.
type topLevelCatalogData struct {
	Format string      `toml:"format"`
	Type   string      `toml:"type"`
	Maps   []regionMap `toml:"map"`
}

type regionMap struct {
	ID            int         `toml:"id"`
	Name          string      `toml:"name"`
	MapRect       [][]float64 `toml:"map_rect"`
	ContinentRect [][]float64 `toml:"continent_rect"`
	Pois          []poi       `toml:"poi"`
}

type poi struct {
	ID       int       `toml:"id"`
	Name     string    `toml:"name"`
	Type     string    `toml:"type"`
	Coord    []float64 `toml:"coord"`
	ChatLink string    `toml:"chat_link"`
}

// recursiveUnmarshalResource reads the file at path and, if it is a manifest,
// every file it refers to. manifStack holds the manifests currently being
// read.
func recursiveUnmarshalResource(path string, manifStack []string) (data topLevelCatalogData, err error) {
	path = filepath.Clean(path)

	fileData, loadErr := os.ReadFile(path)
	if loadErr != nil {
		return topLevelCatalogData{}, fmt.Errorf("%q: reading from disk: %w", path, loadErr)
	}

	fileInfo, err := ScanFileInfo(fileData)
	if err != nil {
		return topLevelCatalogData{}, fmt.Errorf("%q: detecting file type: %w", path, err)
	}

	if strings.ToUpper(fileInfo.Format) != formatName {
		return topLevelCatalogData{}, fmt.Errorf("%q: file does not have a 'format = \"%s\"' entry", path, formatName)
	}

	fileType := strings.ToUpper(fileInfo.Type)
	switch fileType {
	case "DATA":
		unmarshaled, err := unmarshalCatalogData(fileData)
		if err != nil {
			return unmarshaled, fmt.Errorf("catalog data file %q: %w", path, err)
		}
		return unmarshaled, nil
	case "MANIFEST":
		if len(manifStack) >= MaxManifestRecursionDepth {
			return topLevelCatalogData{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestStackOverflow)
		}
		for i := range manifStack {
			if manifStack[i] == path {
				return topLevelCatalogData{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestCircularRef)
			}
		}

		manif, err := unmarshalManifest(fileData)
		if err != nil {
			return topLevelCatalogData{}, fmt.Errorf("manifest file %q: %w", path, err)
		}

		// an empty manifest is only a problem for the very first one.
		if len(manif.Files) < 1 && len(manifStack) == 0 {
			return topLevelCatalogData{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestEmpty)
		}

		unmarshaled := topLevelCatalogData{}

		manifSubStack := make([]string, len(manifStack)+1)
		copy(manifSubStack, manifStack)
		manifSubStack[len(manifSubStack)-1] = path

		manifDir := filepath.Dir(path)

		processedFiles := 0

		for _, manifRelPath := range manif.Files {
			includedFilePath := filepath.Join(manifDir, manifRelPath)

			unmarshaledFileData, err := recursiveUnmarshalResource(includedFilePath, manifSubStack)
			if err != nil {
				// circular references are skipped, not fatal
				if errors.Is(err, ErrManifestCircularRef) {
					continue
				}

				return topLevelCatalogData{}, fmt.Errorf("in file referred to by manifest file:\n    %q\n%w", path, err)
			}

			unmarshaled.Maps = append(unmarshaled.Maps, unmarshaledFileData.Maps...)
			processedFiles++
		}

		if len(manifStack) == 0 && processedFiles == 0 {
			return unmarshaled, fmt.Errorf("manifest file %q: %w", path, ErrManifestEmpty)
		}
		return unmarshaled, nil

	default:
		return topLevelCatalogData{}, fmt.Errorf("%q: file does not have 'type = ' entry set to either \"DATA\" or \"MANIFEST\"", path)
	}
}

// unmarshalCatalogData unmarshals catalog data from the given bytes. It does
// not check the data.
func unmarshalCatalogData(tomlData []byte) (topLevelCatalogData, error) {
	var mcd topLevelCatalogData
	if tomlErr := toml.Unmarshal(tomlData, &mcd); tomlErr != nil {
		return mcd, tomlErr
	}

	if strings.ToUpper(mcd.Format) != formatName {
		return mcd, fmt.Errorf("in header: 'format' key must exist and be set to '%s'", formatName)
	}
	if strings.ToUpper(mcd.Type) != "DATA" {
		return mcd, fmt.Errorf("in header: 'type' must exist and be set to 'DATA'")
	}

	return mcd, nil
}

// unmarshalManifest unmarshals an MCD manifest from the given bytes.
func unmarshalManifest(tomlData []byte) (topLevelManifest, error) {
	var mcd topLevelManifest
	if tomlErr := toml.Unmarshal(tomlData, &mcd); tomlErr != nil {
		return mcd, tomlErr
	}

	if strings.ToUpper(mcd.Format) != formatName {
		return mcd, fmt.Errorf("in header: 'format' key must exist and be set to '%s'", formatName)
	}
	if strings.ToUpper(mcd.Type) != "MANIFEST" {
		return mcd, fmt.Errorf("in header: 'type' must exist and be set to 'MANIFEST'")
	}

	return mcd, nil
}
