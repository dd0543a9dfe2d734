package manifest

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/blackwell-systems/marketbuild/internal/catalog"
	"github.com/blackwell-systems/marketbuild/internal/util"
	"github.com/spf13/afero"
)

// WriteAll writes the four manifests into dir.
func WriteAll(fs afero.Fs, dir string, c *Catalog) error {
	docs := []struct {
		name string
		doc  any
	}{
		{ManifestFile, BuildManifest(c)},
		{LiteFile, BuildLite(c)},
		{SearchIndexFile, BuildSearchIndex(c)},
		{StatsFile, BuildStats(c)},
	}
	for _, d := range docs {
		data, err := catalog.MarshalJSON(d.doc)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", d.name, err)
		}
		if err := util.WriteFileAtomic(fs, filepath.Join(dir, d.name), data); err != nil {
			return fmt.Errorf("writing %s: %w", d.name, err)
		}
	}
	return nil
}

func readJSON(fs afero.Fs, path string, v any) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// ReadStats loads stats.json from an output directory.
func ReadStats(fs afero.Fs, dir string) (*Stats, error) {
	var st Stats
	if err := readJSON(fs, filepath.Join(dir, StatsFile), &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// ReadSearchIndex loads search-index.json from an output directory.
func ReadSearchIndex(fs afero.Fs, dir string) (*SearchIndex, error) {
	var idx SearchIndex
	if err := readJSON(fs, filepath.Join(dir, SearchIndexFile), &idx); err != nil {
		return nil, err
	}
	return &idx, nil
}

// ReadManifest loads manifest.json from an output directory.
func ReadManifest(fs afero.Fs, dir string) (*Manifest, error) {
	var m Manifest
	if err := readJSON(fs, filepath.Join(dir, ManifestFile), &m); err != nil {
		return nil, err
	}
	return &m, nil
}
