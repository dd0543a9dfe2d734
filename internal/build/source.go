package build

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"

	"github.com/blackwell-systems/marketbuild/internal/catalog"
	"github.com/blackwell-systems/marketbuild/internal/history"
	"github.com/blackwell-systems/marketbuild/internal/icon"
	"github.com/blackwell-systems/marketbuild/internal/registry"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// record is one source file moving through the pipeline. Exactly one of
// item and collection is set.
type record struct {
	category  catalog.Category
	stem      string
	source    string
	canonical string
	id        string
	raw       []byte

	item       *catalog.Item
	collection *catalog.Collection

	times       history.Timestamps
	icon        icon.Result
	hasIcon     bool
	photoHashes map[string]string
}

func (r *record) iconURL() string {
	if r.item != nil {
		return r.item.IconURL
	}
	return r.collection.IconURL
}

// subFS roots fs at dir. BasePathFs cannot be rooted at ".".
func subFS(fs afero.Fs, dir string) afero.Fs {
	if clean := filepath.Clean(dir); clean == "." || clean == "" {
		return fs
	}
	return afero.NewBasePathFs(fs, dir)
}

// enumerate lists the *.json files of sub under dir, sorted.
func enumerate(fs afero.Fs, dir, sub string) ([]string, error) {
	pattern := "*.json"
	if sub != "" {
		pattern = path.Join(sub, pattern)
	}
	matches, err := doublestar.Glob(afero.NewIOFS(subFS(fs, dir)), pattern)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", filepath.Join(dir, sub), err)
	}
	files := make([]string, 0, len(matches))
	for _, m := range matches {
		files = append(files, filepath.Join(dir, filepath.FromSlash(m)))
	}
	sort.Strings(files)
	return files, nil
}

// source is the result of the sequential load phase.
type source struct {
	items       []*record
	collections []*record
	drafts      int
}

// load reads, filters, validates and identifies every source file in
// order, registering each id. It stops at the first integrity failure.
func (b *Builder) load(reg *registry.Registry) (*source, error) {
	src := &source{}
	for _, cat := range catalog.ItemCategories {
		files, err := enumerate(b.fs, b.opts.ItemsDir, string(cat))
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			rec, err := b.loadItem(reg, cat, file)
			if err != nil {
				return nil, err
			}
			if rec == nil {
				src.drafts++
				continue
			}
			src.items = append(src.items, rec)
		}
	}

	files, err := enumerate(b.fs, b.opts.CollectionsDir, "")
	if err != nil {
		return nil, err
	}
	built := make(map[string]bool, len(src.items))
	for _, rec := range src.items {
		built[rec.canonical] = true
	}
	for _, file := range files {
		rec, err := b.loadCollection(reg, file, built)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			src.drafts++
			continue
		}
		src.collections = append(src.collections, rec)
	}
	return src, nil
}

func (b *Builder) loadItem(reg *registry.Registry, cat catalog.Category, file string) (*record, error) {
	raw, err := afero.ReadFile(b.fs, file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}
	stem := catalog.Stem(file)
	canonical := catalog.CanonicalPath(cat, stem)
	if catalog.IsDraft(raw) {
		b.logger.Debug("skipping draft", "canonical_path", canonical)
		return nil, nil
	}
	if err := catalog.Validate(raw, cat, canonical); err != nil {
		return nil, err
	}
	item, err := catalog.Decode(raw, cat)
	if err != nil {
		return nil, &catalog.ValidationError{CanonicalPath: canonical, Message: err.Error()}
	}
	id := catalog.StableHash(canonical, item.Author, b.opts.HashLength)
	if err := reg.Register(id, canonical); err != nil {
		return nil, err
	}
	return &record{
		category:  cat,
		stem:      stem,
		source:    file,
		canonical: canonical,
		id:        id,
		raw:       raw,
		item:      item,
	}, nil
}

func (b *Builder) loadCollection(reg *registry.Registry, file string, built map[string]bool) (*record, error) {
	raw, err := afero.ReadFile(b.fs, file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}
	stem := catalog.Stem(file)
	canonical := catalog.CanonicalPath(catalog.Collections, stem)
	if catalog.IsDraft(raw) {
		b.logger.Debug("skipping draft", "canonical_path", canonical)
		return nil, nil
	}
	if err := catalog.Validate(raw, catalog.Collections, canonical); err != nil {
		return nil, err
	}
	col, err := catalog.DecodeCollection(raw)
	if err != nil {
		return nil, &catalog.ValidationError{CanonicalPath: canonical, Message: err.Error()}
	}
	id := catalog.StableHash(canonical, catalog.CollectionAuthor, b.opts.HashLength)
	if err := reg.Register(id, canonical); err != nil {
		return nil, err
	}
	for _, ref := range col.Items {
		if !built[ref] {
			return nil, &DanglingReferenceError{Collection: canonical, Reference: ref}
		}
	}
	return &record{
		category:   catalog.Collections,
		stem:       stem,
		source:     file,
		canonical:  canonical,
		id:         id,
		raw:        raw,
		collection: col,
	}, nil
}
