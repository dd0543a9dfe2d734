package manifest

import (
	"sort"

	"github.com/blackwell-systems/marketbuild/internal/catalog"
)

// DefaultRecentCount is the size of Stats.Recent.
const DefaultRecentCount = 10

// sortedItems returns every item summary ordered by canonical path.
func (c *Catalog) sortedItems() []*Summary {
	var out []*Summary
	for _, items := range c.Items {
		for _, s := range items {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CanonicalPath < out[j].CanonicalPath })
	return out
}

func (c *Catalog) sortedCollections() []*CollectionSummary {
	out := make([]*CollectionSummary, 0, len(c.Collections))
	for _, s := range c.Collections {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CanonicalPath < out[j].CanonicalPath })
	return out
}

func copyCategory(items map[string]*Summary) map[string]Summary {
	out := make(map[string]Summary, len(items))
	for k, s := range items {
		out[k] = *s
	}
	return out
}

// Curators maps each author to the sorted canonical paths they
// contributed. Collections are not attributed to a curator.
func (c *Catalog) Curators() map[string][]string {
	out := make(map[string][]string)
	for _, s := range c.sortedItems() {
		out[s.Author] = append(out[s.Author], s.CanonicalPath)
	}
	return out
}

// BuildManifest derives manifest.json.
func BuildManifest(c *Catalog) Manifest {
	cols := make(map[string]CollectionSummary, len(c.Collections))
	for k, s := range c.Collections {
		cols[k] = *s
	}
	idx := make(map[string]string, len(c.IDIndex))
	for h, p := range c.IDIndex {
		idx[h] = p
	}
	return Manifest{
		Version:        c.Version,
		GeneratedAt:    c.GeneratedAt,
		SchemaVersion:  SchemaVersion,
		Collections:    cols,
		Curators:       c.Curators(),
		PhotoPacks:     copyCategory(c.Items[catalog.PhotoPacks]),
		QuotePacks:     copyCategory(c.Items[catalog.QuotePacks]),
		PresetSettings: copyCategory(c.Items[catalog.PresetSettings]),
		IDIndex:        idx,
	}
}

// BuildLite derives manifest-lite.json.
func BuildLite(c *Catalog) Lite {
	lite := Lite{
		Version:     c.Version,
		GeneratedAt: c.GeneratedAt,
		Items:       []LiteEntry{},
		Collections: []LiteEntry{},
	}
	for _, s := range c.sortedItems() {
		lite.Items = append(lite.Items, LiteEntry{
			ID:          s.ID,
			Name:        s.Name,
			DisplayName: s.DisplayName,
			Type:        s.Type,
			Author:      s.Author,
			IconURL:     s.IconURL,
			Colour:      s.Colour,
			Blurhash:    s.Blurhash,
		})
	}
	for _, s := range c.sortedCollections() {
		lite.Collections = append(lite.Collections, LiteEntry{
			ID:          s.ID,
			Name:        s.Name,
			DisplayName: s.DisplayName,
			Type:        s.Type,
			IconURL:     s.IconURL,
			Colour:      s.Colour,
			Blurhash:    s.Blurhash,
		})
	}
	return lite
}

// BuildSearchIndex derives search-index.json. Collections are searchable
// documents but do not appear in author postings.
func BuildSearchIndex(c *Catalog) SearchIndex {
	idx := SearchIndex{
		Items:        []SearchEntry{},
		Authors:      make(map[string][]string),
		Keywords:     make(map[string][]string),
		CategoryTags: make(map[string][]string),
	}
	for _, s := range c.sortedItems() {
		idx.Items = append(idx.Items, SearchEntry{
			ID:            s.ID,
			CanonicalPath: s.CanonicalPath,
			Type:          s.Type,
			SearchText:    s.SearchText,
			DisplayName:   s.DisplayName,
			Author:        s.Author,
			Keywords:      s.Keywords,
			CategoryTags:  s.CategoryTags,
		})
		idx.Authors[s.Author] = append(idx.Authors[s.Author], s.ID)
		for _, k := range s.Keywords {
			idx.Keywords[k] = append(idx.Keywords[k], s.ID)
		}
		for _, tag := range s.CategoryTags {
			idx.CategoryTags[tag] = append(idx.CategoryTags[tag], s.ID)
		}
	}
	for _, s := range c.sortedCollections() {
		idx.Items = append(idx.Items, SearchEntry{
			ID:            s.ID,
			CanonicalPath: s.CanonicalPath,
			Type:          s.Type,
			SearchText:    s.SearchText,
			DisplayName:   s.DisplayName,
			Author:        catalog.CollectionAuthor,
		})
	}
	return idx
}

// BuildStats derives stats.json. Recent lists items by creation time,
// newest first, ties broken by canonical path.
func BuildStats(c *Catalog) Stats {
	st := Stats{
		GeneratedAt: c.GeneratedAt,
		BuildID:     c.BuildID,
		Counts:      make(map[string]int),
		Collections: len(c.Collections),
		Recent:      []RecentItem{},
	}
	items := c.sortedItems()
	for _, cat := range catalog.ItemCategories {
		st.Counts[string(cat)] = len(c.Items[cat])
		st.TotalItems += len(c.Items[cat])
	}
	st.Curators = len(c.Curators())

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt > items[j].CreatedAt
	})
	n := c.RecentCount
	if n <= 0 {
		n = DefaultRecentCount
	}
	if len(items) < n {
		n = len(items)
	}
	for _, s := range items[:n] {
		st.Recent = append(st.Recent, RecentItem{
			ID:            s.ID,
			CanonicalPath: s.CanonicalPath,
			DisplayName:   s.DisplayName,
			Type:          s.Type,
			Author:        s.Author,
			CreatedAt:     s.CreatedAt,
		})
	}
	return st
}
