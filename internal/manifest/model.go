// Package manifest defines the aggregate documents written at the end of
// a build and the functions that derive them from per-item summaries.
package manifest

import (
	"strings"

	"github.com/blackwell-systems/marketbuild/internal/catalog"
)

// SchemaVersion is the layout version of manifest.json.
const SchemaVersion = 2

// Output file names, relative to the output directory.
const (
	ManifestFile    = "manifest.json"
	LiteFile        = "manifest-lite.json"
	SearchIndexFile = "search-index.json"
	StatsFile       = "stats.json"
)

// Summary is the per-item record held for the duration of one build.
type Summary struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	DisplayName   string   `json:"display_name"`
	Type          string   `json:"type"`
	CanonicalPath string   `json:"canonical_path"`
	Slug          string   `json:"slug"`
	Description   string   `json:"description"`
	Author        string   `json:"author"`
	Language      string   `json:"language,omitempty"`
	IconURL       string   `json:"icon_url,omitempty"`
	Colour        string   `json:"colour,omitempty"`
	Blurhash      string   `json:"blurhash,omitempty"`
	IsDark        *bool    `json:"is_dark,omitempty"`
	IsLight       *bool    `json:"is_light,omitempty"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
	ItemCount     int      `json:"item_count"`
	Keywords      []string `json:"keywords,omitempty"`
	CategoryTags  []string `json:"category_tags,omitempty"`
	Collections   []string `json:"collections,omitempty"`

	Category   catalog.Category `json:"-"`
	SearchText string           `json:"-"`
}

// CollectionSummary is the manifest record of a collection.
type CollectionSummary struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	DisplayName   string   `json:"display_name"`
	Type          string   `json:"type"`
	CanonicalPath string   `json:"canonical_path"`
	Slug          string   `json:"slug"`
	Description   string   `json:"description,omitempty"`
	IconURL       string   `json:"icon_url,omitempty"`
	Colour        string   `json:"colour,omitempty"`
	Blurhash      string   `json:"blurhash,omitempty"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
	Items         []string `json:"items"`
	ItemIDs       []string `json:"item_ids"`

	SearchText string `json:"-"`
}

// Catalog is everything the manifests are derived from.
type Catalog struct {
	Version     string
	BuildID     string
	GeneratedAt string
	RecentCount int

	// Items maps category -> file stem -> summary.
	Items       map[catalog.Category]map[string]*Summary
	Collections map[string]*CollectionSummary
	IDIndex     map[string]string
}

// NewCatalog returns a Catalog with every item category initialised.
func NewCatalog() *Catalog {
	c := &Catalog{
		Items:       make(map[catalog.Category]map[string]*Summary),
		Collections: make(map[string]*CollectionSummary),
		IDIndex:     make(map[string]string),
	}
	for _, cat := range catalog.ItemCategories {
		c.Items[cat] = make(map[string]*Summary)
	}
	return c
}

// Lookup resolves a "<category>/<stem>" reference to a built item.
// Collections are not items and never resolve.
func (c *Catalog) Lookup(ref string) (*Summary, bool) {
	cat, stem, found := strings.Cut(ref, "/")
	if !found || stem == "" || !catalog.IsItemCategory(catalog.Category(cat)) {
		return nil, false
	}
	s, found := c.Items[catalog.Category(cat)][stem]
	return s, found
}

// Manifest is manifest.json.
type Manifest struct {
	Version        string                       `json:"_version"`
	GeneratedAt    string                       `json:"_generated_at"`
	SchemaVersion  int                          `json:"_schema_version"`
	Collections    map[string]CollectionSummary `json:"collections"`
	Curators       map[string][]string          `json:"curators"`
	PhotoPacks     map[string]Summary           `json:"photo_packs"`
	QuotePacks     map[string]Summary           `json:"quote_packs"`
	PresetSettings map[string]Summary           `json:"preset_settings"`
	IDIndex        map[string]string            `json:"_id_index"`
}

// LiteEntry carries the fields needed for a fast first render.
type LiteEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
	Author      string `json:"author,omitempty"`
	IconURL     string `json:"icon_url,omitempty"`
	Colour      string `json:"colour,omitempty"`
	Blurhash    string `json:"blurhash,omitempty"`
}

// Lite is manifest-lite.json.
type Lite struct {
	Version     string      `json:"_version"`
	GeneratedAt string      `json:"_generated_at"`
	Items       []LiteEntry `json:"items"`
	Collections []LiteEntry `json:"collections"`
}

// SearchEntry is one document of the search index.
type SearchEntry struct {
	ID            string   `json:"id"`
	CanonicalPath string   `json:"canonical_path"`
	Type          string   `json:"type"`
	SearchText    string   `json:"search_text"`
	DisplayName   string   `json:"display_name"`
	Author        string   `json:"author"`
	Keywords      []string `json:"keywords,omitempty"`
	CategoryTags  []string `json:"category_tags,omitempty"`
}

// SearchIndex is search-index.json. Postings lists hold ids.
type SearchIndex struct {
	Items        []SearchEntry       `json:"items"`
	Authors      map[string][]string `json:"authors"`
	Keywords     map[string][]string `json:"keywords"`
	CategoryTags map[string][]string `json:"category_tags"`
}

// RecentItem is an entry of Stats.Recent.
type RecentItem struct {
	ID            string `json:"id"`
	CanonicalPath string `json:"canonical_path"`
	DisplayName   string `json:"display_name"`
	Type          string `json:"type"`
	Author        string `json:"author"`
	CreatedAt     string `json:"created_at"`
}

// Stats is stats.json.
type Stats struct {
	GeneratedAt string         `json:"generated_at"`
	BuildID     string         `json:"build_id,omitempty"`
	Counts      map[string]int `json:"counts"`
	TotalItems  int            `json:"total_items"`
	Collections int            `json:"collections"`
	Curators    int            `json:"curators"`
	Recent      []RecentItem   `json:"recent"`
}
