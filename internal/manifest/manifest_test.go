package manifest_test

import (
	"testing"

	"github.com/blackwell-systems/marketbuild/internal/catalog"
	"github.com/blackwell-systems/marketbuild/internal/manifest"
	"github.com/spf13/afero"
)

func sample() *manifest.Catalog {
	c := manifest.NewCatalog()
	c.Version = "1.2.3"
	c.BuildID = "build-1"
	c.GeneratedAt = "2025-06-01T00:00:00Z"
	c.RecentCount = 2

	add := func(cat catalog.Category, stem, author, created string, keywords ...string) {
		path := catalog.CanonicalPath(cat, stem)
		id := catalog.StableHash(path, author, catalog.DefaultHashLength)
		c.Items[cat][stem] = &manifest.Summary{
			ID:            id,
			Name:          stem,
			DisplayName:   stem + " pack",
			Type:          cat.Type(),
			CanonicalPath: path,
			Author:        author,
			CreatedAt:     created,
			UpdatedAt:     created,
			Keywords:      keywords,
			Category:      cat,
			SearchText:    stem,
		}
		c.IDIndex[id] = path
	}
	add(catalog.PhotoPacks, "nature", "alice", "2025-01-01T00:00:00Z", "trees", "green")
	add(catalog.PhotoPacks, "city", "bob", "2025-03-01T00:00:00Z", "urban")
	add(catalog.QuotePacks, "stoic", "alice", "2025-03-01T00:00:00Z", "trees")
	add(catalog.PresetSettings, "calm", "carol", "2024-12-01T00:00:00Z")

	c.Collections["favourites"] = &manifest.CollectionSummary{
		ID:            catalog.StableHash("collections/favourites", catalog.CollectionAuthor, catalog.DefaultHashLength),
		Name:          "favourites",
		DisplayName:   "Favourites",
		Type:          "collection",
		CanonicalPath: "collections/favourites",
		Items:         []string{"photo_packs/nature"},
	}
	return c
}

// --- Catalog ---

func TestLookup(t *testing.T) {
	c := sample()
	s, ok := c.Lookup("photo_packs/nature")
	if !ok || s.Name != "nature" {
		t.Fatalf("Lookup(photo_packs/nature) = %v, %v", s, ok)
	}
	if _, ok := c.Lookup("photo_packs/missing"); ok {
		t.Error("Lookup of missing stem should fail")
	}
	if _, ok := c.Lookup("nature"); ok {
		t.Error("Lookup without category should fail")
	}
	if _, ok := c.Lookup("collections/favourites"); ok {
		t.Error("Lookup of a collection should fail")
	}
	if _, ok := c.Lookup("photo_packs/"); ok {
		t.Error("Lookup with empty stem should fail")
	}
}

func TestCurators_SortedPaths(t *testing.T) {
	got := sample().Curators()
	alice := got["alice"]
	if len(alice) != 2 || alice[0] != "photo_packs/nature" || alice[1] != "quote_packs/stoic" {
		t.Errorf("curators[alice] = %v", alice)
	}
	if _, ok := got[catalog.CollectionAuthor]; ok {
		t.Error("collections should not be attributed to a curator")
	}
}

// --- Documents ---

func TestBuildManifest(t *testing.T) {
	m := manifest.BuildManifest(sample())
	if m.SchemaVersion != manifest.SchemaVersion {
		t.Errorf("schema = %d", m.SchemaVersion)
	}
	if m.Version != "1.2.3" {
		t.Errorf("version = %q", m.Version)
	}
	if len(m.PhotoPacks) != 2 || len(m.QuotePacks) != 1 || len(m.PresetSettings) != 1 {
		t.Errorf("category sizes = %d/%d/%d", len(m.PhotoPacks), len(m.QuotePacks), len(m.PresetSettings))
	}
	if len(m.IDIndex) != 4 {
		t.Errorf("id index size = %d, want 4", len(m.IDIndex))
	}
	if _, ok := m.Collections["favourites"]; !ok {
		t.Error("collection missing from manifest")
	}
}

func TestBuildLite_SortedByPath(t *testing.T) {
	lite := manifest.BuildLite(sample())
	want := []string{"city", "nature", "calm", "stoic"}
	if len(lite.Items) != len(want) {
		t.Fatalf("items = %d, want %d", len(lite.Items), len(want))
	}
	for i, name := range want {
		if lite.Items[i].Name != name {
			t.Errorf("items[%d] = %q, want %q", i, lite.Items[i].Name, name)
		}
	}
	if len(lite.Collections) != 1 {
		t.Errorf("collections = %d", len(lite.Collections))
	}
}

func TestBuildSearchIndex_Postings(t *testing.T) {
	c := sample()
	idx := manifest.BuildSearchIndex(c)
	if len(idx.Items) != 5 {
		t.Errorf("items = %d, want 5 (4 items + 1 collection)", len(idx.Items))
	}
	if got := idx.Keywords["trees"]; len(got) != 2 {
		t.Errorf("keywords[trees] = %v", got)
	}
	if got := idx.Authors["alice"]; len(got) != 2 {
		t.Errorf("authors[alice] = %v", got)
	}
	if _, ok := idx.Authors[catalog.CollectionAuthor]; ok {
		t.Error("collection author should not get a posting")
	}
}

func TestBuildStats_RecentOrder(t *testing.T) {
	st := manifest.BuildStats(sample())
	if st.TotalItems != 4 || st.Collections != 1 || st.Curators != 3 {
		t.Errorf("totals = %d/%d/%d", st.TotalItems, st.Collections, st.Curators)
	}
	if st.Counts["photo_packs"] != 2 {
		t.Errorf("counts[photo_packs] = %d", st.Counts["photo_packs"])
	}
	if len(st.Recent) != 2 {
		t.Fatalf("recent = %d, want 2", len(st.Recent))
	}
	// city and stoic share a timestamp; path order breaks the tie.
	if st.Recent[0].CanonicalPath != "photo_packs/city" || st.Recent[1].CanonicalPath != "quote_packs/stoic" {
		t.Errorf("recent = %s, %s", st.Recent[0].CanonicalPath, st.Recent[1].CanonicalPath)
	}
}

func TestBuildStats_RecentDefault(t *testing.T) {
	c := sample()
	c.RecentCount = 0
	st := manifest.BuildStats(c)
	if len(st.Recent) != 4 {
		t.Errorf("recent = %d, want all 4 items", len(st.Recent))
	}
}

// --- Writing ---

func TestWriteAllAndRead(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := manifest.WriteAll(fs, "/out", sample()); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	for _, name := range []string{manifest.ManifestFile, manifest.LiteFile, manifest.SearchIndexFile, manifest.StatsFile} {
		if ok, _ := afero.Exists(fs, "/out/"+name); !ok {
			t.Errorf("%s not written", name)
		}
	}

	m, err := manifest.ReadManifest(fs, "/out")
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if len(m.PhotoPacks) != 2 {
		t.Errorf("photo packs = %d", len(m.PhotoPacks))
	}
	st, err := manifest.ReadStats(fs, "/out")
	if err != nil {
		t.Fatalf("ReadStats: %v", err)
	}
	if st.BuildID != "build-1" {
		t.Errorf("build id = %q", st.BuildID)
	}
	idx, err := manifest.ReadSearchIndex(fs, "/out")
	if err != nil {
		t.Fatalf("ReadSearchIndex: %v", err)
	}
	if len(idx.Keywords["urban"]) != 1 {
		t.Errorf("keywords[urban] = %v", idx.Keywords["urban"])
	}
}

func TestReadStats_Missing(t *testing.T) {
	if _, err := manifest.ReadStats(afero.NewMemMapFs(), "/out"); err == nil {
		t.Error("expected error for missing stats.json")
	}
}
