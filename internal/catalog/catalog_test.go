package catalog_test

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/blackwell-systems/marketbuild/internal/catalog"
)

var samplePhotoPack = []byte(`{
  "name": "Beautiful European Cities",
  "description": "Old towns & rivers",
  "author": "alice",
  "icon_url": "https://img.example.com/cities.png?w=64&h=64",
  "photos": ["https://img.example.com/1.jpg", "https://img.example.com/2.jpg"],
  "language": "en",
  "license": "cc-by"
}`)

// --- StableHash ---

func TestStableHash_LengthAndAlphabet(t *testing.T) {
	re := regexp.MustCompile(`^[a-f0-9]{12}$`)
	inputs := [][2]string{
		{"photo_packs/nature", "alice"},
		{"quote_packs/stoic", "bob"},
		{"collections/featured", catalog.CollectionAuthor},
		{"", ""},
	}
	for _, in := range inputs {
		got := catalog.StableHash(in[0], in[1], 12)
		if !re.MatchString(got) {
			t.Errorf("StableHash(%q, %q) = %q, not 12 lowercase hex chars", in[0], in[1], got)
		}
	}
}

func TestStableHash_Deterministic(t *testing.T) {
	a := catalog.StableHash("photo_packs/nature", "alice", 12)
	b := catalog.StableHash("photo_packs/nature", "alice", 12)
	if a != b {
		t.Errorf("StableHash not deterministic: %q vs %q", a, b)
	}
}

func TestStableHash_InputsChangeOutput(t *testing.T) {
	base := catalog.StableHash("photo_packs/nature", "alice", 12)
	if catalog.StableHash("photo_packs/nature2", "alice", 12) == base {
		t.Error("changing the path should change the hash")
	}
	if catalog.StableHash("photo_packs/nature", "bob", 12) == base {
		t.Error("changing the author should change the hash")
	}
}

func TestStableHash_KnownValue(t *testing.T) {
	got := catalog.StableHash("a", "b", 8)
	if len(got) != 8 {
		t.Fatalf("length = %d, want 8", len(got))
	}
	full := catalog.StableHash("a", "b", 64)
	if !strings.HasPrefix(full, got) {
		t.Errorf("short id %q is not a prefix of %q", got, full)
	}
}

func TestStableHash_InvalidLengthFallsBack(t *testing.T) {
	if got := catalog.StableHash("x", "y", 0); len(got) != catalog.DefaultHashLength {
		t.Errorf("length = %d, want %d", len(got), catalog.DefaultHashLength)
	}
	if got := catalog.StableHash("x", "y", 99); len(got) != catalog.DefaultHashLength {
		t.Errorf("length = %d, want %d", len(got), catalog.DefaultHashLength)
	}
}

// --- Slugify ---

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Beautiful European Cities", "beautiful-european-cities"},
		{"   Spaces   Everywhere   ", "spaces-everywhere"},
		{"", ""},
		{"---", ""},
		{"Rock & Roll!!", "rock-roll"},
		{"Top 10 Views", "top-10-views"},
		{"São Paulo", "s-o-paulo"},
		{"already-slugged", "already-slugged"},
	}
	for _, c := range cases {
		if got := catalog.Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	for _, in := range []string{"Beautiful European Cities", "  a--b  ", "Ünïcödé Mix 42", "x"} {
		once := catalog.Slugify(in)
		if twice := catalog.Slugify(once); twice != once {
			t.Errorf("Slugify not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

// --- SearchText ---

func TestSearchText_LowercaseWithoutSlashes(t *testing.T) {
	got := catalog.SearchText("Nature Pack", "Green FIELDS", "Alice", "photo_packs/nature", "EN")
	want := "nature pack green fields alice photo_packs nature en"
	if got != want {
		t.Errorf("SearchText = %q, want %q", got, want)
	}
	if strings.Contains(got, "/") {
		t.Errorf("SearchText contains a slash: %q", got)
	}
	if got != strings.ToLower(got) {
		t.Errorf("SearchText is not lowercase: %q", got)
	}
}

func TestSearchText_EmptyLanguage(t *testing.T) {
	got := catalog.SearchText("a", "b", "c", "quote_packs/d", "")
	if got != "a b c quote_packs d " {
		t.Errorf("SearchText = %q", got)
	}
}

// --- ExtractTags ---

func TestExtractTags_FrequencyThenFirstOccurrence(t *testing.T) {
	got := catalog.ExtractTags("Mountain Lakes", "Mountain views and lakes at dawn. Mountain air!")
	want := []string{"mountain", "lakes", "views", "dawn", "air"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("ExtractTags = %v, want %v", got, want)
	}
}

func TestExtractTags_Limit(t *testing.T) {
	got := catalog.ExtractTags("alpha bravo charlie delta echo foxtrot", "golf hotel india juliet kilo lima")
	if len(got) != catalog.MaxExtractedTags {
		t.Fatalf("len = %d, want %d", len(got), catalog.MaxExtractedTags)
	}
	if got[0] != "alpha" || got[9] != "juliet" {
		t.Errorf("unexpected order: %v", got)
	}
}

func TestExtractTags_DropsShortAndStopWords(t *testing.T) {
	got := catalog.ExtractTags("The an of", "with this")
	if len(got) != 0 {
		t.Errorf("expected no tags, got %v", got)
	}
}

func TestExtractTags_KeepsNonASCIILetters(t *testing.T) {
	got := catalog.ExtractTags("Café Crème", "Beautiful café photos from São Paulo!")
	want := []string{"café", "crème", "beautiful", "photos", "são", "paulo"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("ExtractTags = %v, want %v", got, want)
	}

	got = catalog.ExtractTags("Über Straße", "Größe, 東京.")
	want = []string{"über", "straße", "größe"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("ExtractTags = %v, want %v", got, want)
	}
}

func TestNormalizeKeywords(t *testing.T) {
	got := catalog.NormalizeKeywords([]string{" Travel", "travel", "", "CITY"})
	if strings.Join(got, ",") != "travel,city" {
		t.Errorf("NormalizeKeywords = %v", got)
	}
}

// --- Validate ---

func validationField(t *testing.T, err error) *catalog.ValidationError {
	t.Helper()
	var ve *catalog.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	return ve
}

func TestValidate_PhotoPackValid(t *testing.T) {
	if err := catalog.Validate(samplePhotoPack, catalog.PhotoPacks, "photo_packs/cities"); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidate_MissingIconURL(t *testing.T) {
	raw := []byte(`{"name":"n","description":"d","author":"a","photos":["x"]}`)
	ve := validationField(t, catalog.Validate(raw, catalog.PhotoPacks, "photo_packs/n"))
	if ve.Field != "icon_url" {
		t.Errorf("Field = %q, want %q", ve.Field, "icon_url")
	}
	if ve.CanonicalPath != "photo_packs/n" {
		t.Errorf("CanonicalPath = %q", ve.CanonicalPath)
	}
}

func TestValidate_EmptyPhotos(t *testing.T) {
	raw := []byte(`{"name":"n","description":"d","author":"a","icon_url":"u","photos":[]}`)
	ve := validationField(t, catalog.Validate(raw, catalog.PhotoPacks, "photo_packs/n"))
	if ve.Field != "photos" {
		t.Errorf("Field = %q, want photos", ve.Field)
	}
	if !strings.Contains(ve.Message, "at least one photo") {
		t.Errorf("Message = %q, should mention at least one photo", ve.Message)
	}
}

func TestValidate_FalsyValuesCountAsMissing(t *testing.T) {
	cases := []string{
		`{"name":"","description":"d","author":"a","quotes":[{"quote":"q"}]}`,
		`{"name":null,"description":"d","author":"a","quotes":[{"quote":"q"}]}`,
		`{"name":0,"description":"d","author":"a","quotes":[{"quote":"q"}]}`,
		`{"name":false,"description":"d","author":"a","quotes":[{"quote":"q"}]}`,
		`{"description":"d","author":"a","quotes":[{"quote":"q"}]}`,
	}
	for _, raw := range cases {
		ve := validationField(t, catalog.Validate([]byte(raw), catalog.QuotePacks, "quote_packs/q"))
		if ve.Field != "name" {
			t.Errorf("%s: Field = %q, want name", raw, ve.Field)
		}
	}
}

func TestValidate_WrongKind(t *testing.T) {
	raw := []byte(`{"name":"n","description":"d","author":"a","quotes":"not a list"}`)
	ve := validationField(t, catalog.Validate(raw, catalog.QuotePacks, "quote_packs/q"))
	if ve.Field != "quotes" || !strings.Contains(ve.Message, "list") {
		t.Errorf("got %v", ve)
	}
}

func TestValidate_PayloadElementKinds(t *testing.T) {
	raw := []byte(`{"name":"n","description":"d","author":"a","icon_url":"u","photos":["x", 2]}`)
	ve := validationField(t, catalog.Validate(raw, catalog.PhotoPacks, "photo_packs/n"))
	if ve.Field != "photos" || !strings.Contains(ve.Message, "element 1") {
		t.Errorf("got %v", ve)
	}

	raw = []byte(`{"name":"n","description":"d","author":"a","quotes":["just text"]}`)
	ve = validationField(t, catalog.Validate(raw, catalog.QuotePacks, "quote_packs/n"))
	if ve.Field != "quotes" || !strings.Contains(ve.Message, "an object") {
		t.Errorf("got %v", ve)
	}
}

func TestValidate_FirstFailureWins(t *testing.T) {
	raw := []byte(`{"author":"a"}`)
	ve := validationField(t, catalog.Validate(raw, catalog.PhotoPacks, "photo_packs/x"))
	if ve.Field != "name" {
		t.Errorf("Field = %q, want name", ve.Field)
	}
}

func TestValidate_EmptySettingsAllowed(t *testing.T) {
	raw := []byte(`{"name":"n","description":"d","author":"a","settings":{}}`)
	if err := catalog.Validate(raw, catalog.PresetSettings, "preset_settings/n"); err != nil {
		t.Errorf("empty settings should be valid: %v", err)
	}
}

func TestValidate_EmptyQuotes(t *testing.T) {
	raw := []byte(`{"name":"n","description":"d","author":"a","quotes":[]}`)
	ve := validationField(t, catalog.Validate(raw, catalog.QuotePacks, "quote_packs/n"))
	if !strings.Contains(ve.Message, "at least one quote") {
		t.Errorf("Message = %q", ve.Message)
	}
}

func TestValidate_InvalidJSON(t *testing.T) {
	if err := catalog.Validate([]byte(`{"name":`), catalog.PhotoPacks, "photo_packs/x"); err == nil {
		t.Error("expected error for invalid JSON, got nil")
	}
}

func TestValidate_CollectionItems(t *testing.T) {
	if err := catalog.Validate([]byte(`{"name":"Featured"}`), catalog.Collections, "collections/f"); err != nil {
		t.Errorf("announcement without items should be valid: %v", err)
	}
	ve := validationField(t, catalog.Validate([]byte(`{"name":"F","items":[1]}`), catalog.Collections, "collections/f"))
	if ve.Field != "items" {
		t.Errorf("Field = %q, want items", ve.Field)
	}
}

// --- Decode ---

func TestDecode_PhotoPack(t *testing.T) {
	it, err := catalog.Decode(samplePhotoPack, catalog.PhotoPacks)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	photos, ok := it.Payload.(catalog.Photos)
	if !ok {
		t.Fatalf("Payload type = %T, want catalog.Photos", it.Payload)
	}
	if len(photos) != 2 || it.Payload.Len() != 2 {
		t.Errorf("photos = %v", photos)
	}
	if it.Author != "alice" || it.Language != "en" {
		t.Errorf("unexpected item: %+v", it)
	}
}

func TestDecode_PresetWithoutSettingsGetsEmptyMap(t *testing.T) {
	it, err := catalog.Decode([]byte(`{"name":"n"}`), catalog.PresetSettings)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	s, ok := it.Payload.(catalog.Settings)
	if !ok || s == nil {
		t.Errorf("Payload = %#v", it.Payload)
	}
}

func TestDecode_UnknownCategory(t *testing.T) {
	if _, err := catalog.Decode([]byte(`{}`), catalog.Collections); err == nil {
		t.Error("expected error decoding an item as a collection")
	}
}

func TestDecodeCollection_Kind(t *testing.T) {
	c, err := catalog.DecodeCollection([]byte(`{"name":"News"}`))
	if err != nil {
		t.Fatalf("DecodeCollection: %v", err)
	}
	if c.Kind() != "announcement" {
		t.Errorf("Kind = %q, want announcement", c.Kind())
	}
	c.Items = []string{"photo_packs/nature"}
	if c.Kind() != "collection" {
		t.Errorf("Kind = %q, want collection", c.Kind())
	}
}

func TestIsDraft(t *testing.T) {
	if !catalog.IsDraft([]byte(`{"draft":true}`)) {
		t.Error("draft:true should be draft")
	}
	if catalog.IsDraft([]byte(`{"draft":"true"}`)) {
		t.Error(`draft:"true" should not be draft`)
	}
	if catalog.IsDraft([]byte(`{}`)) {
		t.Error("missing draft should not be draft")
	}
}

func TestStemAndCanonicalPath(t *testing.T) {
	if got := catalog.Stem("data/photo_packs/nature.json"); got != "nature" {
		t.Errorf("Stem = %q", got)
	}
	if got := catalog.CanonicalPath(catalog.PhotoPacks, "nature"); got != "photo_packs/nature" {
		t.Errorf("CanonicalPath = %q", got)
	}
}

// --- Enrich ---

func TestEnrich_PreservesFieldsAndAddsEnrichment(t *testing.T) {
	dark := true
	out, err := catalog.Enrich(samplePhotoPack, catalog.Enrichment{
		ID:            "abc123abc123",
		CanonicalPath: "photo_packs/cities",
		Slug:          "beautiful-european-cities",
		CreatedAt:     "2024-01-01T00:00:00Z",
		UpdatedAt:     "2024-02-01T00:00:00Z",
		Colour:        "#336699",
		IsDark:        &dark,
	})
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if doc["license"] != "cc-by" {
		t.Errorf("unknown field lost: %v", doc["license"])
	}
	if doc["id"] != "abc123abc123" || doc["colour"] != "#336699" || doc["is_dark"] != true {
		t.Errorf("enrichment missing: %v", doc)
	}
	if _, found := doc["blurhash"]; found {
		t.Error("empty blurhash should be omitted")
	}
	if !strings.Contains(string(out), "w=64&h=64") {
		t.Error("URL should not be HTML-escaped")
	}
}
