package catalog

// Category names a folder of item files. The string value is also the
// first segment of every canonical path in that folder.
type Category string

const (
	PhotoPacks     Category = "photo_packs"
	QuotePacks     Category = "quote_packs"
	PresetSettings Category = "preset_settings"
	Collections    Category = "collections"
)

// ItemCategories lists item categories in processing order. Collections
// are always resolved after every item category.
var ItemCategories = []Category{PhotoPacks, QuotePacks, PresetSettings}

// Type returns the singular type label used in manifests.
func (c Category) Type() string {
	switch c {
	case PhotoPacks:
		return "photo_pack"
	case QuotePacks:
		return "quote_pack"
	case PresetSettings:
		return "preset_settings"
	case Collections:
		return "collection"
	default:
		return string(c)
	}
}

// IsItemCategory reports whether c is one of ItemCategories.
func IsItemCategory(c Category) bool {
	for _, ic := range ItemCategories {
		if ic == c {
			return true
		}
	}
	return false
}

// Item is one authored content bundle. Exactly one payload variant is set,
// selected by Category.
type Item struct {
	Category     Category
	Name         string
	Description  string
	Author       string
	IconURL      string
	Language     string
	Draft        bool
	Keywords     []string
	CategoryTags []string
	Payload      Payload
}

// Payload is the category-specific part of an item.
type Payload interface {
	Category() Category
	// Len is the number of entries the pack offers (photos, quotes or
	// settings keys).
	Len() int
}

// Photos is the payload of a photo pack: an ordered list of image URLs.
type Photos []string

func (Photos) Category() Category { return PhotoPacks }
func (p Photos) Len() int         { return len(p) }

// Quote is one entry of a quote pack.
type Quote struct {
	Quote  string `json:"quote"`
	Author string `json:"author,omitempty"`
}

// Quotes is the payload of a quote pack.
type Quotes []Quote

func (Quotes) Category() Category { return QuotePacks }
func (q Quotes) Len() int         { return len(q) }

// Settings is the payload of a preset: an arbitrary key-value map. An
// empty map is a valid preset.
type Settings map[string]any

func (Settings) Category() Category { return PresetSettings }
func (s Settings) Len() int         { return len(s) }

// Collection groups item references ("<category>/<stem>") or, with no
// items, acts as an announcement.
type Collection struct {
	Name        string
	Description string
	IconURL     string
	Items       []string
	Draft       bool
}

// Kind returns "announcement" for a collection without items.
func (c Collection) Kind() string {
	if len(c.Items) == 0 {
		return "announcement"
	}
	return "collection"
}
