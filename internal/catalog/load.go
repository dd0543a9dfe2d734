package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/tidwall/gjson"
)

type wireItem struct {
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Author       string         `json:"author"`
	IconURL      string         `json:"icon_url"`
	Language     string         `json:"language"`
	Draft        bool           `json:"draft"`
	Keywords     []string       `json:"keywords"`
	CategoryTags []string       `json:"category_tags"`
	Photos       []string       `json:"photos"`
	Quotes       []Quote        `json:"quotes"`
	Settings     map[string]any `json:"settings"`
}

type wireCollection struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	IconURL     string   `json:"icon_url"`
	Items       []string `json:"items"`
	Draft       bool     `json:"draft"`
}

// Stem returns the file name of p without directory and .json extension.
func Stem(p string) string {
	return strings.TrimSuffix(path.Base(p), ".json")
}

// CanonicalPath returns "<category>/<stem>".
func CanonicalPath(c Category, stem string) string {
	return string(c) + "/" + stem
}

// IsDraft reports whether the raw document carries "draft": true.
func IsDraft(raw []byte) bool {
	return gjson.GetBytes(raw, "draft").Type == gjson.True
}

// CheckJSON returns an error if raw is not a single JSON object.
func CheckJSON(raw []byte) error {
	if !gjson.ValidBytes(raw) {
		return fmt.Errorf("invalid JSON")
	}
	if !gjson.ParseBytes(raw).IsObject() {
		return fmt.Errorf("expected a JSON object")
	}
	return nil
}

// Decode parses a validated item document into an Item of category c.
func Decode(raw []byte, c Category) (*Item, error) {
	var w wireItem
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("decoding %s item: %w", c.Type(), err)
	}

	it := &Item{
		Category:     c,
		Name:         w.Name,
		Description:  w.Description,
		Author:       w.Author,
		IconURL:      w.IconURL,
		Language:     w.Language,
		Draft:        w.Draft,
		Keywords:     w.Keywords,
		CategoryTags: w.CategoryTags,
	}

	switch c {
	case PhotoPacks:
		it.Payload = Photos(w.Photos)
	case QuotePacks:
		it.Payload = Quotes(w.Quotes)
	case PresetSettings:
		if w.Settings == nil {
			w.Settings = map[string]any{}
		}
		it.Payload = Settings(w.Settings)
	default:
		return nil, fmt.Errorf("unknown item category %q", c)
	}
	return it, nil
}

// DecodeCollection parses a validated collection document.
func DecodeCollection(raw []byte) (*Collection, error) {
	var w wireCollection
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decoding collection: %w", err)
	}
	return &Collection{
		Name:        w.Name,
		Description: w.Description,
		IconURL:     w.IconURL,
		Items:       w.Items,
		Draft:       w.Draft,
	}, nil
}
