package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Enrichment holds the derived fields added to an item's output copy.
// Empty optional fields are omitted from the output.
type Enrichment struct {
	ID              string
	CanonicalPath   string
	Slug            string
	CreatedAt       string
	UpdatedAt       string
	Colour          string
	Blurhash        string
	IsDark          *bool
	IsLight         *bool
	PhotoBlurhashes map[string]string
}

func (e Enrichment) fields() map[string]any {
	f := map[string]any{
		"id":             e.ID,
		"canonical_path": e.CanonicalPath,
		"slug":           e.Slug,
		"created_at":     e.CreatedAt,
		"updated_at":     e.UpdatedAt,
	}
	if e.Colour != "" {
		f["colour"] = e.Colour
	}
	if e.Blurhash != "" {
		f["blurhash"] = e.Blurhash
	}
	if e.IsDark != nil {
		f["is_dark"] = *e.IsDark
	}
	if e.IsLight != nil {
		f["is_light"] = *e.IsLight
	}
	if len(e.PhotoBlurhashes) > 0 {
		f["photo_blurhashes"] = e.PhotoBlurhashes
	}
	return f
}

// Enrich returns raw with the enrichment fields merged in. Every field of
// the source document is preserved; keys are written in sorted order.
func Enrich(raw []byte, e Enrichment) ([]byte, error) {
	doc := make(map[string]any)
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding item for enrichment: %w", err)
	}
	for k, v := range e.fields() {
		doc[k] = v
	}
	return MarshalJSON(doc)
}

// MarshalJSON encodes v as indented JSON without HTML escaping, ending in
// a newline.
func MarshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding JSON: %w", err)
	}
	return buf.Bytes(), nil
}
