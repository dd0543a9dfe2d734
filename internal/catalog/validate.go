package catalog

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// ValidationError describes the first field of an item that failed its
// schema check.
type ValidationError struct {
	CanonicalPath string
	Field         string
	Message       string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.CanonicalPath, e.Message)
	}
	return fmt.Sprintf("%s: field %q %s", e.CanonicalPath, e.Field, e.Message)
}

type fieldKind int

const (
	kindString fieldKind = iota
	kindList
	kindMap
)

func (k fieldKind) String() string {
	switch k {
	case kindList:
		return "a list"
	case kindMap:
		return "an object"
	default:
		return "a string"
	}
}

// rule checks one field. A falsy value (absent, null, false, 0, "") is
// reported as missing; a truthy value of the wrong kind is reported as a
// type error. nonEmpty additionally rejects an empty list, and when
// elems is set every list element must be of kind elem.
type rule struct {
	field    string
	kind     fieldKind
	required bool
	nonEmpty string // message used when a list is empty
	elems    bool
	elem     fieldKind
}

var schemas = map[Category][]rule{
	PhotoPacks: {
		{field: "name", kind: kindString, required: true},
		{field: "description", kind: kindString, required: true},
		{field: "author", kind: kindString, required: true},
		{field: "icon_url", kind: kindString, required: true},
		{field: "photos", kind: kindList, required: true, nonEmpty: "must contain at least one photo", elems: true, elem: kindString},
	},
	QuotePacks: {
		{field: "name", kind: kindString, required: true},
		{field: "description", kind: kindString, required: true},
		{field: "author", kind: kindString, required: true},
		{field: "quotes", kind: kindList, required: true, nonEmpty: "must contain at least one quote", elems: true, elem: kindMap},
	},
	PresetSettings: {
		{field: "name", kind: kindString, required: true},
		{field: "description", kind: kindString, required: true},
		{field: "author", kind: kindString, required: true},
		{field: "settings", kind: kindMap, required: true},
	},
	Collections: {
		{field: "name", kind: kindString, required: true},
		{field: "items", kind: kindList},
	},
}

// Validate checks raw against the required-field table of category c.
// The first failing rule short-circuits with a *ValidationError.
func Validate(raw []byte, c Category, canonicalPath string) error {
	rules, found := schemas[c]
	if !found {
		return &ValidationError{CanonicalPath: canonicalPath, Message: fmt.Sprintf("unknown category %q", c)}
	}
	if err := CheckJSON(raw); err != nil {
		return &ValidationError{CanonicalPath: canonicalPath, Message: err.Error()}
	}

	for _, r := range rules {
		v := gjson.GetBytes(raw, r.field)
		if !truthy(v) {
			if r.required {
				return &ValidationError{CanonicalPath: canonicalPath, Field: r.field, Message: "is required"}
			}
			continue
		}
		if !r.kind.matches(v) {
			return &ValidationError{CanonicalPath: canonicalPath, Field: r.field, Message: "must be " + r.kind.String()}
		}
		if r.nonEmpty != "" && len(v.Array()) == 0 {
			return &ValidationError{CanonicalPath: canonicalPath, Field: r.field, Message: r.nonEmpty}
		}
		if r.elems {
			for i, e := range v.Array() {
				if !r.elem.matches(e) {
					return &ValidationError{CanonicalPath: canonicalPath, Field: r.field, Message: fmt.Sprintf("element %d must be %s", i, r.elem)}
				}
			}
		}
	}

	if c == Collections {
		for _, ref := range gjson.GetBytes(raw, "items").Array() {
			if ref.Type != gjson.String || ref.Str == "" {
				return &ValidationError{CanonicalPath: canonicalPath, Field: "items", Message: "must contain only non-empty item references"}
			}
		}
	}
	return nil
}

func (k fieldKind) matches(v gjson.Result) bool {
	switch k {
	case kindList:
		return v.IsArray()
	case kindMap:
		return v.IsObject()
	default:
		return v.Type == gjson.String
	}
}

// truthy mirrors loose truthiness of a JSON value: empty lists and objects
// count as present.
func truthy(v gjson.Result) bool {
	if !v.Exists() {
		return false
	}
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return v.Num != 0
	case gjson.String:
		return v.Str != ""
	default:
		return true
	}
}
