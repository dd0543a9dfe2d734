package build

import (
	"errors"
	"fmt"

	"github.com/blackwell-systems/marketbuild/internal/catalog"
	"github.com/blackwell-systems/marketbuild/internal/registry"
)

// DanglingReferenceError is returned when a collection references an item
// that was not built.
type DanglingReferenceError struct {
	Collection string
	Reference  string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("%s: references missing item %q", e.Collection, e.Reference)
}

// IsFatal reports whether err is one of the integrity failures that abort
// a build: invalid items, duplicate paths, id collisions and dangling
// collection references.
func IsFatal(err error) bool {
	var (
		validation *catalog.ValidationError
		duplicate  *registry.DuplicatePathError
		collision  *registry.HashCollisionError
		dangling   *DanglingReferenceError
	)
	return errors.As(err, &validation) ||
		errors.As(err, &duplicate) ||
		errors.As(err, &collision) ||
		errors.As(err, &dangling)
}
