package catalog

import "github.com/blackwell-systems/marketbuild/internal/util"

// DefaultHashLength is the length of a stable id in hex characters.
const DefaultHashLength = 12

// CollectionAuthor is the author every collection is hashed against.
const CollectionAuthor = "marketplace"

// StableHash derives the public id of an item from its canonical path and
// author: the first length hex characters of sha256("<path>:<author>").
// A length outside 1..64 falls back to DefaultHashLength.
func StableHash(canonicalPath, author string, length int) string {
	if length <= 0 || length > 64 {
		length = DefaultHashLength
	}
	return util.SHA256Hex(canonicalPath + ":" + author)[:length]
}
