package cache

import "github.com/blackwell-systems/marketbuild/internal/util"

// FileFingerprint returns the content fingerprint of a source file's raw
// bytes, used to validate history entries.
func FileFingerprint(raw []byte) string {
	return util.Fingerprint(raw)
}

// URLFingerprint returns the fingerprint stored with icon entries. Remote
// bytes are not known before fetching, so icon entries only expire by age.
func URLFingerprint(url string) string {
	return util.Fingerprint([]byte(url))
}
