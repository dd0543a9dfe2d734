package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/blackwell-systems/marketbuild/internal/logging"
	"github.com/blackwell-systems/marketbuild/internal/util"
	"github.com/spf13/afero"
)

// FormatVersion tags the persisted layout. A file written with any other
// version is discarded whole.
const FormatVersion = 3

// DefaultMaxAge is how long an entry stays usable.
const DefaultMaxAge = 7 * 24 * time.Hour

// ErrVersionMismatch is returned by Load when the file has another format.
var ErrVersionMismatch = errors.New("cache format version mismatch")

// Entry is one cached derivation. Timestamp fields are set in the history
// namespace; colour fields in the icon namespace.
type Entry struct {
	CreatedAt       string            `json:"created_at,omitempty"`
	UpdatedAt       string            `json:"updated_at,omitempty"`
	ContentHash     string            `json:"contentHash"`
	CachedAt        time.Time         `json:"cachedAt"`
	Colour          string            `json:"colour,omitempty"`
	Blurhash        string            `json:"blurhash,omitempty"`
	PhotoBlurhashes map[string]string `json:"photo_blurhashes,omitempty"`
	IsDark          *bool             `json:"isDark,omitempty"`
	IsLight         *bool             `json:"isLight,omitempty"`
}

type fileFormat struct {
	Version int              `json:"version"`
	Entries map[string]Entry `json:"entries"`
}

// NowFunc returns the current time.
type NowFunc func() time.Time

// Option configures a Store.
type Option func(*Store)

// WithMaxAge sets the maximum entry age. Non-positive values are ignored.
func WithMaxAge(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.maxAge = d
		}
	}
}

// WithNowFunc sets the clock used for stamping and expiry.
func WithNowFunc(now NowFunc) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger for hit/miss debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Store is a keyed set of entries persisted as one JSON file. It is safe
// for concurrent use.
type Store struct {
	fs     afero.Fs
	path   string
	maxAge time.Duration
	now    NowFunc
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]Entry
}

func newStore(fs afero.Fs, path string, options ...Option) *Store {
	s := &Store{
		fs:      fs,
		path:    path,
		maxAge:  DefaultMaxAge,
		now:     time.Now,
		entries: make(map[string]Entry),
	}
	for _, option := range options {
		option(s)
	}
	s.logger = logging.Component(s.logger, "cache")
	return s
}

// Load reads the persisted file. A missing file is an empty cache. On any
// error, including a version mismatch, the store is left empty.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]Entry)

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading cache %s: %w", s.path, err)
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing cache %s: %w", s.path, err)
	}
	if f.Version != FormatVersion {
		return fmt.Errorf("%s has version %d, want %d: %w", s.path, f.Version, FormatVersion, ErrVersionMismatch)
	}
	if f.Entries != nil {
		s.entries = f.Entries
	}
	return nil
}

// Get returns the entry for key if its fingerprint equals
// contentFingerprint and it is younger than the maximum age. A stale or
// mismatched entry is evicted.
func (s *Store) Get(key, contentFingerprint string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, found := s.entries[key]
	if !found {
		s.logger.Debug("cache miss", "key", key)
		return Entry{}, false
	}
	if e.ContentHash != contentFingerprint {
		delete(s.entries, key)
		s.logger.Debug("cache stale: content changed", "key", key)
		return Entry{}, false
	}
	if s.expired(e) {
		delete(s.entries, key)
		s.logger.Debug("cache stale: expired", "key", key, "cached_at", e.CachedAt)
		return Entry{}, false
	}
	s.logger.Debug("cache hit", "key", key)
	return e, true
}

// Set stamps e with the current time and stores it under key.
func (s *Store) Set(key string, e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.CachedAt = s.now().UTC()
	s.entries[key] = e
}

// CleanExpired drops every entry older than the maximum age and returns
// how many were removed.
func (s *Store) CleanExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cleanExpiredLocked()
}

func (s *Store) cleanExpiredLocked() int {
	removed := 0
	for k, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

// Save drops expired entries and writes the store to disk.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cleanExpiredLocked()
	data, err := json.MarshalIndent(fileFormat{Version: FormatVersion, Entries: s.entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}
	if err := util.WriteFileAtomic(s.fs, s.path, data); err != nil {
		return fmt.Errorf("writing cache %s: %w", s.path, err)
	}
	return nil
}

// Stats reports the total and expired entry counts.
func (s *Store) Stats() (total, expired int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if s.expired(e) {
			expired++
		}
	}
	return len(s.entries), expired
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Store) expired(e Entry) bool {
	return s.now().Sub(e.CachedAt) >= s.maxAge
}
