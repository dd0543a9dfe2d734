package cache

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Namespace selects one of the independent build caches.
type Namespace string

const (
	// History holds version-control timestamps keyed by canonical path.
	History Namespace = "history"
	// Icons holds colour and blurhash data keyed by image URL.
	Icons Namespace = "icons"
)

// Namespaces lists every cache namespace.
var Namespaces = []Namespace{History, Icons}

// Manager locates the cache files under a base directory.
type Manager struct {
	fs      afero.Fs
	baseDir string
}

// New creates a cache Manager rooted at baseDir.
func New(fs afero.Fs, baseDir string) *Manager {
	return &Manager{fs: fs, baseDir: baseDir}
}

// Path returns the file backing a namespace.
// Layout: <baseDir>/<namespace>.json
func (m *Manager) Path(ns Namespace) string {
	return filepath.Join(m.baseDir, string(ns)+".json")
}

// Open returns the store for ns. The store is empty until Load is called.
func (m *Manager) Open(ns Namespace, options ...Option) *Store {
	return newStore(m.fs, m.Path(ns), options...)
}

// Exists reports whether the namespace file exists.
func (m *Manager) Exists(ns Namespace) bool {
	_, err := m.fs.Stat(m.Path(ns))
	return err == nil
}

// Size returns the size in bytes of the namespace file, or 0.
func (m *Manager) Size(ns Namespace) int64 {
	fi, err := m.fs.Stat(m.Path(ns))
	if err != nil {
		return 0
	}
	return fi.Size()
}

// Remove deletes the namespace file if it exists.
func (m *Manager) Remove(ns Namespace) error {
	err := m.fs.Remove(m.Path(ns))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
