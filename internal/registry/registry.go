// Package registry enforces per-build uniqueness of canonical paths and
// stable ids.
package registry

import (
	"fmt"
	"sync"
)

// DuplicatePathError is returned when a canonical path is registered twice.
type DuplicatePathError struct {
	Path string
}

func (e *DuplicatePathError) Error() string {
	return fmt.Sprintf("duplicate canonical path %q", e.Path)
}

// HashCollisionError is returned when two canonical paths produce the
// same stable id.
type HashCollisionError struct {
	Hash     string
	Existing string
	Incoming string
}

func (e *HashCollisionError) Error() string {
	return fmt.Sprintf("stable id %s of %q collides with existing %q", e.Hash, e.Incoming, e.Existing)
}

// Registry holds the paths and hashes seen during one build. The zero
// value is not usable; call New.
type Registry struct {
	mu     sync.Mutex
	paths  map[string]struct{}
	hashes map[string]string // hash -> canonical path
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		paths:  make(map[string]struct{}),
		hashes: make(map[string]string),
	}
}

// RegisterPath records path, failing if it was already registered.
func (r *Registry) RegisterPath(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.paths[path]; found {
		return &DuplicatePathError{Path: path}
	}
	r.paths[path] = struct{}{}
	return nil
}

// RegisterHash records that hash belongs to path, failing if another path
// already owns it.
func (r *Registry) RegisterHash(hash, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, found := r.hashes[hash]; found {
		return &HashCollisionError{Hash: hash, Existing: existing, Incoming: path}
	}
	r.hashes[hash] = path
	return nil
}

// Register registers both path and hash.
func (r *Registry) Register(hash, path string) error {
	if err := r.RegisterPath(path); err != nil {
		return err
	}
	return r.RegisterHash(hash, path)
}

// Index returns a copy of the hash -> canonical path map.
func (r *Registry) Index() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]string, len(r.hashes))
	for h, p := range r.hashes {
		out[h] = p
	}
	return out
}

// Len returns the number of registered paths.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.paths)
}
