package app

import (
	"fmt"
	"path/filepath"

	"github.com/blackwell-systems/marketbuild/internal/build"
	"github.com/blackwell-systems/marketbuild/internal/cache"
	"github.com/blackwell-systems/marketbuild/internal/history"
	"github.com/blackwell-systems/marketbuild/internal/icon"
	"github.com/gofrs/flock"
)

// caches holds the two persisted namespaces for one run. Both are nil
// when caching is off.
type caches struct {
	history *cache.Store
	icons   *cache.Store
}

// openCaches loads both cache namespaces. A cache that cannot be read is
// logged and treated as empty.
func openCaches(disabled bool) *caches {
	if disabled || cfg.Cache.Disabled {
		return &caches{}
	}
	mgr := cache.New(appFS, cfg.Cache.Dir)
	c := &caches{
		history: mgr.Open(cache.History, cache.WithMaxAge(cfg.Cache.MaxAge), cache.WithLogger(logger)),
		icons:   mgr.Open(cache.Icons, cache.WithMaxAge(cfg.Cache.MaxAge), cache.WithLogger(logger)),
	}
	for ns, s := range map[cache.Namespace]*cache.Store{cache.History: c.history, cache.Icons: c.icons} {
		if err := s.Load(); err != nil {
			logger.Warn("cache unreadable, starting empty", "namespace", ns, "error", err)
		}
	}
	return c
}

// save persists both namespaces. Failures are logged; the cache is an
// optimisation only.
func (c *caches) save() {
	for ns, s := range map[cache.Namespace]*cache.Store{cache.History: c.history, cache.Icons: c.icons} {
		if s == nil {
			continue
		}
		if err := s.Save(); err != nil {
			logger.Warn("cache not saved", "namespace", ns, "error", err)
		}
	}
}

type buildFlags struct {
	noCache     bool
	dryRun      bool
	concurrency int
	keywords    string
}

func (f buildFlags) options() build.Options {
	opts := build.Options{
		ItemsDir:       cfg.Source.ItemsDir,
		CollectionsDir: cfg.Source.CollectionsDir,
		OutputDir:      cfg.Output.Dir,
		Concurrency:    cfg.Build.Concurrency,
		HashLength:     cfg.Build.HashLength,
		RecentCount:    cfg.Build.RecentCount,
		KeywordMode:    build.KeywordMode(cfg.Build.KeywordMode),
		EnrichPhotos:   cfg.Build.EnrichPhotos,
		DryRun:         f.dryRun,
		Version:        appVersion,
	}
	if f.concurrency > 0 {
		opts.Concurrency = f.concurrency
	}
	if f.keywords != "" {
		opts.KeywordMode = build.KeywordMode(f.keywords)
	}
	return opts
}

func (f buildFlags) validate() error {
	switch build.KeywordMode(f.keywords) {
	case "", build.KeywordsCurated, build.KeywordsExtracted:
		return nil
	}
	return fmt.Errorf("--keywords must be curated or extracted, got %q", f.keywords)
}

func newResolver(concurrency int) history.Resolver {
	if cfg.History.Backend == "none" {
		return history.Static{}
	}
	return history.NewGitResolver(cfg.Source.RepoDir,
		history.WithConcurrency(concurrency),
		history.WithLogger(logger),
	)
}

func newEnricher(store *cache.Store) *icon.Enricher {
	opts := icon.Options{
		Saturation:  cfg.Icon.Saturation,
		ThumbSize:   cfg.Icon.ThumbSize,
		ComponentsX: cfg.Icon.ComponentsX,
		ComponentsY: cfg.Icon.ComponentsY,
	}
	return icon.NewEnricher(icon.NewHTTPFetcher(cfg.Icon.Timeout, cfg.Icon.MaxBytes), opts, store, logger)
}

// lockOutput takes an exclusive lock next to the output directory so two
// builds cannot swap the same output.
func lockOutput(output string) (*flock.Flock, error) {
	if err := appFS.MkdirAll(filepath.Dir(filepath.Clean(output)), 0755); err != nil {
		return nil, err
	}
	lock := flock.New(filepath.Clean(output) + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking output: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another build holds %s", lock.Path())
	}
	return lock, nil
}
