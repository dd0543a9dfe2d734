// Package build turns a directory of item and collection files into the
// enriched output tree and its manifests.
package build

import (
	"log/slog"
	"time"

	"github.com/blackwell-systems/marketbuild/internal/cache"
	"github.com/blackwell-systems/marketbuild/internal/catalog"
	"github.com/blackwell-systems/marketbuild/internal/history"
	"github.com/blackwell-systems/marketbuild/internal/icon"
	"github.com/blackwell-systems/marketbuild/internal/logging"
	"github.com/blackwell-systems/marketbuild/internal/manifest"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// KeywordMode selects where item keywords come from.
type KeywordMode string

const (
	// KeywordsCurated uses the item's own keywords list.
	KeywordsCurated KeywordMode = "curated"
	// KeywordsExtracted derives keywords from name and description.
	KeywordsExtracted KeywordMode = "extracted"
)

// Options are the per-run settings of a Builder.
type Options struct {
	ItemsDir       string
	CollectionsDir string
	OutputDir      string

	Concurrency  int
	HashLength   int
	RecentCount  int
	KeywordMode  KeywordMode
	EnrichPhotos bool
	DryRun       bool

	Version string
	BuildID string
}

// Builder runs the build pipeline. It holds no state between runs other
// than the collaborators it was constructed with.
type Builder struct {
	fs           afero.Fs
	opts         Options
	history      history.Resolver
	historyCache *cache.Store
	icons        *icon.Enricher
	logger       *slog.Logger
	now          func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithHistory sets the timestamp resolver. The default resolves every
// file to the current time.
func WithHistory(r history.Resolver) Option {
	return func(b *Builder) { b.history = r }
}

// WithHistoryCache sets the store consulted before the history resolver.
func WithHistoryCache(s *cache.Store) Option {
	return func(b *Builder) { b.historyCache = s }
}

// WithIcons enables icon enrichment.
func WithIcons(e *icon.Enricher) Option {
	return func(b *Builder) { b.icons = e }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithNowFunc overrides the clock used for generated timestamps.
func WithNowFunc(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// New creates a Builder over fs.
func New(fs afero.Fs, opts Options, options ...Option) *Builder {
	if opts.Concurrency < 1 {
		opts.Concurrency = history.DefaultConcurrency
	}
	if opts.HashLength == 0 {
		opts.HashLength = catalog.DefaultHashLength
	}
	if opts.RecentCount == 0 {
		opts.RecentCount = manifest.DefaultRecentCount
	}
	if opts.KeywordMode == "" {
		opts.KeywordMode = KeywordsCurated
	}
	if opts.BuildID == "" {
		opts.BuildID = uuid.NewString()
	}
	b := &Builder{
		fs:   fs,
		opts: opts,
		now:  time.Now,
	}
	for _, o := range options {
		o(b)
	}
	if b.history == nil {
		b.history = history.Static{Now: b.now}
	}
	b.logger = logging.Component(b.logger, "build")
	return b
}
