// Package history resolves creation and modification timestamps of item
// files from version-control history.
package history

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/blackwell-systems/marketbuild/internal/logging"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds simultaneous history lookups.
const DefaultConcurrency = 10

// Timestamps are RFC 3339 UTC strings.
type Timestamps struct {
	CreatedAt string
	UpdatedAt string
	// Fallback is true when no history was found and both fields hold the
	// resolution time.
	Fallback bool
}

// Resolver resolves timestamps for a batch of files. It never fails: a
// file without history gets the current time.
type Resolver interface {
	Resolve(ctx context.Context, paths []string) map[string]Timestamps
}

// Format normalises t to the timestamp format used in every output.
func Format(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// GitResolver reads timestamps from git log.
type GitResolver struct {
	repoDir     string
	runner      Runner
	concurrency int
	now         func() time.Time
	logger      *slog.Logger
}

// GitOption configures a GitResolver.
type GitOption func(*GitResolver)

// WithRunner replaces the git executor.
func WithRunner(r Runner) GitOption {
	return func(g *GitResolver) { g.runner = r }
}

// WithConcurrency sets the maximum number of concurrent git calls.
func WithConcurrency(n int) GitOption {
	return func(g *GitResolver) {
		if n > 0 {
			g.concurrency = n
		}
	}
}

// WithNowFunc sets the clock used for fallbacks.
func WithNowFunc(now func() time.Time) GitOption {
	return func(g *GitResolver) { g.now = now }
}

// WithLogger sets the logger for fallback warnings.
func WithLogger(logger *slog.Logger) GitOption {
	return func(g *GitResolver) { g.logger = logger }
}

// NewGitResolver returns a resolver running git inside repoDir.
func NewGitResolver(repoDir string, options ...GitOption) *GitResolver {
	g := &GitResolver{
		repoDir:     repoDir,
		runner:      ExecRunner{},
		concurrency: DefaultConcurrency,
		now:         time.Now,
	}
	for _, option := range options {
		option(g)
	}
	g.logger = logging.Component(g.logger, "history")
	return g
}

// Resolve fetches the full revision list of each path once. Independent
// paths are resolved concurrently up to the configured limit.
func (g *GitResolver) Resolve(ctx context.Context, paths []string) map[string]Timestamps {
	var (
		mu  sync.Mutex
		out = make(map[string]Timestamps, len(paths))
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)
	for _, p := range paths {
		eg.Go(func() error {
			ts, err := g.resolveOne(egCtx, p)
			if err != nil {
				g.logger.Warn("no version history, using current time",
					"path", p,
					"error", err)
				now := Format(g.now())
				ts = Timestamps{CreatedAt: now, UpdatedAt: now, Fallback: true}
			}
			mu.Lock()
			out[p] = ts
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()
	return out
}

func (g *GitResolver) resolveOne(ctx context.Context, path string) (Timestamps, error) {
	target := path
	if abs, err := filepath.Abs(path); err == nil {
		target = abs
	}
	out, err := g.runner.Run(ctx, g.repoDir, logArgs(target)...)
	if err != nil {
		return Timestamps{}, err
	}
	return parseLog(out)
}

// parseLog turns newest-first revision dates into timestamps: the first
// line is the last update, the last line the creation.
func parseLog(out string) (Timestamps, error) {
	var dates []time.Time
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, line)
		if err != nil {
			return Timestamps{}, fmt.Errorf("parsing revision date %q: %w", line, err)
		}
		dates = append(dates, t)
	}
	if len(dates) == 0 {
		return Timestamps{}, fmt.Errorf("no revisions")
	}
	return Timestamps{
		UpdatedAt: Format(dates[0]),
		CreatedAt: Format(dates[len(dates)-1]),
	}, nil
}

// Static resolves every path to the current time without consulting any
// history backend.
type Static struct {
	Now func() time.Time
}

func (s Static) Resolve(_ context.Context, paths []string) map[string]Timestamps {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	ts := Format(now())
	out := make(map[string]Timestamps, len(paths))
	for _, p := range paths {
		out[p] = Timestamps{CreatedAt: ts, UpdatedAt: ts, Fallback: true}
	}
	return out
}
