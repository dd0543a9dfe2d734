package build

import (
	"context"

	"github.com/blackwell-systems/marketbuild/internal/cache"
	"github.com/blackwell-systems/marketbuild/internal/catalog"
	"golang.org/x/sync/errgroup"
)

// resolveHistory fills in the timestamps of every record, asking the
// resolver only for files whose cached entry is missing or stale. It
// returns the number of cache hits.
func (b *Builder) resolveHistory(ctx context.Context, recs []*record) int {
	hits := 0
	var misses []*record
	for _, rec := range recs {
		if b.historyCache != nil {
			if e, ok := b.historyCache.Get(rec.canonical, cache.FileFingerprint(rec.raw)); ok {
				rec.times.CreatedAt = e.CreatedAt
				rec.times.UpdatedAt = e.UpdatedAt
				hits++
				continue
			}
		}
		misses = append(misses, rec)
	}
	if len(misses) == 0 {
		return hits
	}

	paths := make([]string, len(misses))
	for i, rec := range misses {
		paths[i] = rec.source
	}
	resolved := b.history.Resolve(ctx, paths)
	for _, rec := range misses {
		rec.times = resolved[rec.source]
		if rec.times.CreatedAt == "" {
			rec.times = b.fallbackTimes()
		}
		// A fallback is the build time, not history; caching it would
		// pin the file to this build until its content changes.
		if b.historyCache != nil && !rec.times.Fallback {
			b.historyCache.Set(rec.canonical, cache.Entry{
				ContentHash: cache.FileFingerprint(rec.raw),
				CreatedAt:   rec.times.CreatedAt,
				UpdatedAt:   rec.times.UpdatedAt,
			})
		}
	}
	return hits
}

type photoJob struct {
	rec    *record
	urls   []string
	hashes []string
}

// enrichIcons fetches icon data for every record carrying an icon URL,
// and per-photo blurhashes when enabled. Failures leave the fields unset.
func (b *Builder) enrichIcons(ctx context.Context, recs []*record) {
	if b.icons == nil {
		return
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Concurrency)

	// Records sharing an icon URL share one fetch.
	var urls []string
	byURL := make(map[string][]*record)
	for _, rec := range recs {
		if url := rec.iconURL(); url != "" {
			if _, seen := byURL[url]; !seen {
				urls = append(urls, url)
			}
			byURL[url] = append(byURL[url], rec)
		}
	}
	for _, url := range urls {
		group := byURL[url]
		g.Go(func() error {
			res, ok := b.icons.Enrich(ctx, url)
			for _, rec := range group {
				rec.icon, rec.hasIcon = res, ok
			}
			return nil
		})
	}

	var jobs []photoJob
	for _, rec := range recs {
		if !b.opts.EnrichPhotos || rec.item == nil {
			continue
		}
		photos, ok := rec.item.Payload.(catalog.Photos)
		if !ok || len(photos) == 0 {
			continue
		}
		job := photoJob{rec: rec, urls: photos, hashes: make([]string, len(photos))}
		for i, url := range photos {
			g.Go(func() error {
				if h, ok := b.icons.PhotoBlurhash(ctx, url); ok {
					job.hashes[i] = h
				}
				return nil
			})
		}
		jobs = append(jobs, job)
	}
	_ = g.Wait()

	for _, job := range jobs {
		for i, url := range job.urls {
			if job.hashes[i] == "" {
				continue
			}
			if job.rec.photoHashes == nil {
				job.rec.photoHashes = make(map[string]string)
			}
			job.rec.photoHashes[url] = job.hashes[i]
		}
	}
}
