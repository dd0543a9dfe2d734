package build

import (
	"context"
	"fmt"
	"time"

	"github.com/blackwell-systems/marketbuild/internal/catalog"
	"github.com/blackwell-systems/marketbuild/internal/history"
	"github.com/blackwell-systems/marketbuild/internal/manifest"
	"github.com/blackwell-systems/marketbuild/internal/registry"
)

// Result summarises one run.
type Result struct {
	BuildID     string
	OutputDir   string
	Items       map[catalog.Category]int
	Collections int
	Drafts      int
	// IDs is the number of stable ids assigned, items and collections.
	IDs int

	HistoryHits     int
	HistoryResolved int
	IconsEnriched   int
	Elapsed         time.Duration

	Catalog *manifest.Catalog
}

// TotalItems is the number of built items across categories.
func (r *Result) TotalItems() int {
	n := 0
	for _, c := range r.Items {
		n += c
	}
	return n
}

func newResult(src *source, reg *registry.Registry, buildID string) *Result {
	res := &Result{
		BuildID: buildID,
		Items:   make(map[catalog.Category]int),
		IDs:     reg.Len(),
	}
	for _, rec := range src.items {
		res.Items[rec.category]++
	}
	res.Collections = len(src.collections)
	res.Drafts = src.drafts
	return res
}

// Check runs the load phase only: validation, id assignment and
// collection references. Nothing is fetched or written.
func (b *Builder) Check(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := b.now()
	reg := registry.New()
	src, err := b.load(reg)
	if err != nil {
		return nil, err
	}
	res := newResult(src, reg, b.opts.BuildID)
	res.Elapsed = b.now().Sub(start)
	return res, nil
}

// Run executes the full pipeline. On error the previous output is left
// untouched; on success it is replaced in one rename.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	start := b.now()
	reg := registry.New()

	src, err := b.load(reg)
	if err != nil {
		return nil, err
	}
	b.logger.Info("sources loaded", "items", len(src.items), "collections", len(src.collections), "drafts", src.drafts)

	all := make([]*record, 0, len(src.items)+len(src.collections))
	all = append(all, src.items...)
	all = append(all, src.collections...)

	res := newResult(src, reg, b.opts.BuildID)
	res.HistoryHits = b.resolveHistory(ctx, all)
	res.HistoryResolved = len(all) - res.HistoryHits
	b.enrichIcons(ctx, all)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, rec := range all {
		if rec.hasIcon {
			res.IconsEnriched++
		}
	}

	cat := manifest.NewCatalog()
	cat.Version = b.opts.Version
	cat.BuildID = b.opts.BuildID
	cat.GeneratedAt = history.Format(b.now())
	cat.RecentCount = b.opts.RecentCount
	cat.IDIndex = reg.Index()

	for _, rec := range src.items {
		cat.Items[rec.category][rec.stem] = b.itemSummary(rec)
	}
	for _, rec := range src.collections {
		cs, err := b.collectionSummary(rec, cat)
		if err != nil {
			return nil, err
		}
		cat.Collections[rec.stem] = cs
	}
	res.Catalog = cat

	if b.opts.DryRun {
		res.Elapsed = b.now().Sub(start)
		return res, nil
	}

	if err := b.write(src, cat); err != nil {
		return nil, err
	}
	res.OutputDir = b.opts.OutputDir
	res.Elapsed = b.now().Sub(start)
	b.logger.Info("build complete", "output", b.opts.OutputDir, "items", res.TotalItems(), "collections", res.Collections)
	return res, nil
}

func (b *Builder) write(src *source, cat *manifest.Catalog) (err error) {
	staging, err := b.prepareStaging()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = b.fs.RemoveAll(staging)
		}
	}()

	for _, rec := range src.items {
		s := cat.Items[rec.category][rec.stem]
		if err := b.writeRecord(staging, rec, b.enrichment(rec, s.Slug)); err != nil {
			return err
		}
	}
	for _, rec := range src.collections {
		s := cat.Collections[rec.stem]
		if err := b.writeRecord(staging, rec, b.enrichment(rec, s.Slug)); err != nil {
			return err
		}
	}
	if err := manifest.WriteAll(b.fs, staging, cat); err != nil {
		return err
	}
	if err := swap(b.fs, staging, b.opts.OutputDir); err != nil {
		return fmt.Errorf("publishing output: %w", err)
	}
	return nil
}
