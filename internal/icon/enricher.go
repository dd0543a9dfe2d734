package icon

import (
	"context"
	"image"
	"log/slog"

	"github.com/blackwell-systems/marketbuild/internal/cache"
	"github.com/blackwell-systems/marketbuild/internal/logging"
)

// photoKeyPrefix separates per-photo blurhash entries from icon entries
// in the shared icon namespace.
const photoKeyPrefix = "photo:"

// Options tunes colour and blurhash extraction.
type Options struct {
	Saturation  float64
	ThumbSize   int
	ComponentsX int
	ComponentsY int
}

// DefaultOptions returns the standard extraction settings.
func DefaultOptions() Options {
	return Options{
		Saturation:  DefaultSaturation,
		ThumbSize:   DefaultThumbSize,
		ComponentsX: DefaultComponentsX,
		ComponentsY: DefaultComponentsY,
	}
}

// Result is the enrichment derived from one icon.
type Result struct {
	Colour   string
	Blurhash string
	IsDark   *bool
	IsLight  *bool
}

// Enricher turns icon URLs into colour and blurhash data, consulting the
// icon cache namespace before fetching.
type Enricher struct {
	fetcher Fetcher
	opts    Options
	store   *cache.Store
	logger  *slog.Logger
}

// NewEnricher creates an Enricher. store may be nil to disable caching.
func NewEnricher(fetcher Fetcher, opts Options, store *cache.Store, logger *slog.Logger) *Enricher {
	return &Enricher{
		fetcher: fetcher,
		opts:    opts,
		store:   store,
		logger:  logging.Component(logger, "icon"),
	}
}

// Enrich returns the colour data for url. It reports false when the image
// could not be fetched or decoded; the error is logged, never returned.
func (e *Enricher) Enrich(ctx context.Context, url string) (Result, bool) {
	if url == "" {
		return Result{}, false
	}
	fp := cache.URLFingerprint(url)
	if e.store != nil {
		if entry, hit := e.store.Get(url, fp); hit {
			return Result{Colour: entry.Colour, Blurhash: entry.Blurhash, IsDark: entry.IsDark, IsLight: entry.IsLight}, true
		}
	}

	img, err := e.load(ctx, url)
	if err != nil {
		e.logger.Warn("icon enrichment failed", "url", url, "error", err)
		return Result{}, false
	}

	var res Result
	if c, found := DominantColour(img, e.opts.Saturation); found {
		dark := IsDark(c)
		light := !dark
		res.Colour = Hex(c)
		res.IsDark = &dark
		res.IsLight = &light
	}
	hash, err := Blurhash(img, e.opts.ThumbSize, e.opts.ComponentsX, e.opts.ComponentsY)
	if err != nil {
		e.logger.Warn("blurhash encoding failed", "url", url, "error", err)
	} else {
		res.Blurhash = hash
	}
	if res.Colour == "" && res.Blurhash == "" {
		return Result{}, false
	}

	if e.store != nil {
		e.store.Set(url, cache.Entry{
			ContentHash: fp,
			Colour:      res.Colour,
			Blurhash:    res.Blurhash,
			IsDark:      res.IsDark,
			IsLight:     res.IsLight,
		})
	}
	return res, true
}

// PhotoBlurhash returns the blurhash of a single photo.
func (e *Enricher) PhotoBlurhash(ctx context.Context, url string) (string, bool) {
	if url == "" {
		return "", false
	}
	key := photoKeyPrefix + url
	fp := cache.URLFingerprint(url)
	if e.store != nil {
		if entry, hit := e.store.Get(key, fp); hit && entry.Blurhash != "" {
			return entry.Blurhash, true
		}
	}

	img, err := e.load(ctx, url)
	if err != nil {
		e.logger.Warn("photo blurhash failed", "url", url, "error", err)
		return "", false
	}
	hash, err := Blurhash(img, e.opts.ThumbSize, e.opts.ComponentsX, e.opts.ComponentsY)
	if err != nil {
		e.logger.Warn("photo blurhash failed", "url", url, "error", err)
		return "", false
	}
	if e.store != nil {
		e.store.Set(key, cache.Entry{ContentHash: fp, Blurhash: hash})
	}
	return hash, true
}

func (e *Enricher) load(ctx context.Context, url string) (image.Image, error) {
	data, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
