package build

import (
	"github.com/blackwell-systems/marketbuild/internal/catalog"
	"github.com/blackwell-systems/marketbuild/internal/history"
	"github.com/blackwell-systems/marketbuild/internal/manifest"
	"golang.org/x/text/language"
)

func (b *Builder) fallbackTimes() history.Timestamps {
	ts := history.Format(b.now())
	return history.Timestamps{CreatedAt: ts, UpdatedAt: ts, Fallback: true}
}

func (b *Builder) keywords(item *catalog.Item) []string {
	if b.opts.KeywordMode == KeywordsExtracted {
		return catalog.ExtractTags(item.Name, item.Description)
	}
	if len(item.Keywords) == 0 {
		return nil
	}
	return catalog.NormalizeKeywords(item.Keywords)
}

// checkLanguage warns about language values that are not BCP 47 tags.
// The value is passed through unchanged either way.
func (b *Builder) checkLanguage(rec *record) {
	lang := rec.item.Language
	if lang == "" {
		return
	}
	if _, err := language.Parse(lang); err != nil {
		b.logger.Warn("unrecognised language tag", "canonical_path", rec.canonical, "language", lang, "error", err)
	}
}

func (b *Builder) enrichment(rec *record, slug string) catalog.Enrichment {
	return catalog.Enrichment{
		ID:              rec.id,
		CanonicalPath:   rec.canonical,
		Slug:            slug,
		CreatedAt:       rec.times.CreatedAt,
		UpdatedAt:       rec.times.UpdatedAt,
		Colour:          rec.icon.Colour,
		Blurhash:        rec.icon.Blurhash,
		IsDark:          rec.icon.IsDark,
		IsLight:         rec.icon.IsLight,
		PhotoBlurhashes: rec.photoHashes,
	}
}

func (b *Builder) itemSummary(rec *record) *manifest.Summary {
	item := rec.item
	b.checkLanguage(rec)
	var tags []string
	if len(item.CategoryTags) > 0 {
		tags = catalog.NormalizeKeywords(item.CategoryTags)
	}
	return &manifest.Summary{
		ID:            rec.id,
		Name:          rec.stem,
		DisplayName:   item.Name,
		Type:          rec.category.Type(),
		CanonicalPath: rec.canonical,
		Slug:          catalog.Slugify(item.Name),
		Description:   item.Description,
		Author:        item.Author,
		Language:      item.Language,
		IconURL:       item.IconURL,
		Colour:        rec.icon.Colour,
		Blurhash:      rec.icon.Blurhash,
		IsDark:        rec.icon.IsDark,
		IsLight:       rec.icon.IsLight,
		CreatedAt:     rec.times.CreatedAt,
		UpdatedAt:     rec.times.UpdatedAt,
		ItemCount:     item.Payload.Len(),
		Keywords:      b.keywords(item),
		CategoryTags:  tags,
		Category:      rec.category,
		SearchText:    catalog.SearchText(item.Name, item.Description, item.Author, rec.canonical, item.Language),
	}
}

// collectionSummary resolves the references of rec against cat and
// back-links the collection onto every referenced item.
func (b *Builder) collectionSummary(rec *record, cat *manifest.Catalog) (*manifest.CollectionSummary, error) {
	col := rec.collection
	refs := make([]string, 0, len(col.Items))
	ids := make([]string, 0, len(col.Items))
	for _, ref := range col.Items {
		s, ok := cat.Lookup(ref)
		if !ok {
			return nil, &DanglingReferenceError{Collection: rec.canonical, Reference: ref}
		}
		refs = append(refs, ref)
		ids = append(ids, s.ID)
		if !contains(s.Collections, rec.stem) {
			s.Collections = append(s.Collections, rec.stem)
		}
	}
	return &manifest.CollectionSummary{
		ID:            rec.id,
		Name:          rec.stem,
		DisplayName:   col.Name,
		Type:          col.Kind(),
		CanonicalPath: rec.canonical,
		Slug:          catalog.Slugify(col.Name),
		Description:   col.Description,
		IconURL:       col.IconURL,
		Colour:        rec.icon.Colour,
		Blurhash:      rec.icon.Blurhash,
		CreatedAt:     rec.times.CreatedAt,
		UpdatedAt:     rec.times.UpdatedAt,
		Items:         refs,
		ItemIDs:       ids,
		SearchText:    catalog.SearchText(col.Name, col.Description, catalog.CollectionAuthor, rec.canonical, ""),
	}, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
