package catalog

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxExtractedTags bounds the result of ExtractTags.
const MaxExtractedTags = 10

// SearchText builds the lowercase substring-search corpus for an item:
// name, description, author, the canonical path with slashes replaced by
// spaces, and the language (possibly empty), joined by single spaces.
func SearchText(name, description, author, canonicalPath, language string) string {
	parts := []string{
		name,
		description,
		author,
		strings.ReplaceAll(canonicalPath, "/", " "),
		language,
	}
	return strings.ToLower(strings.Join(parts, " "))
}

var punctuation = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "any": true, "can": true,
	"had": true, "her": true, "was": true, "one": true, "our": true,
	"out": true, "has": true, "have": true, "his": true, "how": true,
	"its": true, "may": true, "new": true, "now": true, "who": true,
	"did": true, "get": true, "use": true, "with": true, "this": true,
	"that": true, "from": true, "they": true, "will": true, "been": true,
	"your": true, "what": true, "when": true, "into": true, "more": true,
	"some": true, "than": true, "them": true, "then": true, "these": true,
	"about": true, "which": true, "their": true, "there": true, "would": true,
	"also": true, "each": true, "just": true, "like": true, "over": true,
	"such": true, "very": true, "were": true, "where": true, "while": true,
}

// ExtractTags derives up to MaxExtractedTags keywords from free text:
// tokens longer than two characters that are not stop words, ordered by
// descending frequency with ties kept in first-occurrence order.
func ExtractTags(name, description string) []string {
	text := strings.ToLower(name + " " + description)
	text = punctuation.ReplaceAllString(text, "")

	counts := make(map[string]int)
	var order []string
	for _, tok := range strings.Fields(text) {
		if utf8.RuneCountInString(tok) <= 2 || stopWords[tok] {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	// Stable insertion sort keeps first-occurrence order among equal counts.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && counts[order[j]] > counts[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	if len(order) > MaxExtractedTags {
		order = order[:MaxExtractedTags]
	}
	return order
}

// NormalizeKeywords lowercases and trims curated keywords, dropping empty
// and repeated entries while keeping the original order.
func NormalizeKeywords(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, k := range in {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
