package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/blackwell-systems/marketbuild/internal/manifest"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type tagEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// sortTags orders postings by size descending, then name ascending.
func sortTags(postings map[string][]string) []tagEntry {
	entries := make([]tagEntry, 0, len(postings))
	for name, ids := range postings {
		entries = append(entries, tagEntry{name, len(ids)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

func newTagsCmd() *cobra.Command {
	var (
		categoryTags bool
		jsonOut      bool
	)

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List keywords with item counts",
		Long:  "List keywords (or category tags) from search-index.json with the number of items carrying each.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := manifest.ReadSearchIndex(appFS, cfg.Output.Dir)
			if err != nil {
				return fmt.Errorf("no build found (run 'marketbuild build' first): %w", err)
			}
			postings := idx.Keywords
			kind := "keywords"
			if categoryTags {
				postings = idx.CategoryTags
				kind = "category tags"
			}
			return printTags(os.Stdout, sortTags(postings), kind, jsonOut)
		},
	}

	cmd.Flags().BoolVar(&categoryTags, "category-tags", false, "List category tags instead of keywords")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")

	return cmd
}

func printTags(w io.Writer, entries []tagEntry, kind string, jsonOut bool) error {
	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintf(w, "No %s found.\n", kind)
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(w, "  %-24s %s\n",
			color.CyanString(e.Name),
			color.HiBlackString("(%d)", e.Count),
		)
	}
	fmt.Fprintf(w, "\n%d %s\n", len(entries), kind)
	return nil
}
