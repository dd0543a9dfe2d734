package app

import (
	"fmt"
	"io"
	"os"

	"github.com/blackwell-systems/marketbuild/internal/catalog"
	"github.com/blackwell-systems/marketbuild/internal/manifest"
	"github.com/charmbracelet/x/ansi"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const displayNameWidth = 32

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show statistics of the last build",
		Long:  "Read stats.json from the output directory and print item counts and the most recent items.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := manifest.ReadStats(appFS, cfg.Output.Dir)
			if err != nil {
				return fmt.Errorf("no build found (run 'marketbuild build' first): %w", err)
			}
			renderStats(os.Stdout, st)
			return nil
		},
	}
}

func renderStats(w io.Writer, st *manifest.Stats) {
	header("Built %s (build %s)", st.GeneratedAt, st.BuildID)

	counts := table.NewWriter()
	counts.SetOutputMirror(w)
	counts.SetStyle(table.StyleRounded)
	counts.AppendHeader(table.Row{"Category", "Items"})
	for _, cat := range catalog.ItemCategories {
		counts.AppendRow(table.Row{cat, st.Counts[string(cat)]})
	}
	counts.AppendSeparator()
	counts.AppendRow(table.Row{"collections", st.Collections})
	counts.AppendRow(table.Row{"curators", st.Curators})
	counts.AppendFooter(table.Row{"total items", st.TotalItems})
	counts.Render()

	if len(st.Recent) == 0 {
		return
	}
	fmt.Fprintln(w)
	recent := table.NewWriter()
	recent.SetOutputMirror(w)
	recent.SetStyle(table.StyleRounded)
	recent.AppendHeader(table.Row{"Created", "Name", "Type", "Author", "ID"})
	for _, r := range st.Recent {
		recent.AppendRow(table.Row{
			r.CreatedAt,
			ansi.Truncate(r.DisplayName, displayNameWidth, "…"),
			r.Type,
			r.Author,
			r.ID,
		})
	}
	recent.Render()
}
