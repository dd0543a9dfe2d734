package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blackwell-systems/marketbuild/internal/build"
	"github.com/blackwell-systems/marketbuild/internal/catalog"
	"github.com/spf13/cobra"
)

func newBuildCmd() *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build enriched items and manifests",
		Long: `Build validates every item and collection, assigns stable ids, resolves
timestamps from git history, extracts icon colours and blurhashes, and
writes enriched copies plus manifest.json, manifest-lite.json,
search-index.json and stats.json.

The new output is written beside the old one and swapped in only when
the whole build succeeds.`,
		Example: `  marketbuild build
  marketbuild build --no-cache --concurrency 4
  marketbuild build --dry-run --keywords extracted`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := runBuild(cmd.Context(), flags)
			if err != nil {
				return err
			}
			fmt.Println(renderSummary(res, flags.dryRun))
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "Ignore the build cache and do not update it")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Run the pipeline without writing output or cache")
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", 0, "Maximum concurrent history and icon lookups")
	cmd.Flags().StringVar(&flags.keywords, "keywords", "", "Keyword source: curated or extracted")
	_ = cmd.RegisterFlagCompletionFunc("keywords", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{string(build.KeywordsCurated), string(build.KeywordsExtracted)}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runBuild(ctx context.Context, flags buildFlags) (*build.Result, error) {
	if err := flags.validate(); err != nil {
		return nil, err
	}
	opts := flags.options()

	if !flags.dryRun {
		lock, err := lockOutput(opts.OutputDir)
		if err != nil {
			return nil, err
		}
		defer func() { _ = lock.Unlock() }()
	}

	c := openCaches(flags.noCache)
	b := build.New(appFS, opts,
		build.WithHistory(newResolver(opts.Concurrency)),
		build.WithHistoryCache(c.history),
		build.WithIcons(newEnricher(c.icons)),
		build.WithLogger(logger),
	)

	res, err := b.Run(ctx)
	// Entries are per-file derivations, valid whether or not the build
	// as a whole succeeded.
	if !flags.dryRun {
		c.save()
	}
	if err != nil {
		if build.IsFatal(err) {
			return nil, fmt.Errorf("build aborted: %w", err)
		}
		return nil, err
	}
	return res, nil
}

func renderSummary(res *build.Result, dryRun bool) string {
	title := "Build complete"
	if dryRun {
		title = "Dry run complete"
	}

	var b strings.Builder
	b.WriteString(styleTitle.Render(title))
	b.WriteString("\n\n")
	row := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", styleLabel.Render(fmt.Sprintf("%-16s", label)), styleValue.Render(value))
	}
	for _, cat := range catalog.ItemCategories {
		row(string(cat), fmt.Sprint(res.Items[cat]))
	}
	row("collections", fmt.Sprint(res.Collections))
	row("drafts skipped", fmt.Sprint(res.Drafts))
	row("stable ids", fmt.Sprint(res.IDs))
	row("history cached", fmt.Sprintf("%d of %d", res.HistoryHits, res.HistoryHits+res.HistoryResolved))
	row("icons enriched", fmt.Sprint(res.IconsEnriched))
	row("elapsed", res.Elapsed.Round(time.Millisecond).String())
	row("build id", res.BuildID)
	if res.OutputDir != "" {
		row("output", res.OutputDir)
	}
	return styleBox.Render(strings.TrimRight(b.String(), "\n"))
}
