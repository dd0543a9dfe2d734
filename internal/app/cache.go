package app

import (
	"fmt"
	"io"
	"os"

	"github.com/blackwell-systems/marketbuild/internal/cache"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the build cache",
		Long:  "Inspect, prune or delete the cached history timestamps and icon enrichments. The cache is safe to delete at any time.",
	}

	cmd.AddCommand(
		newCacheInfoCmd(),
		newCacheClearCmd(),
		newCachePruneCmd(),
	)

	return cmd
}

func cacheManager() *cache.Manager {
	return cache.New(appFS, cfg.Cache.Dir)
}

func openStore(mgr *cache.Manager, ns cache.Namespace) *cache.Store {
	return mgr.Open(ns, cache.WithMaxAge(cfg.Cache.MaxAge), cache.WithLogger(logger))
}

func parseNamespaces(name string) ([]cache.Namespace, error) {
	if name == "" {
		return cache.Namespaces, nil
	}
	for _, ns := range cache.Namespaces {
		if string(ns) == name {
			return []cache.Namespace{ns}, nil
		}
	}
	return nil, fmt.Errorf("unknown cache namespace %q (want history or icons)", name)
}

func newCacheInfoCmd() *cobra.Command {
	var showKeys bool

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show cache statistics",
		Example: `  marketbuild cache info
  marketbuild cache info --keys`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printCacheInfo(os.Stdout, cacheManager(), showKeys)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showKeys, "keys", false, "List the cached keys of each namespace")

	return cmd
}

func printCacheInfo(w io.Writer, mgr *cache.Manager, showKeys bool) {
	fmt.Fprintln(w, color.CyanString("Cache: %s", cfg.Cache.Dir))
	for _, ns := range cache.Namespaces {
		if !mgr.Exists(ns) {
			fmt.Fprintf(w, "  %-8s %s\n", ns, color.HiBlackString("empty"))
			continue
		}
		s := openStore(mgr, ns)
		if err := s.Load(); err != nil {
			warn("%s: %v", ns, err)
			continue
		}
		total, expired := s.Stats()
		fmt.Fprintf(w, "  %-8s %d entries, %d expired, %s\n", ns, total, expired, humanBytes(mgr.Size(ns)))
		if showKeys {
			for _, k := range s.Keys() {
				fmt.Fprintf(w, "    %s\n", k)
			}
		}
	}
	fmt.Fprintf(w, "\nEntries expire after %s.\n", cfg.Cache.MaxAge)
}

func newCacheClearCmd() *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete cache files",
		Example: `  marketbuild cache clear
  marketbuild cache clear --namespace icons`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			namespaces, err := parseNamespaces(namespace)
			if err != nil {
				return err
			}
			mgr := cacheManager()
			for _, ns := range namespaces {
				if !mgr.Exists(ns) {
					continue
				}
				if err := mgr.Remove(ns); err != nil {
					return fmt.Errorf("removing %s cache: %w", ns, err)
				}
				ok("Cleared %s cache", ns)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&namespace, "namespace", "", "Only clear this namespace (history or icons)")
	_ = cmd.RegisterFlagCompletionFunc("namespace", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		out := make([]string, len(cache.Namespaces))
		for i, ns := range cache.Namespaces {
			out[i] = string(ns)
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func newCachePruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Drop expired cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := cacheManager()
			for _, ns := range cache.Namespaces {
				if !mgr.Exists(ns) {
					continue
				}
				s := openStore(mgr, ns)
				if err := s.Load(); err != nil {
					warn("%s: %v", ns, err)
					continue
				}
				n := s.CleanExpired()
				if err := s.Save(); err != nil {
					return fmt.Errorf("saving %s cache: %w", ns, err)
				}
				ok("Pruned %d expired %s entries", n, ns)
			}
			return nil
		},
	}
}
