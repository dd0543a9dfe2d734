package app

import (
	"fmt"

	"github.com/blackwell-systems/marketbuild/internal/config"
	"github.com/blackwell-systems/marketbuild/internal/util"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Write marketbuild.yml (or the file named by --config) with every setting at
its default value. An existing file is left alone unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := config.Resolve(flagConfig)
			if util.Exists(appFS, path) && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(config.Default(), path); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			ok("Wrote %s", path)
			fmt.Println()
			fmt.Println("Next:")
			fmt.Printf("  %s\n", color.CyanString("marketbuild validate"))
			fmt.Printf("  %s\n", color.CyanString("marketbuild build"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}
