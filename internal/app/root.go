package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/blackwell-systems/marketbuild/internal/config"
	"github.com/blackwell-systems/marketbuild/internal/logging"
	"github.com/blackwell-systems/marketbuild/internal/util"
	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger *slog.Logger
	appFS  afero.Fs = afero.NewOsFs()

	appVersion = "dev"

	flagNoColor   bool
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string
)

// SetVersion records the version stamped into manifests and printed by
// the version command.
func SetVersion(v string) {
	if v != "" {
		appVersion = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "marketbuild",
	Short: "Build marketplace manifests from authored item files",
	Long: `marketbuild turns a tree of authored JSON items (photo packs, quote packs,
preset settings) and collections into enriched copies plus the aggregate
manifests a marketplace client reads.

Builds are all-or-nothing: a validation failure, duplicate id or dangling
collection reference aborts the build and leaves the previous output alone.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ./marketbuild.yml or $MARKETBUILD_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format: text or json")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		colored := util.InitColor(flagNoColor)

		// init writes the config file, so it must run without one.
		if cmd.Name() == "init" || cmd.Name() == "version" {
			cfg = config.Default()
			logger = logging.NewNop()
			return nil
		}

		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if flagLogLevel != "" {
			cfg.Log.Level = flagLogLevel
		}
		if flagLogFormat != "" {
			cfg.Log.Format = flagLogFormat
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logger, err = logging.New(logging.Options{
			Level:   cfg.Log.Level,
			Format:  cfg.Log.Format,
			NoColor: !colored || !util.IsTerminal(os.Stderr),
			Writer:  os.Stderr,
		})
		return err
	}

	rootCmd.AddCommand(
		newBuildCmd(),
		newValidateCmd(),
		newCacheCmd(),
		newStatsCmd(),
		newTagsCmd(),
		newInitCmd(),
		newVersionCmd(),
	)
}
