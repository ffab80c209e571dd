package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fkoller/lictally/pkg/buildinfo"
)

// Execute runs the lictally CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with its subcommands, configures
// logging based on the --verbose flag, and executes the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "lictally",
		Short:        "Lictally inventories dependency licenses across source trees",
		Long:         `Lictally discovers dependency manifests under configured locations, extracts declared package names, versions, and licenses per ecosystem, and produces an aggregated license report with a descending-frequency summary.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newScanCmd())

	return root.ExecuteContext(ctx)
}
