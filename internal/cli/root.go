package cli

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"piper/internal/version"
)

// globalOpts are the persistent flags shared by every command.
type globalOpts struct {
	verbose bool
	svgDir  string
}

// Execute runs the piper CLI and returns an error if any command fails.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	opts := &globalOpts{}

	root := &cobra.Command{
		Use:          appName,
		Short:        "Piper configures gaming mice",
		Long:         `Piper shows an illustration of a mouse with its buttons and LEDs laid out around it, and checks and renders device illustrations.`,
		Version:      version.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if opts.verbose {
				level = log.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(appName + " " + version.String() + "\n")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&opts.svgDir, "svg-dir", "", "directory with device illustrations and svg-lookup.toml (default: built in)")

	root.AddCommand(newViewCmd(opts))
	root.AddCommand(newRenderCmd(opts))
	root.AddCommand(newCheckCmd(opts))
	root.AddCommand(newLookupCmd(opts))

	return root
}
