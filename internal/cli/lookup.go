package cli

import (
	"github.com/spf13/cobra"

	"piper/internal/svgdoc"
)

func newLookupCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <model>...",
		Short: "Show the illustration a device model resolves to",
		Long: `Resolve device models of the form bus:vid:pid:version (for example
usb:046d:c07d:0) against svg-lookup.toml. Unknown models use the fallback
illustration.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, err := svgFS(g.svgDir)
			if err != nil {
				return err
			}
			table, err := svgdoc.LoadLookup(fsys)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, model := range args {
				entry, ok := table.Find(model)
				name := entry.Name
				if !ok {
					name = "unknown device"
				}
				printKeyValue(out, model, name)
				printFile(out, table.Resolve(model))
			}
			return nil
		},
	}
}
