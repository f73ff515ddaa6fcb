package cli

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"piper/internal/svgdoc"
)

func newCheckCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file.svg]...",
		Short: "Validate device illustrations",
		Long: `Check that illustrations have the Device, Buttons and LEDs layers, a size
within range, and a leader and path for every button and LED. Without
arguments every illustration in the svg directory is checked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			out := cmd.OutOrStdout()

			type target struct {
				name string
				load func() (*svgdoc.Document, error)
			}
			var targets []target
			if len(args) > 0 {
				for _, path := range args {
					targets = append(targets, target{path, func() (*svgdoc.Document, error) { return svgdoc.LoadFile(path) }})
				}
			} else {
				fsys, err := svgFS(g.svgDir)
				if err != nil {
					return err
				}
				names, err := fs.Glob(fsys, "*.svg")
				if err != nil {
					return err
				}
				for _, name := range names {
					targets = append(targets, target{name, func() (*svgdoc.Document, error) { return svgdoc.LoadFS(fsys, name) }})
				}
			}

			var failed []string
			for _, t := range targets {
				doc, err := t.load()
				if err != nil {
					logger.Error("cannot load illustration", "file", t.name, "err", err)
					failed = append(failed, filepath.Base(t.name))
					continue
				}
				issues := svgdoc.Check(doc)
				printIssues(out, t.name, issues)
				if svgdoc.HasErrors(issues) {
					failed = append(failed, filepath.Base(t.name))
				}
				logger.Debug("checked", "file", t.name, "issues", len(issues))
			}

			if len(failed) > 0 {
				return fmt.Errorf("%d of %d illustrations failed: %s", len(failed), len(targets), strings.Join(failed, ", "))
			}
			return nil
		},
	}
}
