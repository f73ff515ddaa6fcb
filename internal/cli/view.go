package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	fyneapp "fyne.io/fyne/v2/app"

	"piper/internal/app"
	"piper/internal/mousemap"
	"piper/ui/mainwindow"
	"piper/ui/prefs"
)

const appID = "org.freedesktop.Piper"

type viewOpts struct {
	file    string
	watch   bool
	spacing float64
}

func newViewCmd(g *globalOpts) *cobra.Command {
	opts := viewOpts{watch: true, spacing: mousemap.DefaultSpacing}

	cmd := &cobra.Command{
		Use:   "view [model]",
		Short: "Open the configuration window for a device",
		Long: `Open the configuration window. The device model (bus:vid:pid:version)
selects the illustration; without one the last model is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			p := prefs.Load()

			svgDir := g.svgDir
			if svgDir == "" {
				svgDir = p.String(prefs.KeySVGDir)
			}
			if cmd.Flags().Changed("spacing") {
				p.SetFloat(prefs.KeySpacing, opts.spacing)
			}

			state, err := app.NewState(svgDir, logger)
			if err != nil {
				return err
			}

			model := p.String(prefs.KeyLastModel)
			if len(args) == 1 {
				model = args[0]
			}
			if opts.file != "" {
				err = state.LoadFile(opts.file)
			} else {
				err = state.LoadDevice(model)
			}
			if err != nil {
				return err
			}

			fyneApp := fyneapp.NewWithID(appID)
			fyneApp.Settings().SetTheme(&app.PiperTheme{})
			win := mainwindow.New(fyneApp, state, p, logger)

			if opts.watch {
				if w := startWatcher(state, logger); w != nil {
					defer w.Stop()
				}
			}

			win.ShowAndRun()
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "show this SVG instead of looking up a model")
	cmd.Flags().BoolVar(&opts.watch, "watch", opts.watch, "reload the illustration when its file changes")
	cmd.Flags().Float64Var(&opts.spacing, "spacing", opts.spacing, "gap between illustration and controls")
	return cmd
}

// startWatcher reloads the device whenever its illustration changes on disk.
// Built-in illustrations are not watched.
func startWatcher(state *app.State, logger *log.Logger) *app.Watcher {
	d, ok := state.Device()
	if !ok || d.Path == "" {
		return nil
	}
	w, err := app.NewWatcher(d.Path, app.DefaultWatchInterval)
	if err != nil {
		logger.Warn("cannot watch illustration", "path", d.Path, "err", err)
		return nil
	}
	w.OnChange(func() {
		logger.Info("illustration changed, reloading", "path", w.Path())
		_ = state.Reload()
	})
	w.Start()
	logger.Debug("watching illustration", "path", w.Path())
	return w
}
