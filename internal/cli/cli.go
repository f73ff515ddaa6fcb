// Package cli implements the piper command-line interface.
//
// The default command opens the configuration window. The other commands
// work on device illustrations without a display:
//   - render: draw an illustration with its controls laid out to a PNG
//   - check: validate illustrations against the layer and leader conventions
//   - lookup: show which illustration a device model resolves to
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// passed through context.Context.
package cli

import (
	"fmt"
	"io/fs"
	"os"

	"piper/data"
)

const appName = "piper"

// svgFS returns the illustration directory: dir when set, otherwise the
// illustrations embedded in the binary.
func svgFS(dir string) (fs.FS, error) {
	if dir == "" {
		return fs.Sub(data.SVGs, "svgs")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("svg directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("svg directory: %s is not a directory", dir)
	}
	return os.DirFS(dir), nil
}
