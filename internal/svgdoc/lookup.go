package svgdoc

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// LookupFile is the name of the device table inside an illustration directory.
	LookupFile = "svg-lookup.toml"
	// FallbackSVG is used for any device without an entry.
	FallbackSVG = "fallback.svg"
)

// DeviceEntry binds a set of device models to an illustration.
type DeviceEntry struct {
	Name  string   `toml:"name"`
	SVG   string   `toml:"svg"`
	Match []string `toml:"match"`
}

// Lookup resolves device models to illustrations stored in a filesystem.
type Lookup struct {
	fsys    fs.FS
	Devices []DeviceEntry `toml:"device"`
}

// LoadLookup reads the device table from fsys. A missing table is not an
// error; every device then resolves to the fallback illustration.
func LoadLookup(fsys fs.FS) (*Lookup, error) {
	l := &Lookup{fsys: fsys}
	data, err := fs.ReadFile(fsys, LookupFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return l, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", LookupFile, err)
	}
	if err := toml.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", LookupFile, err)
	}
	for i, d := range l.Devices {
		if d.SVG == "" {
			return nil, fmt.Errorf("%s: device %d (%q) has no svg", LookupFile, i, d.Name)
		}
	}
	return l, nil
}

// matchKey normalizes a "bus:vid:pid:version" model for matching. The
// version is dropped when it is zero, which is the case for nearly every
// device. ok is false for models that are not on a usb or bluetooth bus.
func matchKey(model string) (string, bool) {
	if !strings.HasPrefix(model, "usb:") && !strings.HasPrefix(model, "bluetooth:") {
		return "", false
	}
	parts := strings.Split(model, ":")
	if len(parts) != 4 {
		return "", false
	}
	version, err := strconv.ParseUint(parts[3], 16, 32)
	if err != nil {
		return "", false
	}
	if version == 0 {
		return strings.Join(parts[:3], ":"), true
	}
	return model, true
}

// Find returns the entry for model, if any.
func (l *Lookup) Find(model string) (DeviceEntry, bool) {
	key, ok := matchKey(model)
	if !ok {
		return DeviceEntry{}, false
	}
	for _, d := range l.Devices {
		if slices.Contains(d.Match, key) {
			return d, true
		}
	}
	return DeviceEntry{}, false
}

// Resolve returns the illustration file name for model.
func (l *Lookup) Resolve(model string) string {
	if d, ok := l.Find(model); ok {
		return d.SVG
	}
	return FallbackSVG
}

// Open loads the illustration for model and returns it with its file name.
func (l *Lookup) Open(model string) (*Document, string, error) {
	name := l.Resolve(model)
	doc, err := LoadFS(l.fsys, name)
	if err != nil {
		return nil, name, err
	}
	return doc, name, nil
}
