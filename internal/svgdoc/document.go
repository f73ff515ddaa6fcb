// Package svgdoc loads device illustrations and answers geometry and
// rendering queries about their named elements.
//
// A Document is immutable once loaded. Element lookups accept identifiers
// with or without a leading '#'.
package svgdoc

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"

	"piper/pkg/geometry"

	"github.com/srwiley/oksvg"
)

var (
	// ErrNotSVG is returned when the document root is not an svg element.
	ErrNotSVG = errors.New("svgdoc: root element is not <svg>")
	// ErrNoSize is returned when no positive intrinsic size can be determined.
	ErrNoSize = errors.New("svgdoc: document has no intrinsic size")
	// ErrNoElement is returned when a named element does not exist.
	ErrNoElement = errors.New("svgdoc: no such element")
)

// Element describes a named element of the document.
type Element struct {
	ID    string
	Tag   string
	Attrs map[string]string
}

// Style returns the element's inline style attribute.
func (e Element) Style() string {
	return e.Attrs["style"]
}

// Document is a parsed SVG with an id index.
type Document struct {
	root    *node
	ids     map[string]*node
	order   []string
	defs    []*node
	size    geometry.Size
	viewBox geometry.Rect

	mu     sync.Mutex
	bounds map[string]boundsEntry
}

type boundsEntry struct {
	rect geometry.Rect
	ok   bool
}

// Load parses an SVG document from data.
func Load(data []byte) (*Document, error) {
	root, err := parseTree(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse svg: %w", err)
	}
	if root.name.Local != "svg" {
		return nil, fmt.Errorf("%w: found <%s>", ErrNotSVG, qualified(root.name))
	}

	d := &Document{
		root:   root,
		ids:    make(map[string]*node),
		bounds: make(map[string]boundsEntry),
	}
	d.index(root)

	vb, hasViewBox := parseViewBox(attrOrEmpty(root, "viewBox"))
	width, okW := parseLength(attrOrEmpty(root, "width"))
	height, okH := parseLength(attrOrEmpty(root, "height"))
	if !okW && hasViewBox {
		width = vb.Width
	}
	if !okH && hasViewBox {
		height = vb.Height
	}
	if width <= 0 || height <= 0 {
		return nil, ErrNoSize
	}
	if !hasViewBox {
		vb = geometry.NewRect(0, 0, width, height)
	}
	d.size = geometry.NewSize(width, height)
	d.viewBox = vb

	// Catch anything the rasterizer rejects now rather than on the first paint.
	if _, err := oksvg.ReadIconStream(bytes.NewReader(d.standalone(root, false)), oksvg.IgnoreErrorMode); err != nil {
		return nil, fmt.Errorf("failed to parse svg: %w", err)
	}
	return d, nil
}

// LoadFile reads and parses the SVG file at path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// LoadFS reads and parses the SVG file name from fsys.
func LoadFS(fsys fs.FS, name string) (*Document, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	doc, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return doc, nil
}

func (d *Document) index(n *node) {
	for _, c := range n.children {
		if c.isText() {
			continue
		}
		if c.name.Local == "defs" {
			d.defs = append(d.defs, c)
		}
		if id, ok := c.attr("id"); ok && id != "" {
			if _, dup := d.ids[id]; !dup {
				d.ids[id] = c
				d.order = append(d.order, id)
			}
		}
		d.index(c)
	}
}

func (d *Document) lookup(id string) (*node, bool) {
	n, ok := d.ids[strings.TrimPrefix(id, "#")]
	return n, ok
}

// Size returns the intrinsic size in document units.
func (d *Document) Size() geometry.Size {
	return d.size
}

// Has reports whether the document contains an element with the given id.
func (d *Document) Has(id string) bool {
	_, ok := d.lookup(id)
	return ok
}

// IDs returns every element id in document order.
func (d *Document) IDs() []string {
	return append([]string(nil), d.order...)
}

// Layers returns the ids of the groups directly below the root element.
func (d *Document) Layers() []string {
	var layers []string
	for _, c := range d.root.children {
		if c.isText() || c.name.Local != "g" {
			continue
		}
		if id, ok := c.attr("id"); ok {
			layers = append(layers, id)
		}
	}
	return layers
}

// Element returns the tag and attributes of the element with the given id.
func (d *Document) Element(id string) (Element, bool) {
	n, ok := d.lookup(id)
	if !ok {
		return Element{}, false
	}
	e := Element{
		ID:    strings.TrimPrefix(id, "#"),
		Tag:   n.name.Local,
		Attrs: make(map[string]string, len(n.attrs)),
	}
	for _, a := range n.attrs {
		e.Attrs[qualified(a.Name)] = a.Value
	}
	return e, true
}

func attrOrEmpty(n *node, name string) string {
	v, _ := n.attr(name)
	return v
}

// unitScale converts CSS absolute units to pixels at 96 dpi.
var unitScale = map[string]float64{
	"":   1,
	"px": 1,
	"pt": 96.0 / 72.0,
	"pc": 16,
	"in": 96,
	"cm": 96 / 2.54,
	"mm": 96 / 25.4,
}

func parseLength(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	end := len(s)
	for end > 0 && (s[end-1] >= 'a' && s[end-1] <= 'z' || s[end-1] == '%') {
		end--
	}
	scale, ok := unitScale[s[end:]]
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s[:end]), 64)
	if err != nil {
		return 0, false
	}
	return v * scale, true
}

func parseViewBox(s string) (geometry.Rect, bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) != 4 {
		return geometry.Rect{}, false
	}
	var v [4]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Rect{}, false
		}
		v[i] = n
	}
	if v[2] <= 0 || v[3] <= 0 {
		return geometry.Rect{}, false
	}
	return geometry.NewRect(v[0], v[1], v[2], v[3]), true
}
