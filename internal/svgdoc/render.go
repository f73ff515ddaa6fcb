package svgdoc

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"

	"piper/pkg/geometry"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// Render draws the element id, or the whole document when id is empty, into
// dst. The document origin lands on origin, measured from dst.Bounds().Min,
// and document units are multiplied by scale.
func (d *Document) Render(dst draw.Image, id string, origin geometry.Point2D, scale float64) error {
	n := d.root
	if id != "" {
		var ok bool
		if n, ok = d.lookup(id); !ok {
			return fmt.Errorf("%w: %s", ErrNoElement, id)
		}
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(d.standalone(n, false)), oksvg.IgnoreErrorMode)
	if err != nil {
		return fmt.Errorf("failed to parse element %s: %w", id, err)
	}
	icon.SetTarget(origin.X, origin.Y, d.size.Width*scale, d.size.Height*scale)

	b := dst.Bounds()
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b)
	icon.Draw(rasterx.NewDasher(b.Dx(), b.Dy(), scanner), 1.0)
	return nil
}

// Bounds returns the axis-aligned box of the element in document
// coordinates. Transforms of enclosing groups are applied; paint is not, so
// invisible markers still have a box. ok is false when the element does not
// exist or has no geometry.
func (d *Document) Bounds(id string) (geometry.Rect, bool) {
	n, ok := d.lookup(id)
	if !ok {
		return geometry.Rect{}, false
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if e, cached := d.bounds[n.key()]; cached {
		return e.rect, e.ok
	}

	rect, ok := d.measure(n)
	d.bounds[n.key()] = boundsEntry{rect: rect, ok: ok}
	return rect, ok
}

func (d *Document) measure(n *node) (geometry.Rect, bool) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(d.standalone(n, true)), oksvg.IgnoreErrorMode)
	if err != nil {
		return geometry.Rect{}, false
	}
	icon.SetTarget(0, 0, d.size.Width, d.size.Height)

	w, h := int(d.size.Width+0.5), int(d.size.Height+0.5)
	extent := &extentScanner{}
	icon.Draw(rasterx.NewDasher(w, h, extent), 1.0)
	if !extent.seen {
		return geometry.Rect{}, false
	}
	return geometry.BoundingBox([]geometry.Point2D{fromFixed(extent.min), fromFixed(extent.max)}), true
}

func (n *node) key() string {
	id, _ := n.attr("id")
	return id
}

func fromFixed(p fixed.Point26_6) geometry.Point2D {
	return geometry.NewPoint2D(float64(p.X)/64, float64(p.Y)/64)
}

// extentScanner is a rasterx.Scanner that paints nothing and records the
// extent of every point it is fed.
type extentScanner struct {
	seen     bool
	min, max fixed.Point26_6
}

var _ rasterx.Scanner = (*extentScanner)(nil)

func (s *extentScanner) add(p fixed.Point26_6) {
	if !s.seen {
		s.min, s.max, s.seen = p, p, true
		return
	}
	s.min.X = min(s.min.X, p.X)
	s.min.Y = min(s.min.Y, p.Y)
	s.max.X = max(s.max.X, p.X)
	s.max.Y = max(s.max.Y, p.Y)
}

func (s *extentScanner) Start(a fixed.Point26_6) { s.add(a) }
func (s *extentScanner) Line(b fixed.Point26_6)  { s.add(b) }
func (s *extentScanner) Draw()                   {}
func (s *extentScanner) SetBounds(w, h int)      {}
func (s *extentScanner) SetColor(interface{})    {}
func (s *extentScanner) SetWinding(bool)         {}
func (s *extentScanner) SetClip(image.Rectangle) {}

// Clear is called by the filler between paths; the extent accumulates across them.
func (s *extentScanner) Clear() {}

func (s *extentScanner) GetPathExtent() fixed.Rectangle26_6 {
	return fixed.Rectangle26_6{Min: s.min, Max: s.max}
}
