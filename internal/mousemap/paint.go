package mousemap

import (
	"image"
	"image/color"
	"math"

	"piper/pkg/colorutil"
	"piper/pkg/geometry"

	"golang.org/x/image/draw"
)

// tintOpacity is applied to the tint color for the device base and highlight.
const tintOpacity = 0.5

// PaintOptions control a Paint call.
type PaintOptions struct {
	// Tint colors the device silhouette and the highlight, typically the
	// theme's link color. Nil uses black.
	Tint color.Color

	// Scale is the number of surface pixels per container unit. Zero means 1.
	Scale float64

	// DrawChild, when set, is called for every attached control before the
	// illustration is drawn. Hosts that composite children themselves leave it nil.
	DrawChild func(Control)
}

// Paint draws the illustration into dst, whose bounds origin corresponds to the
// container's origin: the tinted device, the highlighted anchor if any, then
// the interactive layer.
func (e *Engine) Paint(dst draw.Image, opts PaintOptions) {
	if opts.DrawChild != nil {
		for _, a := range e.children.items {
			opts.DrawChild(a.control)
		}
	}

	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	tint := colorutil.WithOpacity(opts.Tint, tintOpacity)

	// Relative to dst.Bounds().Min, as Document.Render expects.
	origin := e.illustrationOrigin().Scale(scale)

	e.paintMasked(dst, DeviceElement, origin, scale, tint)

	if e.highlighted {
		e.paintMasked(dst, e.highlight.Content(), origin, scale, tint)
	}

	if err := e.doc.Render(dst, e.layer, origin, scale); err != nil {
		e.logger.Warn("cannot render layer", "layer", e.layer, "err", err)
	}
}

// paintMasked renders element id into an off-screen surface the size of the
// document and fills tint through its alpha onto dst, so the result has the
// exact shape of the element.
func (e *Engine) paintMasked(dst draw.Image, id string, origin geometry.Point2D, scale float64, tint color.Color) {
	if !e.doc.Has(id) {
		return
	}
	size := e.doc.Size()
	w := int(math.Ceil(size.Width * scale))
	h := int(math.Ceil(size.Height * scale))
	if geometry.NewRect(0, 0, float64(w), float64(h)).Empty() {
		return
	}

	mask := image.NewRGBA(image.Rect(0, 0, w, h))
	if err := e.doc.Render(mask, id, geometry.Point2D{}, scale); err != nil {
		e.logger.Warn("cannot render element", "id", id, "err", err)
		return
	}

	at := dst.Bounds().Min.Add(image.Pt(int(math.Round(origin.X)), int(math.Round(origin.Y))))
	r := image.Rectangle{Min: at, Max: at.Add(mask.Bounds().Size())}
	draw.DrawMask(dst, r, image.NewUniform(tint), image.Point{}, mask, image.Point{}, draw.Over)
}
