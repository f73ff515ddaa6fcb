package mousemap

import "piper/pkg/geometry"

// highlightPadding is added around a highlighted region when invalidating it.
const highlightPadding = 10

// Highlighted returns the anchor currently highlighted by hover, if any.
func (e *Engine) Highlighted() (Anchor, bool) {
	return e.highlight, e.highlighted
}

func (e *Engine) pointerEnter(a *attachment) {
	// The host sends leave before the next enter; if it did not, go
	// through idle anyway so the old region is redrawn.
	if e.highlighted {
		e.pointerLeave()
	}
	e.highlight = a.anchor
	e.highlighted = true
	e.queueRedraw(a.anchor.Content())
}

func (e *Engine) pointerLeave() {
	if !e.highlighted {
		return
	}
	old := e.highlight
	e.highlight = ""
	e.highlighted = false
	e.queueRedraw(old.Content())
}

func (e *Engine) queueRedraw(id string) {
	if e.invalidate != nil {
		e.invalidate(e.RedrawArea(id))
	}
}

// RedrawArea returns the container area covering element id plus padding,
// or the whole illustration when the element cannot be resolved.
func (e *Engine) RedrawArea(id string) geometry.Rect {
	origin := e.illustrationOrigin()
	box, ok := e.resolver.Resolve(id)
	if !ok {
		size := e.doc.Size()
		return geometry.NewRect(origin.X, origin.Y, size.Width, size.Height)
	}
	return box.Translate(origin.X, origin.Y).Expand(highlightPadding)
}
